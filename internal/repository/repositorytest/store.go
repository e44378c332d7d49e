// Package repositorytest provides an in-memory implementation of the repository interfaces
// with the same ordering, cascade and constraint behaviour as the Postgres schema.
package repositorytest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"project-hub/internal/model"
	"project-hub/internal/repository"
)

type Store struct {
	mu       sync.Mutex
	now      time.Time
	nextID   map[string]int64
	users    map[int64]model.User
	projects map[int64]model.Project
	tasks    map[int64]model.Task
	comments map[int64]model.Comment
}

func NewStore() *Store {
	return &Store{
		now:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		nextID:   map[string]int64{},
		users:    map[int64]model.User{},
		projects: map[int64]model.Project{},
		tasks:    map[int64]model.Task{},
		comments: map[int64]model.Comment{},
	}
}

func (s *Store) Users() repository.UserRepository       { return userRepo{s} }
func (s *Store) Projects() repository.ProjectRepository { return projectRepo{s} }
func (s *Store) Tasks() repository.TaskRepository       { return taskRepo{s} }
func (s *Store) Comments() repository.CommentRepository { return commentRepo{s} }

// tick advances the fake clock so creation order is always observable. Callers hold mu.
func (s *Store) tick() time.Time {
	s.now = s.now.Add(time.Second)
	return s.now
}

func (s *Store) id(table string) int64 {
	s.nextID[table]++
	return s.nextID[table]
}

func (s *Store) deleteTaskLocked(id int64) {
	delete(s.tasks, id)
	for cid, c := range s.comments {
		if c.TaskID == id {
			delete(s.comments, cid)
		}
	}
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *model.User) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return nil, fmt.Errorf("%w: users_email_key", repository.ErrDuplicate)
		}
	}

	user.ID = r.s.id("users")
	user.CreatedAt = r.s.tick()
	r.s.users[user.ID] = *user
	return user, nil
}

func (r userRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r userRepo) FindByID(_ context.Context, id int64) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	u.PasswordHash = ""
	return &u, nil
}

func (r userRepo) List(_ context.Context) ([]model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	users := make([]model.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		u.PasswordHash = ""
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r userRepo) UpdateRole(_ context.Context, email, role string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, u := range r.s.users {
		if u.Email == email {
			u.Role = role
			r.s.users[id] = u
			return true, nil
		}
	}
	return false, nil
}

type projectRepo struct{ s *Store }

func (r projectRepo) withOwner(p model.Project) model.Project {
	p.OwnerName = r.s.users[p.OwnerID].Name
	return p
}

func (r projectRepo) List(_ context.Context) ([]model.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	projects := make([]model.Project, 0, len(r.s.projects))
	for _, p := range r.s.projects {
		projects = append(projects, r.withOwner(p))
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].CreatedAt.After(projects[j].CreatedAt) })
	return projects, nil
}

func (r projectRepo) FindByID(_ context.Context, id int64) (*model.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.projects[id]
	if !ok {
		return nil, nil
	}
	p = r.withOwner(p)
	return &p, nil
}

func (r projectRepo) Create(_ context.Context, project *model.Project) (*model.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	project.ID = r.s.id("projects")
	project.CreatedAt = r.s.tick()
	project.UpdatedAt = project.CreatedAt
	r.s.projects[project.ID] = *project
	return project, nil
}

func (r projectRepo) Update(_ context.Context, id int64, patch model.ProjectPatch) (*model.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.projects[id]
	if !ok {
		return nil, nil
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	p.UpdatedAt = r.s.tick()
	r.s.projects[id] = p
	return &p, nil
}

func (r projectRepo) Delete(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.projects[id]; !ok {
		return false, nil
	}
	delete(r.s.projects, id)
	for tid, t := range r.s.tasks {
		if t.ProjectID == id {
			r.s.deleteTaskLocked(tid)
		}
	}
	return true, nil
}

type taskRepo struct{ s *Store }

func (r taskRepo) withAssignee(t model.Task) model.Task {
	t.AssigneeName = nil
	if t.AssigneeID != nil {
		if u, ok := r.s.users[*t.AssigneeID]; ok {
			name := u.Name
			t.AssigneeName = &name
		}
	}
	return t
}

func (r taskRepo) List(_ context.Context, filter model.TaskFilter) ([]model.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tasks := []model.Task{}
	for _, t := range r.s.tasks {
		if filter.ProjectID != nil && t.ProjectID != *filter.ProjectID {
			continue
		}
		tasks = append(tasks, r.withAssignee(t))
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].CreatedAt.After(tasks[j].CreatedAt) })
	return tasks, nil
}

func (r taskRepo) FindByID(_ context.Context, id int64) (*model.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tasks[id]
	if !ok {
		return nil, nil
	}
	t = r.withAssignee(t)
	return &t, nil
}

func (r taskRepo) Create(_ context.Context, task *model.Task) (*model.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.projects[task.ProjectID]; !ok {
		return nil, &repository.ReferenceError{Constraint: repository.ConstraintTaskProject}
	}
	if task.AssigneeID != nil {
		if _, ok := r.s.users[*task.AssigneeID]; !ok {
			return nil, &repository.ReferenceError{Constraint: repository.ConstraintTaskAssignee}
		}
	}

	task.ID = r.s.id("tasks")
	task.CreatedAt = r.s.tick()
	task.UpdatedAt = task.CreatedAt
	stored := *task
	stored.AssigneeName = nil
	r.s.tasks[task.ID] = stored
	return task, nil
}

func (r taskRepo) Update(_ context.Context, id int64, patch model.TaskPatch) (*model.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tasks[id]
	if !ok {
		return nil, nil
	}
	if patch.AssigneeID != nil {
		if _, ok := r.s.users[*patch.AssigneeID]; !ok {
			return nil, &repository.ReferenceError{Constraint: repository.ConstraintTaskAssignee}
		}
		t.AssigneeID = patch.AssigneeID
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	t.UpdatedAt = r.s.tick()
	r.s.tasks[id] = t
	return &t, nil
}

func (r taskRepo) Delete(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tasks[id]; !ok {
		return false, nil
	}
	r.s.deleteTaskLocked(id)
	return true, nil
}

type commentRepo struct{ s *Store }

func (r commentRepo) withAuthor(c model.Comment) model.Comment {
	c.AuthorName = r.s.users[c.AuthorID].Name
	return c
}

func (r commentRepo) List(_ context.Context, filter model.CommentFilter) ([]model.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	comments := []model.Comment{}
	for _, c := range r.s.comments {
		if filter.TaskID != nil && c.TaskID != *filter.TaskID {
			continue
		}
		comments = append(comments, r.withAuthor(c))
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].CreatedAt.Before(comments[j].CreatedAt) })
	return comments, nil
}

func (r commentRepo) FindByID(_ context.Context, id int64) (*model.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.comments[id]
	if !ok {
		return nil, nil
	}
	c = r.withAuthor(c)
	return &c, nil
}

func (r commentRepo) Create(_ context.Context, comment *model.Comment) (*model.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tasks[comment.TaskID]; !ok {
		return nil, &repository.ReferenceError{Constraint: repository.ConstraintCommentTask}
	}
	if _, ok := r.s.users[comment.AuthorID]; !ok {
		return nil, &repository.ReferenceError{Constraint: repository.ConstraintCommentAuthor}
	}

	comment.ID = r.s.id("comments")
	comment.CreatedAt = r.s.tick()
	r.s.comments[comment.ID] = *comment
	return comment, nil
}

func (r commentRepo) UpdateBody(_ context.Context, id int64, body string) (*model.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.comments[id]
	if !ok {
		return nil, nil
	}
	c.Body = body
	r.s.comments[id] = c
	return &c, nil
}

func (r commentRepo) Delete(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.comments[id]; !ok {
		return false, nil
	}
	delete(r.s.comments, id)
	return true, nil
}
