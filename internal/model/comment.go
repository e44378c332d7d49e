package model

import "time"

type Comment struct {
	ID         int64     `db:"id" json:"id"`
	Body       string    `db:"body" json:"body"`
	TaskID     int64     `db:"task_id" json:"task_id"`
	AuthorID   int64     `db:"author_id" json:"author_id"`
	AuthorName string    `db:"author_name" json:"author_name,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type CommentFilter struct {
	TaskID *int64
}
