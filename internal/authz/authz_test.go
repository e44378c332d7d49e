package authz

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-hub/internal/model"
)

func TestEnforcer_Rules(t *testing.T) {
	e, err := NewEnforcer()
	require.NoError(t, err)

	owner := model.Identity{UserID: 1, Role: model.RoleUser}
	other := model.Identity{UserID: 2, Role: model.RoleUser}
	admin := model.Identity{UserID: 3, Role: model.RoleAdmin}

	project := Project(&model.Project{ID: 10, OwnerID: 1})
	comment := Comment(&model.Comment{ID: 20, AuthorID: 1})

	tests := []struct {
		name     string
		identity model.Identity
		action   Action
		resource Resource
		allowed  bool
	}{
		{"owner updates project", owner, ActionUpdate, project, true},
		{"owner deletes project", owner, ActionDelete, project, true},
		{"other updates project", other, ActionUpdate, project, false},
		{"other deletes project", other, ActionDelete, project, false},
		{"admin deletes foreign project", admin, ActionDelete, project, true},
		{"anyone creates project", other, ActionCreate, Resource{Kind: KindProject}, true},
		{"anyone updates task", other, ActionUpdate, Task(), true},
		{"anyone deletes task", other, ActionDelete, Task(), true},
		{"author edits comment", owner, ActionUpdate, comment, true},
		{"other edits comment", other, ActionUpdate, comment, false},
		{"other deletes comment", other, ActionDelete, comment, false},
		{"admin deletes comment", admin, ActionDelete, comment, true},
		{"user lists users", owner, ActionList, Users(), false},
		{"admin lists users", admin, ActionList, Users(), true},
		{"unknown role", model.Identity{UserID: 1, Role: "guest"}, ActionCreate, Resource{Kind: KindProject}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := e.Authorize(context.Background(), tt.identity, tt.action, tt.resource)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrForbidden)
			}
		})
	}
}

func TestEnforcer_ZeroOwnerNeverMatchesOwnerRule(t *testing.T) {
	e, err := NewEnforcer()
	require.NoError(t, err)

	err = e.Authorize(context.Background(), model.Identity{UserID: 0, Role: model.RoleUser}, ActionUpdate, Resource{Kind: KindProject})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestNewEnforcer_RejectsMalformedPolicy(t *testing.T) {
	_, err := newEnforcer("p, user, project\n")
	assert.Error(t, err)
}

type ctxKey struct{}

type recordingHandler struct {
	contexts []context.Context
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h *recordingHandler) WithGroup(string) slog.Handler           { return h }

func (h *recordingHandler) Handle(ctx context.Context, _ slog.Record) error {
	h.contexts = append(h.contexts, ctx)
	return nil
}

func TestEnforcer_DenialLogKeepsRequestContext(t *testing.T) {
	e, err := NewEnforcer()
	require.NoError(t, err)

	handler := &recordingHandler{}
	previous := slog.Default()
	slog.SetDefault(slog.New(handler))
	t.Cleanup(func() { slog.SetDefault(previous) })

	ctx := context.WithValue(context.Background(), ctxKey{}, "req-42")
	err = e.Authorize(ctx, model.Identity{UserID: 2, Role: model.RoleUser}, ActionList, Users())
	require.ErrorIs(t, err, ErrForbidden)

	require.Len(t, handler.contexts, 1)
	assert.Equal(t, "req-42", handler.contexts[0].Value(ctxKey{}))
}
