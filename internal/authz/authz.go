package authz

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/casbin/casbin/v3"
	casbinmodel "github.com/casbin/casbin/v3/model"
	stringadapter "github.com/casbin/casbin/v3/persist/string-adapter"

	"project-hub/internal/model"
)

//go:embed model.conf
var modelText string

//go:embed policy.csv
var policyText string

var ErrForbidden = errors.New("not authorized")

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"
)

const (
	KindProject = "project"
	KindTask    = "task"
	KindComment = "comment"
	KindUser    = "user"
)

const (
	relationOwner = "owner"
	relationOther = "other"
)

// Resource is the target of an authorization decision. OwnerID is the owner of a project or
// the author of a comment, zero when the resource has no owner.
type Resource struct {
	Kind    string
	OwnerID int64
}

func Project(p *model.Project) Resource { return Resource{Kind: KindProject, OwnerID: p.OwnerID} }
func Comment(c *model.Comment) Resource { return Resource{Kind: KindComment, OwnerID: c.AuthorID} }
func Task() Resource                    { return Resource{Kind: KindTask} }
func Users() Resource                   { return Resource{Kind: KindUser} }

type Authorizer interface {
	Authorize(ctx context.Context, identity model.Identity, action Action, resource Resource) error
}

type Enforcer struct {
	enforcer *casbin.Enforcer
}

// NewEnforcer builds an enforcer from the embedded model and policy table.
func NewEnforcer() (*Enforcer, error) {
	return newEnforcer(policyText)
}

func newEnforcer(policy string) (*Enforcer, error) {
	m, err := casbinmodel.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("load authz model: %w", err)
	}

	e, err := casbin.NewEnforcer(m, stringadapter.NewAdapter(policy))
	if err != nil {
		return nil, fmt.Errorf("load authz policy: %w", err)
	}

	return &Enforcer{enforcer: e}, nil
}

func (e *Enforcer) Authorize(ctx context.Context, identity model.Identity, action Action, resource Resource) error {
	relation := relationOther
	if resource.OwnerID != 0 && resource.OwnerID == identity.UserID {
		relation = relationOwner
	}

	allowed, err := e.enforcer.Enforce(identity.Role, resource.Kind, string(action), relation)
	if err != nil {
		return fmt.Errorf("enforce %s %s: %w", action, resource.Kind, err)
	}

	if !allowed {
		slog.DebugContext(ctx, "authorization denied",
			slog.Int64("user_id", identity.UserID),
			slog.String("role", identity.Role),
			slog.String("action", string(action)),
			slog.String("resource", resource.Kind),
		)
		return ErrForbidden
	}

	return nil
}
