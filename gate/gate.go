// Package gate is a small generic authorization registry. Role profiles grant
// "resource:action" permissions; per-resource policies then decide whether a
// given subject may touch a given record.
package gate

import (
	"context"
	"errors"
)

// ErrForbidden is returned when the profile or the resource policy denies.
var ErrForbidden = errors.New("forbidden")

// Action is an operation on a resource.
type Action string

const (
	ActionView   Action = "view"
	ActionList   Action = "list"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionApply  Action = "apply"
	ActionManage Action = "manage"
	ActionUse    Action = "use"
)

// Policy decides access to a single resource instance. resource is nil for
// list and create checks.
type Policy[U any] interface {
	Can(ctx context.Context, user U, action Action, resource any) bool
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc[U any] func(ctx context.Context, user U, action Action, resource any) bool

func (f PolicyFunc[U]) Can(ctx context.Context, user U, action Action, resource any) bool {
	return f(ctx, user, action, resource)
}
