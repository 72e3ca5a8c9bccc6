package gate

import "strings"

// Permission is "resource:action"; either side may be "*".
type Permission string

const (
	Wildcard      = "*"
	PermissionAll Permission = "*:*"
)

func NewPermission(resourceType string, action Action) Permission {
	return Permission(resourceType + ":" + string(action))
}

// Split returns the resource and action parts, or empty strings when malformed.
func (p Permission) Split() (string, Action) {
	res, act, ok := strings.Cut(string(p), ":")
	if !ok {
		return "", ""
	}
	return res, Action(act)
}

// Matches reports whether p grants requested.
func (p Permission) Matches(requested Permission) bool {
	if p == PermissionAll || p == requested {
		return true
	}
	res, act := p.Split()
	reqRes, reqAct := requested.Split()
	if res == "" || reqRes == "" {
		return false
	}
	return (res == Wildcard || res == reqRes) && (string(act) == Wildcard || act == reqAct)
}
