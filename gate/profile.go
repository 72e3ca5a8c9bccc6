package gate

import (
	"context"
	"sort"
)

// Profile is a named set of permissions, typically one per role.
type Profile interface {
	Name() string
	HasPermission(Permission) bool
	Permissions() []Permission
}

// ProfileResolver maps a subject to its profile. A nil profile with a nil
// error means the subject has no access at all.
type ProfileResolver[U any] interface {
	Resolve(ctx context.Context, user U) (Profile, error)
}

// RoleProfile is an immutable in-memory Profile.
type RoleProfile struct {
	name  string
	perms map[Permission]struct{}
}

func NewRoleProfile(name string, perms ...Permission) *RoleProfile {
	p := &RoleProfile{name: name, perms: make(map[Permission]struct{}, len(perms))}
	for _, perm := range perms {
		p.perms[perm] = struct{}{}
	}
	return p
}

func (p *RoleProfile) Name() string { return p.name }

// Permissions are returned sorted.
func (p *RoleProfile) Permissions() []Permission {
	out := make([]Permission, 0, len(p.perms))
	for perm := range p.perms {
		out = append(out, perm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (p *RoleProfile) HasPermission(requested Permission) bool {
	if _, ok := p.perms[requested]; ok {
		return true
	}
	for perm := range p.perms {
		if perm.Matches(requested) {
			return true
		}
	}
	return false
}

// ResolverFunc adapts a function to ProfileResolver.
type ResolverFunc[U any] func(ctx context.Context, user U) (Profile, error)

func (f ResolverFunc[U]) Resolve(ctx context.Context, user U) (Profile, error) {
	return f(ctx, user)
}

// MapResolver is a fixed subject to profile table, used in tests and seeds.
type MapResolver[U comparable] map[U]Profile

func (m MapResolver[U]) Resolve(_ context.Context, user U) (Profile, error) {
	return m[user], nil
}
