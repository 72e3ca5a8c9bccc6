package gate

import "context"

// HybridGate checks the subject's profile first and then, if a resource
// instance is supplied and a policy is registered for its type, the policy.
type HybridGate[U comparable] struct {
	resolver ProfileResolver[U]
	policies map[string]Policy[U]
}

func NewHybridGate[U comparable](resolver ProfileResolver[U]) *HybridGate[U] {
	return &HybridGate[U]{resolver: resolver, policies: make(map[string]Policy[U])}
}

func (g *HybridGate[U]) Register(resourceType string, p Policy[U]) {
	g.policies[resourceType] = p
}

func (g *HybridGate[U]) Authorize(ctx context.Context, user U, action Action, resourceType string, resource any) error {
	if !g.CanProfile(ctx, user, action, resourceType) {
		return ErrForbidden
	}
	if resource == nil {
		return nil
	}
	if p, ok := g.policies[resourceType]; ok && !p.Can(ctx, user, action, resource) {
		return ErrForbidden
	}
	return nil
}

func (g *HybridGate[U]) Can(ctx context.Context, user U, action Action, resourceType string, resource any) bool {
	return g.Authorize(ctx, user, action, resourceType, resource) == nil
}

// CanProfile checks the permission only, before any record is loaded.
func (g *HybridGate[U]) CanProfile(ctx context.Context, user U, action Action, resourceType string) bool {
	var zero U
	if user == zero {
		return false
	}
	profile, err := g.resolver.Resolve(ctx, user)
	if err != nil || profile == nil {
		return false
	}
	return profile.HasPermission(NewPermission(resourceType, action))
}

// Profile exposes the resolved profile for the subject.
func (g *HybridGate[U]) Profile(ctx context.Context, user U) (Profile, error) {
	return g.resolver.Resolve(ctx, user)
}
