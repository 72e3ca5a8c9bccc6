package policy

import (
	"github.com/jobzee/jobzee/gate"
	"github.com/jobzee/jobzee/internal/models"
)

// Resource types checked by the gate.
const (
	ResourceJob         = "job"
	ResourceCandidate   = "candidate"
	ResourceApplication = "application"
	ResourceCompany     = "company"
	ResourceUser        = "user"
	ResourceAgent       = "agent"
)

// Domain actions on top of gate's CRUD verbs.
const (
	ActionClose    gate.Action = "close"
	ActionWithdraw gate.Action = "withdraw"
	ActionMatch    gate.Action = "match"
	ActionStats    gate.Action = "stats"
)

var roleProfiles = map[models.Role]*gate.RoleProfile{
	models.RoleCandidate: gate.NewRoleProfile(string(models.RoleCandidate),
		"job:view", "job:list",
		"candidate:create", "candidate:view", "candidate:update", "candidate:delete", "candidate:match",
		"application:apply", "application:list", "application:view", "application:withdraw",
		"company:view", "company:list",
		"agent:use",
	),
	models.RoleHR: gate.NewRoleProfile(string(models.RoleHR),
		"job:*",
		"candidate:view", "candidate:list", "candidate:stats",
		"application:list", "application:view", "application:update",
		"company:view", "company:list", "company:update",
		"agent:use",
	),
	models.RoleAdmin: gate.NewRoleProfile(string(models.RoleAdmin), gate.PermissionAll),
}

// ProfileFor returns the static permission set of a role, or nil.
func ProfileFor(role models.Role) *gate.RoleProfile {
	return roleProfiles[role]
}
