package rbac

import (
	"go-hrdesk/internal/domain"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"go.uber.org/zap"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// policies is the full static permission set. Roles are fixed (admin, hr,
// employee) so the policy lives in code rather than a policy store.
var policies = [][]string{
	{domain.RoleHR, "holiday", "create"},
	{domain.RoleHR, "holiday", "delete"},
	{domain.RoleHR, "onboarding", "invite"},
	{domain.RoleHR, "onboarding", "review"},
	{domain.RoleHR, "onboarding", "read"},
	{domain.RoleHR, "employee", "read"},
	{domain.RoleHR, "leave", "decide"},
	{domain.RoleHR, "leave", "read_all"},
	{domain.RoleHR, "ticket", "assign"},
	{domain.RoleHR, "ticket", "update"},
	{domain.RoleHR, "ticket", "read_all"},

	{domain.RoleEmployee, "onboarding", "submit"},
	{domain.RoleEmployee, "leave", "apply"},
	{domain.RoleEmployee, "leave", "cancel"},
	{domain.RoleEmployee, "leave", "read_own"},
	{domain.RoleEmployee, "ticket", "create"},
	{domain.RoleEmployee, "ticket", "rate"},
	{domain.RoleEmployee, "ticket", "comment"},
	{domain.RoleEmployee, "ticket", "read_own"},
	{domain.RoleEmployee, "holiday", "read"},
}

// groupings give admin every hr permission, and both staff roles the
// employee self-service permissions.
var groupings = [][]string{
	{domain.RoleAdmin, domain.RoleHR},
	{domain.RoleHR, domain.RoleEmployee},
}

type Service interface {
	Can(role, resource, action string) bool
}

type service struct {
	enforcer *casbin.Enforcer
	logger   *zap.Logger
}

func NewService(logger ...*zap.Logger) (Service, error) {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}

	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range policies {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}
	for _, g := range groupings {
		if _, err := enforcer.AddGroupingPolicy(g[0], g[1]); err != nil {
			return nil, err
		}
	}

	return &service{enforcer: enforcer, logger: l}, nil
}

func (s *service) Can(role, resource, action string) bool {
	allowed, err := s.enforcer.Enforce(role, resource, action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("role", role),
			zap.String("resource", resource),
			zap.String("action", action),
			zap.Error(err),
		)
		return false
	}
	return allowed
}
