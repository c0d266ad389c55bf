package rbac

import (
	"fmt"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

// modelText is the casbin model. Subjects are role names taken straight
// from the JWT, with g expressing the role hierarchy.
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

// defaultPolicies is the static permission matrix. The hierarchy is
// admin > manager > employee, so each tier only lists what it adds.
var defaultPolicies = [][3]string{
	// employee
	{RoleEmployee, "leave", "create"},
	{RoleEmployee, "leave", "read"},
	{RoleEmployee, "leave", "update"},
	{RoleEmployee, "leave-type", "read"},
	{RoleEmployee, "leave-balance", "read"},
	{RoleEmployee, "holiday", "read"},
	{RoleEmployee, "tax-projection", "read"},

	// manager
	{RoleManager, "leave", "read-all"},
	{RoleManager, "leave", "process"},
	{RoleManager, "payroll", "read"},

	// admin
	{RoleAdmin, "holiday", "create"},
	{RoleAdmin, "holiday", "delete"},
	{RoleAdmin, "leave-type", "create"},
	{RoleAdmin, "leave-type", "update"},
	{RoleAdmin, "leave-type", "delete"},
	{RoleAdmin, "leave-balance", "update"},
	{RoleAdmin, "salary-component", "create"},
	{RoleAdmin, "salary-component", "read"},
	{RoleAdmin, "salary-component", "update"},
	{RoleAdmin, "salary-component", "delete"},
	{RoleAdmin, "salary-component", "assign"},
	{RoleAdmin, "payroll", "preview"},
	{RoleAdmin, "payroll", "submit"},
	{RoleAdmin, "payroll", "reopen"},
	{RoleAdmin, "tax-projection", "manage"},
}

var roleHierarchy = [][2]string{
	{RoleAdmin, RoleManager},
	{RoleManager, RoleEmployee},
}

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(role, resource, action string) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
}

// NewService builds an enforcer with the static policy matrix loaded.
func NewService() (Service, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("rbac: parse model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("rbac: new enforcer: %w", err)
	}

	for _, g := range roleHierarchy {
		if _, err := enforcer.AddGroupingPolicy(g[0], g[1]); err != nil {
			return nil, fmt.Errorf("rbac: add role hierarchy: %w", err)
		}
	}

	for _, p := range defaultPolicies {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, fmt.Errorf("rbac: add policy: %w", err)
		}
	}

	return &service{enforcer: enforcer}, nil
}

func (s *service) Enforce(role, resource, action string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.enforcer.Enforce(role, resource, action)
}
