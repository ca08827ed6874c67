package iam

import (
	_ "embed"
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// Objects and actions for authorization checks. Together with the two
// roles they span the whole policy surface of the service.
const (
	ObjectAssignment = "assignment"
	ObjectAdmin      = "admin"

	// ActionSubmit allows uploading a new assignment
	ActionSubmit = "submit"

	// ActionList allows listing records of the given object kind
	ActionList = "list"

	// ActionDecide allows accepting or rejecting an assignment
	ActionDecide = "decide"
)

//go:embed model.conf
var casbinModelContent string

// policyRules is the complete role policy:
//   - regular users submit assignments, admins cannot
//   - only admins list assignments (scoped to those addressed to them)
//   - only admins decide assignments (ownership is enforced separately,
//     folded into the store's conditional update)
//   - any authenticated principal lists admins
var policyRules = [][]string{
	{RoleUser, ObjectAssignment, ActionSubmit},
	{RoleAdmin, ObjectAssignment, ActionList},
	{RoleAdmin, ObjectAssignment, ActionDecide},
	{RoleUser, ObjectAdmin, ActionList},
	{RoleAdmin, ObjectAdmin, ActionList},
}

// Authorizer decides whether a principal's role permits an action. It wraps
// a casbin enforcer built from the embedded model with the static policy
// rules loaded at construction time; no policy state is mutated afterwards,
// so the enforcer is safe for concurrent use.
type Authorizer struct {
	enforcer *casbin.Enforcer
}

// NewAuthorizer creates an Authorizer with the embedded model and the
// built-in two-role policy.
func NewAuthorizer() (*Authorizer, error) {
	m, err := model.NewModelFromString(casbinModelContent)
	if err != nil {
		return nil, fmt.Errorf("parse casbin model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create casbin enforcer: %w", err)
	}

	if _, err := enforcer.AddPolicies(policyRules); err != nil {
		return nil, fmt.Errorf("load casbin policies: %w", err)
	}

	return &Authorizer{enforcer: enforcer}, nil
}

// Authorize returns nil when the principal's role permits the action on the
// object, and ErrForbidden otherwise.
func (a *Authorizer) Authorize(p *Principal, object, action string) error {
	ok, err := a.enforcer.Enforce(p.Role(), object, action)
	if err != nil {
		return fmt.Errorf("enforce %s %s for %q: %w", action, object, p.Username, err)
	}
	if !ok {
		return fmt.Errorf("%s %s: %w", action, object, ErrForbidden)
	}
	return nil
}
