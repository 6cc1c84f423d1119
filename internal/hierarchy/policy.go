// Package hierarchy decides who may see and change which consultants.
//
// Every function here is pure: callers pass the acting consultant and whatever slice of the
// roster the decision needs, nothing is read from storage.
package hierarchy

import (
	"fmt"

	apperrors "brotos/internal/errors"
	"brotos/internal/model"
)

// Policy holds the one piece of configuration authorization depends on: the reserved
// bootstrap admin id.
type Policy struct {
	BootstrapID string
}

// NewPolicy creates a policy protecting the given bootstrap admin id.
func NewPolicy(bootstrapID string) Policy {
	return Policy{BootstrapID: bootstrapID}
}

// IsBootstrap reports whether c is the reserved bootstrap admin.
func (p Policy) IsBootstrap(c *model.Consultant) bool {
	return c != nil && c.ID == p.BootstrapID
}

// VisibleSet filters all down to what actor may list. Admins see everything, leaders see their
// direct recruits and consultants see only themselves. Order of all is preserved.
func (p Policy) VisibleSet(actor *model.Consultant, all []model.Consultant) []model.Consultant {
	if actor == nil {
		return []model.Consultant{}
	}
	visible := make([]model.Consultant, 0, len(all))
	for _, c := range all {
		switch actor.Role {
		case model.RoleAdmin:
			visible = append(visible, c)
		case model.RoleLeader:
			if c.IsChildOf(actor.ID) {
				visible = append(visible, c)
			}
		default:
			if c.ID == actor.ID {
				visible = append(visible, c)
			}
		}
	}
	return visible
}

// CanView reports whether target would appear in actor's visible set.
func (p Policy) CanView(actor, target *model.Consultant) bool {
	if actor == nil || target == nil {
		return false
	}
	switch actor.Role {
	case model.RoleAdmin:
		return true
	case model.RoleLeader:
		return target.IsChildOf(actor.ID) || target.ID == actor.ID
	default:
		return target.ID == actor.ID
	}
}

// CanCreateUnder reports whether actor may create a record whose recruiter is parentID
// ("" meaning a root record).
func (p Policy) CanCreateUnder(actor *model.Consultant, parentID string) bool {
	if actor == nil {
		return false
	}
	switch actor.Role {
	case model.RoleAdmin:
		return true
	case model.RoleLeader:
		return parentID == actor.ID
	default:
		return false
	}
}

// CheckCreate authorizes creating a record with the given fields.
func (p Policy) CheckCreate(actor *model.Consultant, fields model.ConsultantFields) error {
	if !p.CanCreateUnder(actor, fields.ParentID) {
		return fmt.Errorf("create under %q: %w", fields.ParentID, apperrors.ErrForbidden)
	}
	if fields.Role == model.RoleAdmin && actor.Role != model.RoleAdmin {
		return fmt.Errorf("grant admin role: %w", apperrors.ErrForbidden)
	}
	return nil
}

// CanEdit reports whether actor may edit target at all. Records without a recruiter are only
// manageable by admins (or by themselves).
func (p Policy) CanEdit(actor, target *model.Consultant) bool {
	if actor == nil || target == nil {
		return false
	}
	if actor.Role == model.RoleAdmin || actor.ID == target.ID {
		return true
	}
	return actor.Role == model.RoleLeader && target.IsChildOf(actor.ID)
}

// CheckUpdate authorizes applying patch to target.
//
// Non-admins editing themselves may only change profile fields. Leaders editing a recruit may
// change role and status but cannot move the recruit to another recruiter. Only admins grant,
// revoke or suspend the admin role.
func (p Policy) CheckUpdate(actor, target *model.Consultant, patch model.ConsultantPatch) error {
	if !p.CanEdit(actor, target) {
		return fmt.Errorf("edit %s: %w", target.ID, apperrors.ErrForbidden)
	}
	if patch.TouchesProfileOnly() {
		return nil
	}

	roleChanged := patch.Role != nil && *patch.Role != target.Role
	statusChanged := patch.Status != nil && *patch.Status != target.Status
	parentChanged := patch.ParentID != nil && *patch.ParentID != target.ParentIDValue()

	if p.IsBootstrap(target) && (roleChanged || (statusChanged && *patch.Status != model.StatusActive)) {
		return apperrors.ErrBootstrapAdmin
	}
	if roleChanged && *patch.Role == model.RoleAdmin && actor.Role != model.RoleAdmin {
		return fmt.Errorf("grant admin role: %w", apperrors.ErrForbidden)
	}
	if actor.Role == model.RoleAdmin {
		return nil
	}
	if target.Role == model.RoleAdmin && (roleChanged || statusChanged) {
		return fmt.Errorf("change role or status of admin %s: %w", target.ID, apperrors.ErrForbidden)
	}
	if actor.ID == target.ID {
		if roleChanged || statusChanged || parentChanged {
			return fmt.Errorf("change own role, status or recruiter: %w", apperrors.ErrForbidden)
		}
		return nil
	}
	if parentChanged {
		return fmt.Errorf("move recruit %s: %w", target.ID, apperrors.ErrForbidden)
	}
	return nil
}

// CanDelete reports whether actor may deactivate or delete target given the current number of
// admins in the network.
func (p Policy) CanDelete(actor, target *model.Consultant, adminCount int64) bool {
	return p.CheckDelete(actor, target, adminCount) == nil
}

// CheckDelete authorizes removing target. Only admins delete; the bootstrap admin is never
// deletable and the last admin cannot be removed.
func (p Policy) CheckDelete(actor, target *model.Consultant, adminCount int64) error {
	if actor == nil || actor.Role != model.RoleAdmin {
		return fmt.Errorf("delete: %w", apperrors.ErrForbidden)
	}
	if p.IsBootstrap(target) {
		return apperrors.ErrBootstrapAdmin
	}
	if target.Role == model.RoleAdmin && adminCount <= 1 {
		return apperrors.ErrLastAdmin
	}
	return nil
}
