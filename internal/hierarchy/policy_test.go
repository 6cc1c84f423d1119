package hierarchy

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "brotos/internal/errors"
	"brotos/internal/model"
)

const bootstrapID = "18112025"

func consultant(id string, role model.Role, parentID string) model.Consultant {
	return model.Consultant{
		ID:       id,
		Name:     "Consultant " + id,
		Role:     role,
		Status:   model.StatusActive,
		ParentID: model.StringPtr(parentID),
	}
}

func roster() []model.Consultant {
	return []model.Consultant{
		consultant(bootstrapID, model.RoleAdmin, ""),
		consultant("100001", model.RoleConsultant, ""),
		consultant("100002", model.RoleLeader, ""),
		consultant("100003", model.RoleConsultant, "100002"),
		consultant("100004", model.RoleLeader, "100002"),
		consultant("100005", model.RoleConsultant, "100004"),
	}
}

func ids(cs []model.Consultant) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ID)
	}
	return out
}

func TestPolicy_VisibleSet(t *testing.T) {
	p := NewPolicy(bootstrapID)
	all := roster()

	tests := []struct {
		name     string
		actor    model.Consultant
		expected []string
	}{
		{
			name:     "admin sees everyone in insertion order",
			actor:    all[0],
			expected: []string{bootstrapID, "100001", "100002", "100003", "100004", "100005"},
		},
		{
			name:     "leader sees direct recruits only",
			actor:    all[2],
			expected: []string{"100003", "100004"},
		},
		{
			name:     "nested leader sees own recruits",
			actor:    all[4],
			expected: []string{"100005"},
		},
		{
			name:     "consultant sees only self",
			actor:    all[3],
			expected: []string{"100003"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actor := tt.actor
			assert.Equal(t, tt.expected, ids(p.VisibleSet(&actor, all)))
		})
	}
}

func TestPolicy_VisibleSetExcludesGrandchildren(t *testing.T) {
	p := NewPolicy(bootstrapID)
	all := roster()
	leader := all[2]

	visible := p.VisibleSet(&leader, all)
	for _, c := range visible {
		assert.Equal(t, leader.ID, c.ParentIDValue())
	}
	assert.NotContains(t, ids(visible), "100005")
}

func TestPolicy_CanCreateUnder(t *testing.T) {
	p := NewPolicy(bootstrapID)
	all := roster()
	admin, leader, member := all[0], all[2], all[1]

	assert.True(t, p.CanCreateUnder(&admin, ""))
	assert.True(t, p.CanCreateUnder(&admin, "100004"))
	assert.True(t, p.CanCreateUnder(&leader, leader.ID))
	assert.False(t, p.CanCreateUnder(&leader, ""))
	assert.False(t, p.CanCreateUnder(&leader, "100004"))
	assert.False(t, p.CanCreateUnder(&member, member.ID))
	assert.False(t, p.CanCreateUnder(nil, ""))
}

func TestPolicy_CheckCreate(t *testing.T) {
	p := NewPolicy(bootstrapID)
	all := roster()
	admin, leader := all[0], all[2]

	assert.NoError(t, p.CheckCreate(&admin, model.ConsultantFields{Role: model.RoleAdmin}))
	assert.NoError(t, p.CheckCreate(&leader, model.ConsultantFields{Role: model.RoleLeader, ParentID: leader.ID}))
	assert.ErrorIs(t, p.CheckCreate(&leader, model.ConsultantFields{Role: model.RoleAdmin, ParentID: leader.ID}), apperrors.ErrForbidden)
}

func TestPolicy_CheckUpdate(t *testing.T) {
	p := NewPolicy(bootstrapID)
	all := roster()
	admin, leader, recruit, nestedLeader, member := all[0], all[2], all[3], all[4], all[1]

	admin2 := model.RoleAdmin
	leaderRole := model.RoleLeader
	inactive := model.StatusInactive
	newName := "Renamed"
	elsewhere := "100001"
	consultantRole := model.RoleConsultant
	recruitedAdmin := consultant("100010", model.RoleAdmin, leader.ID)

	tests := []struct {
		name     string
		actor    model.Consultant
		target   model.Consultant
		patch    model.ConsultantPatch
		expected error
	}{
		{"admin edits anyone", admin, recruit, model.ConsultantPatch{Role: &leaderRole, ParentID: &elsewhere}, nil},
		{"self profile edit", member, member, model.ConsultantPatch{Name: &newName}, nil},
		{"self role change", member, member, model.ConsultantPatch{Role: &leaderRole}, apperrors.ErrForbidden},
		{"self role unchanged value", member, member, model.ConsultantPatch{Name: &newName, Role: &member.Role}, nil},
		{"leader edits recruit", leader, recruit, model.ConsultantPatch{Role: &leaderRole, Status: &inactive}, nil},
		{"leader cannot move recruit", leader, recruit, model.ConsultantPatch{ParentID: &elsewhere}, apperrors.ErrForbidden},
		{"leader cannot grant admin", leader, recruit, model.ConsultantPatch{Role: &admin2}, apperrors.ErrForbidden},
		{"leader cannot edit grandchild", leader, all[5], model.ConsultantPatch{Name: &newName}, apperrors.ErrForbidden},
		{"leader cannot edit root", nestedLeader, member, model.ConsultantPatch{Name: &newName}, apperrors.ErrForbidden},
		{"consultant cannot edit others", member, recruit, model.ConsultantPatch{Name: &newName}, apperrors.ErrForbidden},
		{"bootstrap role is fixed", admin, admin, model.ConsultantPatch{Role: &leaderRole}, apperrors.ErrBootstrapAdmin},
		{"bootstrap stays active", admin, admin, model.ConsultantPatch{Status: &inactive}, apperrors.ErrBootstrapAdmin},
		{"bootstrap profile editable", admin, admin, model.ConsultantPatch{Name: &newName}, nil},
		{"leader cannot demote recruited admin", leader, recruitedAdmin, model.ConsultantPatch{Role: &consultantRole}, apperrors.ErrForbidden},
		{"leader cannot deactivate recruited admin", leader, recruitedAdmin, model.ConsultantPatch{Status: &inactive}, apperrors.ErrForbidden},
		{"leader edits recruited admin profile", leader, recruitedAdmin, model.ConsultantPatch{Name: &newName}, nil},
		{"admin demotes recruited admin", admin, recruitedAdmin, model.ConsultantPatch{Role: &consultantRole}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actor, target := tt.actor, tt.target
			err := p.CheckUpdate(&actor, &target, tt.patch)
			if tt.expected == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.expected)
			}
		})
	}
}

func TestPolicy_CheckDelete(t *testing.T) {
	p := NewPolicy(bootstrapID)
	all := roster()
	admin, leader, member := all[0], all[2], all[1]
	otherAdmin := consultant("100009", model.RoleAdmin, "")

	assert.NoError(t, p.CheckDelete(&admin, &member, 1))
	assert.ErrorIs(t, p.CheckDelete(&leader, &all[3], 1), apperrors.ErrForbidden)
	assert.ErrorIs(t, p.CheckDelete(&admin, &admin, 2), apperrors.ErrBootstrapAdmin)
	assert.ErrorIs(t, p.CheckDelete(&otherAdmin, &admin, 2), apperrors.ErrBootstrapAdmin)
	assert.NoError(t, p.CheckDelete(&otherAdmin, &otherAdmin, 2))
	assert.ErrorIs(t, p.CheckDelete(&otherAdmin, &otherAdmin, 1), apperrors.ErrLastAdmin)
	assert.True(t, p.CanDelete(&admin, &member, 1))
	assert.False(t, p.CanDelete(&member, &member, 1))
}

func TestCheckParent(t *testing.T) {
	lookup := IndexLookup(roster())
	ctx := context.Background()

	assert.NoError(t, CheckParent(ctx, lookup, "100003", ""))
	assert.NoError(t, CheckParent(ctx, lookup, "100003", "100004"))
	assert.ErrorIs(t, CheckParent(ctx, lookup, "100002", "100005"), apperrors.ErrCycle)
	assert.ErrorIs(t, CheckParent(ctx, lookup, "100002", "100002"), apperrors.ErrCycle)

	err := CheckParent(ctx, lookup, "100003", "999999")
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "parentId", verr.Fields[0].Field)
}

// Random reparenting guarded by CheckParent never produces a recruiter chain that loops.
func TestCheckParent_RandomReparentingStaysAcyclic(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	all := make([]model.Consultant, 0, 40)
	for i := 0; i < 40; i++ {
		parent := ""
		if i > 0 && rng.Intn(3) > 0 {
			parent = all[rng.Intn(i)].ID
		}
		all = append(all, consultant(fmt.Sprintf("2%05d", i), model.RoleLeader, parent))
	}

	for step := 0; step < 500; step++ {
		child := rng.Intn(len(all))
		parent := ""
		if rng.Intn(5) > 0 {
			parent = all[rng.Intn(len(all))].ID
		}
		if err := CheckParent(context.Background(), IndexLookup(all), all[child].ID, parent); err != nil {
			continue
		}
		all[child].ParentID = model.StringPtr(parent)
	}

	for _, c := range all {
		_, ok := Depth(all, c.ID)
		assert.True(t, ok, "cycle reachable from %s", c.ID)
	}
}
