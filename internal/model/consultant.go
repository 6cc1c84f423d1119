package model

import "time"

// Role determines what a consultant may see and manage in the network.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleLeader     Role = "leader"
	RoleConsultant Role = "consultant"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleLeader, RoleConsultant:
		return true
	}
	return false
}

// Status represents whether a consultant may authenticate.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Consultant is one person in the recruitment network. The ID doubles as the login credential.
//
// JSON names follow the exported roster format so an export can be re-imported by the seed command.
type Consultant struct {
	Seq       uint      `json:"-" gorm:"uniqueIndex;not null"`
	ID        string    `json:"id" gorm:"type:varchar(16);primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	Role      Role      `json:"role" gorm:"type:varchar(20);not null;default:'consultant';index"`
	WhatsApp  string    `json:"whatsapp" gorm:"size:32;not null"`
	Email     string    `json:"email" gorm:"size:255;not null"`
	City      string    `json:"city" gorm:"size:128;not null"`
	State     string    `json:"state" gorm:"size:64;not null"`
	Status    Status    `json:"status" gorm:"type:varchar(20);not null;default:'active';index"`
	PhotoURL  string    `json:"photoUrl,omitempty" gorm:"size:512"`
	TeamName  string    `json:"teamName,omitempty" gorm:"size:255"`
	ParentID  *string   `json:"parentId,omitempty" gorm:"type:varchar(16);index"`
	Version   uint      `json:"version" gorm:"not null;default:1"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null;index"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsActive reports whether the consultant may log in.
func (c *Consultant) IsActive() bool {
	return c.Status == StatusActive
}

// HasParent reports whether c was recruited by someone.
func (c *Consultant) HasParent() bool {
	return c.ParentID != nil && *c.ParentID != ""
}

// IsChildOf reports whether c's recruiter is parentID.
func (c *Consultant) IsChildOf(parentID string) bool {
	return c.HasParent() && *c.ParentID == parentID
}

// ParentIDValue returns the recruiter id or "" for roots.
func (c *Consultant) ParentIDValue() string {
	if c.ParentID == nil {
		return ""
	}
	return *c.ParentID
}

// StringPtr returns nil for an empty id, a pointer otherwise.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ConsultantFields carries the profile data supplied when creating a consultant.
type ConsultantFields struct {
	Name     string `json:"name" validate:"required"`
	WhatsApp string `json:"whatsapp" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	City     string `json:"city" validate:"required"`
	State    string `json:"state" validate:"required"`
	Role     Role   `json:"role" validate:"omitempty,oneof=admin leader consultant"`
	PhotoURL string `json:"photoUrl,omitempty" validate:"omitempty,url"`
	TeamName string `json:"teamName,omitempty"`
	ParentID string `json:"parentId,omitempty"`
}

// ConsultantPatch is a partial update. Nil fields are left untouched; an empty ParentID detaches
// the record from its recruiter.
type ConsultantPatch struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1"`
	WhatsApp *string `json:"whatsapp,omitempty" validate:"omitempty,min=1"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	City     *string `json:"city,omitempty" validate:"omitempty,min=1"`
	State    *string `json:"state,omitempty" validate:"omitempty,min=1"`
	Role     *Role   `json:"role,omitempty" validate:"omitempty,oneof=admin leader consultant"`
	Status   *Status `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
	PhotoURL *string `json:"photoUrl,omitempty"`
	TeamName *string `json:"teamName,omitempty"`
	ParentID *string `json:"parentId,omitempty"`
}

// TouchesProfileOnly reports whether the patch sets none of role, status or recruiter.
func (p ConsultantPatch) TouchesProfileOnly() bool {
	return p.Role == nil && p.Status == nil && p.ParentID == nil
}

// Apply merges the patch onto c. ID, CreatedAt and Version are never touched.
func (p ConsultantPatch) Apply(c *Consultant) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.WhatsApp != nil {
		c.WhatsApp = *p.WhatsApp
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.City != nil {
		c.City = *p.City
	}
	if p.State != nil {
		c.State = *p.State
	}
	if p.Role != nil {
		c.Role = *p.Role
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.PhotoURL != nil {
		c.PhotoURL = *p.PhotoURL
	}
	if p.TeamName != nil {
		c.TeamName = *p.TeamName
	}
	if p.ParentID != nil {
		c.ParentID = StringPtr(*p.ParentID)
	}
}

// Stats summarises the roster.
type Stats struct {
	TotalConsultants  int `json:"totalConsultants"`
	ActiveConsultants int `json:"activeConsultants"`
	TotalTeams        int `json:"totalTeams"`
	NewThisPeriod     int `json:"newThisPeriod"`
}
