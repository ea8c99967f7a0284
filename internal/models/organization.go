package models

import "time"

type OrganizationRole string

const (
	RoleOwner  OrganizationRole = "owner"
	RoleMember OrganizationRole = "member"
)

// Organization ids come from the shared id sequence, never from the
// database's auto increment.
type Organization struct {
	ID          uint64     `gorm:"primarykey;autoIncrement:false" json:"id"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Avatar      string     `gorm:"type:varchar(512)" json:"avatar"`
	OwnerID     uint64     `gorm:"not null;index" json:"owner_id"`
	InviteCode  string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"invite_code"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `gorm:"autoUpdateTime:false" json:"updated_at,omitempty"`

	// Relations
	Owner     User                 `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Members   []OrganizationMember `gorm:"foreignKey:OrganizationID" json:"members,omitempty"`
	Proposals []Proposal           `gorm:"foreignKey:OrganizationID" json:"proposals,omitempty"`
}

type OrganizationMember struct {
	OrganizationID uint64           `gorm:"primarykey;autoIncrement:false" json:"organization_id"`
	UserID         uint64           `gorm:"primarykey;autoIncrement:false" json:"user_id"`
	Role           OrganizationRole `gorm:"type:varchar(20);not null" json:"role"`
	JoinedAt       time.Time        `json:"joined_at"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	User         User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
