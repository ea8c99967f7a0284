package models

import "time"

type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// Proposal is a spending request with a fixed voting window. IsApproved is
// only meaningful once the vote has been ended by the owner.
type Proposal struct {
	ID              uint64     `gorm:"primarykey;autoIncrement:false" json:"id"`
	OrganizationID  uint64     `gorm:"not null;index" json:"organization_id"`
	Title           string     `gorm:"type:varchar(255);not null" json:"title"`
	Details         string     `gorm:"type:text" json:"details"`
	AmountRequested uint64     `gorm:"not null" json:"amount_requested"`
	OwnerID         uint64     `gorm:"not null;index" json:"owner_id"`
	IsApproved      bool       `gorm:"not null;default:false" json:"is_approved"`
	Deadline        time.Time  `gorm:"not null" json:"deadline"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `gorm:"autoUpdateTime:false" json:"updated_at,omitempty"`

	// Relations
	Organization Organization   `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Owner        User           `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Votes        []ProposalVote `gorm:"foreignKey:ProposalID" json:"votes,omitempty"`
	Comments     []Comment      `gorm:"foreignKey:ProposalID" json:"comments,omitempty"`
}

// ProposalVote is one member's vote. The composite key keeps a user to a
// single vote per proposal.
type ProposalVote struct {
	ProposalID uint64        `gorm:"primarykey;autoIncrement:false" json:"proposal_id"`
	UserID     uint64        `gorm:"primarykey;autoIncrement:false" json:"user_id"`
	Direction  VoteDirection `gorm:"type:varchar(10);not null" json:"direction"`
	CreatedAt  time.Time     `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// Upvoters returns the ids of users who upvoted. Votes must be loaded.
func (p *Proposal) Upvoters() []uint64 {
	return p.votersByDirection(VoteUp)
}

// Downvoters returns the ids of users who downvoted. Votes must be loaded.
func (p *Proposal) Downvoters() []uint64 {
	return p.votersByDirection(VoteDown)
}

func (p *Proposal) votersByDirection(direction VoteDirection) []uint64 {
	voters := make([]uint64, 0, len(p.Votes))
	for _, vote := range p.Votes {
		if vote.Direction == direction {
			voters = append(voters, vote.UserID)
		}
	}
	return voters
}

// VoteOf returns the user's vote, if any. Votes must be loaded.
func (p *Proposal) VoteOf(userID uint64) *ProposalVote {
	for i := range p.Votes {
		if p.Votes[i].UserID == userID {
			return &p.Votes[i]
		}
	}
	return nil
}
