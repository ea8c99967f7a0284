package dto

import (
	"time"

	"github.com/daoforge/governance-api/internal/models"
)

// ProposalDTO represents a proposal in API responses. Voter ids are split
// into the two directions the way clients consume them.
type ProposalDTO struct {
	ID              uint64     `json:"id"`
	OrganizationID  uint64     `json:"organization_id"`
	Title           string     `json:"title"`
	Details         string     `json:"details"`
	AmountRequested uint64     `json:"amount_requested"`
	OwnerID         uint64     `json:"owner_id"`
	Upvotes         []uint64   `json:"upvotes"`
	Downvotes       []uint64   `json:"downvotes"`
	IsApproved      bool       `json:"is_approved"`
	Deadline        time.Time  `json:"deadline"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

// ToProposalDTO converts a proposal model to DTO. Votes must be loaded.
func ToProposalDTO(proposal models.Proposal) ProposalDTO {
	return ProposalDTO{
		ID:              proposal.ID,
		OrganizationID:  proposal.OrganizationID,
		Title:           proposal.Title,
		Details:         proposal.Details,
		AmountRequested: proposal.AmountRequested,
		OwnerID:         proposal.OwnerID,
		Upvotes:         proposal.Upvoters(),
		Downvotes:       proposal.Downvoters(),
		IsApproved:      proposal.IsApproved,
		Deadline:        proposal.Deadline,
		CreatedAt:       proposal.CreatedAt,
		UpdatedAt:       proposal.UpdatedAt,
	}
}

// ToProposalDTOs converts a slice of proposals
func ToProposalDTOs(proposals []models.Proposal) []ProposalDTO {
	dtos := make([]ProposalDTO, len(proposals))
	for i, p := range proposals {
		dtos[i] = ToProposalDTO(p)
	}
	return dtos
}
