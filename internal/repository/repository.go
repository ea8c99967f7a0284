package repository

import (
	"time"

	"github.com/daoforge/governance-api/internal/models"
	"github.com/daoforge/governance-api/internal/utils"
)

// SequenceRepository hands out ids from the shared monotonic counter.
// Organizations, proposals and comments all draw from the same sequence,
// so an id identifies exactly one entity across all three stores.
type SequenceRepository interface {
	// NextID increments the shared counter and returns the new value
	NextID() (uint64, error)
}

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	// Create creates a new organization
	Create(org *models.Organization) error

	// FindByID finds an organization by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Organization, error)

	// FindByInviteCode finds an organization by invite code
	FindByInviteCode(code string) (*models.Organization, error)

	// Update updates an organization
	Update(org *models.Organization) error

	// Delete deletes an organization, its memberships, and its proposals
	// together with their votes. Comments on those proposals are left in
	// place; only direct proposal deletion removes comments.
	Delete(id uint64) error

	// Count returns the total number of organizations in storage
	Count() (int64, error)

	// AddMember adds a member to an organization
	AddMember(member *models.OrganizationMember) error

	// RemoveMember removes a member from an organization
	RemoveMember(organizationID, userID uint64) error

	// FindMember finds a specific organization member
	FindMember(organizationID, userID uint64) (*models.OrganizationMember, error)

	// ListMembersByUserID lists all organizations a user is a member of
	ListMembersByUserID(userID uint64) ([]models.OrganizationMember, error)

	// ListMembers lists all members of an organization
	ListMembers(organizationID uint64) ([]models.OrganizationMember, error)
}

// ProposalRepository defines the interface for proposal data access
type ProposalRepository interface {
	// Create creates a new proposal
	Create(proposal *models.Proposal) error

	// FindByID finds a proposal by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Proposal, error)

	// ListByOrganization lists all proposals of an organization
	ListByOrganization(organizationID uint64) ([]models.Proposal, error)

	// ListApprovedOpen lists the organization's approved proposals whose
	// deadline is still ahead of the given instant
	ListApprovedOpen(organizationID uint64, now time.Time) ([]models.Proposal, error)

	// Update updates a proposal
	Update(proposal *models.Proposal) error

	// Delete deletes a proposal, its votes, and its comments with their likes
	Delete(id uint64) error

	// Count returns the total number of proposals in storage
	Count() (int64, error)

	// AddVote records a member's vote
	AddVote(vote *models.ProposalVote) error
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// Create creates a new comment
	Create(comment *models.Comment) error

	// FindByID finds a comment by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Comment, error)

	// ListByProposal lists a page of the comments attached to a proposal
	ListByProposal(proposalID uint64, params utils.PaginationParams) ([]models.Comment, error)

	// Update updates a comment
	Update(comment *models.Comment) error

	// Delete deletes a comment and its likes
	Delete(id uint64) error

	// Count returns the total number of comments in storage
	Count() (int64, error)

	// CountByProposal returns the number of comments on one proposal
	CountByProposal(proposalID uint64) (int64, error)

	// AddLike records a like
	AddLike(like *models.CommentLike) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)
}
