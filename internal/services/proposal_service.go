package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/daoforge/governance-api/internal/constants"
	"github.com/daoforge/governance-api/internal/models"
	"github.com/daoforge/governance-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProposalNotFound    = errors.New("proposal not found")
	ErrNoProposals         = errors.New("no proposals found")
	ErrProposalTitleEmpty  = errors.New("proposal title cannot be empty")
	ErrNotProposalOwner    = errors.New("only the proposal owner can perform this action")
	ErrHasVoted            = errors.New("user has already voted on this proposal")
	ErrCantVoteYours       = errors.New("cannot vote on your own proposal")
	ErrDeadlineExceeded    = errors.New("the voting deadline has passed")
	ErrDeadlineNotExceeded = errors.New("the voting period is not over yet")
)

// ProposalService drives the proposal state machine: a proposal is open for
// voting until its deadline, closed afterwards, and finalized once the owner
// ends the vote.
type ProposalService struct {
	proposalRepo repository.ProposalRepository
	orgRepo      repository.OrganizationRepository
	seqRepo      repository.SequenceRepository
	membership   *MembershipService
}

// NewProposalService creates a new ProposalService.
func NewProposalService(
	proposalRepo repository.ProposalRepository,
	orgRepo repository.OrganizationRepository,
	seqRepo repository.SequenceRepository,
	membership *MembershipService,
) *ProposalService {
	return &ProposalService{
		proposalRepo: proposalRepo,
		orgRepo:      orgRepo,
		seqRepo:      seqRepo,
		membership:   membership,
	}
}

// CreateProposalInput represents input for creating a proposal.
type CreateProposalInput struct {
	OrganizationID  uint64
	Title           string
	Details         string
	AmountRequested uint64
	OwnerID         uint64
}

// UpdateProposalInput carries the mutable proposal fields.
type UpdateProposalInput struct {
	Title           string
	Details         string
	AmountRequested uint64
}

// deadlinePassed is the single closed-window test; a deadline equal to now
// still counts as open.
func deadlinePassed(deadline, now time.Time) bool {
	return now.After(deadline)
}

// CreateProposal opens a new proposal for voting. The caller must be a
// member of the organization; the deadline is one voting window from now and
// the organization's updated_at is stamped.
func (s *ProposalService) CreateProposal(input CreateProposalInput) (*models.Proposal, error) {
	if input.Title == "" {
		return nil, ErrProposalTitleEmpty
	}

	if err := s.membership.RequireMember(input.OrganizationID, input.OwnerID); err != nil {
		return nil, err
	}

	id, err := s.seqRepo.NextID()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate proposal id: %w", err)
	}

	now := time.Now()
	proposal := &models.Proposal{
		ID:              id,
		OrganizationID:  input.OrganizationID,
		Title:           input.Title,
		Details:         input.Details,
		AmountRequested: input.AmountRequested,
		OwnerID:         input.OwnerID,
		Deadline:        now.Add(constants.VotingWindow),
	}

	if err := s.proposalRepo.Create(proposal); err != nil {
		return nil, fmt.Errorf("failed to create proposal: %w", err)
	}

	// Best-effort stamp; proposal creation already succeeded.
	if org, err := s.orgRepo.FindByID(input.OrganizationID); err == nil {
		org.UpdatedAt = &now
		if err := s.orgRepo.Update(org); err != nil {
			return nil, fmt.Errorf("failed to stamp organization: %w", err)
		}
	}

	return proposal, nil
}

// GetProposal returns a proposal to a member of its organization. Missing
// proposal, missing organization and lack of membership are distinct errors.
func (s *ProposalService) GetProposal(proposalID, userID uint64) (*models.Proposal, error) {
	proposal, err := s.proposalRepo.FindByID(proposalID, "Votes", "Comments")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("failed to find proposal: %w", err)
	}

	if _, err := s.orgRepo.FindByID(proposal.OrganizationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}

	if err := s.membership.RequireMember(proposal.OrganizationID, userID); err != nil {
		return nil, err
	}

	return proposal, nil
}

// ListProposals returns all of an organization's proposals to a member.
// An entirely empty proposal store is an error, regardless of which
// organization it is checked against.
func (s *ProposalService) ListProposals(orgID, userID uint64) ([]models.Proposal, error) {
	if err := s.membership.RequireMember(orgID, userID); err != nil {
		return nil, err
	}

	total, err := s.proposalRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count proposals: %w", err)
	}
	if total == 0 {
		return nil, ErrNoProposals
	}

	proposals, err := s.proposalRepo.ListByOrganization(orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	return proposals, nil
}

// ListFinalizedApproved returns the organization's approved proposals whose
// deadline has not yet passed.
func (s *ProposalService) ListFinalizedApproved(orgID, userID uint64) ([]models.Proposal, error) {
	if err := s.membership.RequireMember(orgID, userID); err != nil {
		return nil, err
	}

	total, err := s.proposalRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count proposals: %w", err)
	}
	if total == 0 {
		return nil, ErrNoProposals
	}

	proposals, err := s.proposalRepo.ListApprovedOpen(orgID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to list approved proposals: %w", err)
	}
	return proposals, nil
}

// UpdateProposal replaces the mutable fields. Only the owner may edit, and
// only while the voting window is open.
func (s *ProposalService) UpdateProposal(proposalID, userID uint64, input UpdateProposalInput) (*models.Proposal, error) {
	if input.Title == "" {
		return nil, ErrProposalTitleEmpty
	}

	proposal, err := s.proposalRepo.FindByID(proposalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("failed to find proposal: %w", err)
	}

	if proposal.OwnerID != userID {
		return nil, ErrNotProposalOwner
	}

	now := time.Now()
	if deadlinePassed(proposal.Deadline, now) {
		return nil, ErrDeadlineExceeded
	}

	proposal.Title = input.Title
	proposal.Details = input.Details
	proposal.AmountRequested = input.AmountRequested
	proposal.UpdatedAt = &now

	if err := s.proposalRepo.Update(proposal); err != nil {
		return nil, fmt.Errorf("failed to update proposal: %w", err)
	}

	return proposal, nil
}

// Upvote records an upvote for the caller.
func (s *ProposalService) Upvote(proposalID, userID uint64) (*models.Proposal, error) {
	return s.vote(proposalID, userID, models.VoteUp)
}

// Downvote records a downvote for the caller.
func (s *ProposalService) Downvote(proposalID, userID uint64) (*models.Proposal, error) {
	return s.vote(proposalID, userID, models.VoteDown)
}

// vote applies the shared voting rules in their fixed order: membership,
// not the proposal's owner, not already voted either way, window still open.
func (s *ProposalService) vote(proposalID, userID uint64, direction models.VoteDirection) (*models.Proposal, error) {
	proposal, err := s.proposalRepo.FindByID(proposalID, "Votes")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("failed to find proposal: %w", err)
	}

	if err := s.membership.RequireMember(proposal.OrganizationID, userID); err != nil {
		return nil, err
	}

	if proposal.OwnerID == userID {
		return nil, ErrCantVoteYours
	}

	if proposal.VoteOf(userID) != nil {
		return nil, ErrHasVoted
	}

	if deadlinePassed(proposal.Deadline, time.Now()) {
		return nil, ErrDeadlineExceeded
	}

	vote := &models.ProposalVote{
		ProposalID: proposalID,
		UserID:     userID,
		Direction:  direction,
	}
	if err := s.proposalRepo.AddVote(vote); err != nil {
		return nil, fmt.Errorf("failed to record vote: %w", err)
	}

	return s.proposalRepo.FindByID(proposalID, "Votes")
}

// EndVote finalizes the proposal once the voting window has closed. Owner
// only. Re-running recomputes the outcome from the current vote sets.
func (s *ProposalService) EndVote(proposalID, userID uint64) (*models.Proposal, error) {
	proposal, err := s.proposalRepo.FindByID(proposalID, "Votes")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("failed to find proposal: %w", err)
	}

	if proposal.OwnerID != userID {
		return nil, ErrNotProposalOwner
	}

	if !deadlinePassed(proposal.Deadline, time.Now()) {
		return nil, ErrDeadlineNotExceeded
	}

	// Approval rule kept as shipped: more downvotes than upvotes approves.
	proposal.IsApproved = len(proposal.Downvoters()) > len(proposal.Upvoters())

	if err := s.proposalRepo.Update(proposal); err != nil {
		return nil, fmt.Errorf("failed to finalize proposal: %w", err)
	}

	return proposal, nil
}

// DeleteProposal removes a proposal and everything attached to it. Owner
// only, and only after the voting window has closed; deletion while the
// window is open is rejected, the mirror image of the edit rule.
func (s *ProposalService) DeleteProposal(proposalID, userID uint64) (*models.Proposal, error) {
	proposal, err := s.proposalRepo.FindByID(proposalID, "Votes")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("failed to find proposal: %w", err)
	}

	if proposal.OwnerID != userID {
		return nil, ErrNotProposalOwner
	}

	if !deadlinePassed(proposal.Deadline, time.Now()) {
		return nil, ErrDeadlineExceeded
	}

	if err := s.proposalRepo.Delete(proposalID); err != nil {
		return nil, fmt.Errorf("failed to delete proposal: %w", err)
	}

	return proposal, nil
}
