package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/daoforge/governance-api/internal/models"
	"github.com/daoforge/governance-api/internal/repository"
	"github.com/daoforge/governance-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound     = errors.New("comment not found")
	ErrNoComments          = errors.New("no comments found, why don't you try creating one")
	ErrCommentContentEmpty = errors.New("comment content cannot be empty")
	ErrNotCommentAuthor    = errors.New("only the comment author can perform this action")
	ErrCantLikeYours       = errors.New("cannot like your own comment")
)

// CommentService handles threaded discussion on proposals.
type CommentService struct {
	commentRepo  repository.CommentRepository
	proposalRepo repository.ProposalRepository
	seqRepo      repository.SequenceRepository
	membership   *MembershipService
}

// NewCommentService creates a new CommentService.
func NewCommentService(
	commentRepo repository.CommentRepository,
	proposalRepo repository.ProposalRepository,
	seqRepo repository.SequenceRepository,
	membership *MembershipService,
) *CommentService {
	return &CommentService{
		commentRepo:  commentRepo,
		proposalRepo: proposalRepo,
		seqRepo:      seqRepo,
		membership:   membership,
	}
}

// CreateCommentInput represents input for creating a comment.
type CreateCommentInput struct {
	ProposalID uint64
	Content    string
	AuthorID   uint64
}

// CreateComment attaches a comment to an existing proposal. The author must
// be a member of the proposal's organization; the proposal's updated_at is
// stamped.
func (s *CommentService) CreateComment(input CreateCommentInput) (*models.Comment, error) {
	if input.Content == "" {
		return nil, ErrCommentContentEmpty
	}

	proposal, err := s.proposalRepo.FindByID(input.ProposalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("failed to find proposal: %w", err)
	}

	if err := s.membership.RequireMember(proposal.OrganizationID, input.AuthorID); err != nil {
		return nil, err
	}

	id, err := s.seqRepo.NextID()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate comment id: %w", err)
	}

	comment := &models.Comment{
		ID:         id,
		ProposalID: input.ProposalID,
		Content:    input.Content,
		AuthorID:   input.AuthorID,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	now := time.Now()
	proposal.UpdatedAt = &now
	if err := s.proposalRepo.Update(proposal); err != nil {
		return nil, fmt.Errorf("failed to stamp proposal: %w", err)
	}

	return comment, nil
}

// ListComments returns a page of a proposal's comments together with the
// proposal's total comment count. Membership is checked against the
// caller-supplied organization id, not one derived from the proposal.
// An entirely empty comment store is an error.
func (s *CommentService) ListComments(proposalID, orgID, userID uint64, params utils.PaginationParams) ([]models.Comment, int64, error) {
	if err := s.membership.RequireMember(orgID, userID); err != nil {
		return nil, 0, err
	}

	total, err := s.commentRepo.Count()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count comments: %w", err)
	}
	if total == 0 {
		return nil, 0, ErrNoComments
	}

	proposalTotal, err := s.commentRepo.CountByProposal(proposalID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count comments: %w", err)
	}

	comments, err := s.commentRepo.ListByProposal(proposalID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, proposalTotal, nil
}

// UpdateComment replaces the comment's content. Author only.
func (s *CommentService) UpdateComment(commentID, userID uint64, content string) (*models.Comment, error) {
	if content == "" {
		return nil, ErrCommentContentEmpty
	}

	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}

	if comment.AuthorID != userID {
		return nil, ErrNotCommentAuthor
	}

	now := time.Now()
	comment.Content = content
	comment.UpdatedAt = &now

	if err := s.commentRepo.Update(comment); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	return comment, nil
}

// LikeComment records a like. Membership is checked against the
// caller-supplied organization id; authors cannot like their own comments
// and nobody likes twice.
func (s *CommentService) LikeComment(commentID, orgID, userID uint64) (*models.Comment, error) {
	comment, err := s.commentRepo.FindByID(commentID, "Likes")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}

	if err := s.membership.RequireMember(orgID, userID); err != nil {
		return nil, err
	}

	if comment.AuthorID == userID {
		return nil, ErrCantLikeYours
	}

	if comment.LikedBy(userID) {
		return nil, ErrHasVoted
	}

	like := &models.CommentLike{
		CommentID: commentID,
		UserID:    userID,
	}
	if err := s.commentRepo.AddLike(like); err != nil {
		return nil, fmt.Errorf("failed to record like: %w", err)
	}

	return s.commentRepo.FindByID(commentID, "Likes")
}

// DeleteComment removes a comment and its likes. Author only. The parent
// proposal's comment list is derived from storage, so removal needs no
// fix-up even when the proposal is already gone.
func (s *CommentService) DeleteComment(commentID, userID uint64) (*models.Comment, error) {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}

	if comment.AuthorID != userID {
		return nil, ErrNotCommentAuthor
	}

	if err := s.commentRepo.Delete(commentID); err != nil {
		return nil, fmt.Errorf("failed to delete comment: %w", err)
	}

	return comment, nil
}
