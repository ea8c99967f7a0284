package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/daoforge/governance-api/internal/constants"
	"github.com/daoforge/governance-api/internal/dto"
	apierrors "github.com/daoforge/governance-api/internal/errors"
	"github.com/daoforge/governance-api/internal/middleware"
	"github.com/daoforge/governance-api/internal/models"
	"github.com/daoforge/governance-api/internal/services"
)

// ProposalHandler coordinates proposal HTTP handlers.
type ProposalHandler struct {
	proposalService *services.ProposalService
	aiService       *services.AIService
}

// NewProposalHandler creates a new ProposalHandler. aiService may be nil
// when drafting is not configured.
func NewProposalHandler(proposalService *services.ProposalService, aiService *services.AIService) *ProposalHandler {
	return &ProposalHandler{
		proposalService: proposalService,
		aiService:       aiService,
	}
}

// CreateProposal opens a new proposal in an organization the caller belongs to.
func (h *ProposalHandler) CreateProposal(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateProposalRequest struct {
		OrganizationID  uint64 `json:"organization_id" binding:"required"`
		Title           string `json:"title" binding:"required"`
		Details         string `json:"details"`
		AmountRequested uint64 `json:"amount_requested"`
	}

	var req CreateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	proposal, err := h.proposalService.CreateProposal(services.CreateProposalInput{
		OrganizationID:  req.OrganizationID,
		Title:           req.Title,
		Details:         req.Details,
		AmountRequested: req.AmountRequested,
		OwnerID:         userID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProposalDTO(*proposal))
}

// GetProposal returns one proposal to a member of its organization.
func (h *ProposalHandler) GetProposal(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	proposalID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	proposal, err := h.proposalService.GetProposal(proposalID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProposalDTO(*proposal))
}

// ListProposals returns an organization's proposals.
func (h *ProposalHandler) ListProposals(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	orgID, ok := parseIDQuery(c, "organization_id")
	if !ok {
		return
	}

	proposals, err := h.proposalService.ListProposals(orgID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"proposals": dto.ToProposalDTOs(proposals),
	})
}

// ListApprovedProposals returns the organization's approved proposals whose
// deadline is still ahead.
func (h *ProposalHandler) ListApprovedProposals(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	orgID, ok := parseIDQuery(c, "organization_id")
	if !ok {
		return
	}

	proposals, err := h.proposalService.ListFinalizedApproved(orgID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"proposals": dto.ToProposalDTOs(proposals),
	})
}

// UpdateProposal edits an open proposal. Owner only.
func (h *ProposalHandler) UpdateProposal(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	proposalID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateProposalRequest struct {
		Title           string `json:"title" binding:"required"`
		Details         string `json:"details"`
		AmountRequested uint64 `json:"amount_requested"`
	}

	var req UpdateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	proposal, err := h.proposalService.UpdateProposal(proposalID, userID, services.UpdateProposalInput{
		Title:           req.Title,
		Details:         req.Details,
		AmountRequested: req.AmountRequested,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProposalDTO(*proposal))
}

// UpvoteProposal records an upvote by the caller.
func (h *ProposalHandler) UpvoteProposal(c *gin.Context) {
	h.voteProposal(c, h.proposalService.Upvote)
}

// DownvoteProposal records a downvote by the caller.
func (h *ProposalHandler) DownvoteProposal(c *gin.Context) {
	h.voteProposal(c, h.proposalService.Downvote)
}

func (h *ProposalHandler) voteProposal(c *gin.Context, vote func(proposalID, userID uint64) (*models.Proposal, error)) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	proposalID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	proposal, err := vote(proposalID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProposalDTO(*proposal))
}

// EndProposalVote finalizes a closed proposal. Owner only.
func (h *ProposalHandler) EndProposalVote(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	proposalID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	proposal, err := h.proposalService.EndVote(proposalID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProposalDTO(*proposal))
}

// DeleteProposal removes a closed proposal and its comments. Owner only.
func (h *ProposalHandler) DeleteProposal(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	proposalID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	proposal, err := h.proposalService.DeleteProposal(proposalID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProposalDTO(*proposal))
}

// DraftProposals turns free-form text into proposal drafts via the AI
// service.
func (h *ProposalHandler) DraftProposals(c *gin.Context) {
	if _, exists := middleware.GetUserID(c); !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	if h.aiService == nil {
		apierrors.ServiceUnavailable(c, "AI drafting is not configured")
		return
	}

	type DraftRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	drafts, err := h.aiService.DraftProposalsFromText(c.Request.Context(), req.Text)
	if err != nil {
		apierrors.ServiceUnavailable(c, "Failed to draft proposals")
		return
	}

	if len(drafts) > constants.MaxAIDraftedProposals {
		drafts = drafts[:constants.MaxAIDraftedProposals]
	}

	c.JSON(http.StatusOK, gin.H{
		"drafts": drafts,
	})
}

// parseIDQuery parses a numeric query parameter, responding with 400 on
// failure.
func parseIDQuery(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Query(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name+" parameter")
		return 0, false
	}
	return id, true
}
