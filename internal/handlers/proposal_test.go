package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/daoforge/governance-api/internal/dto"
	apierrors "github.com/daoforge/governance-api/internal/errors"
	"github.com/daoforge/governance-api/internal/models"
	"github.com/daoforge/governance-api/internal/services"
)

func TestProposalHandler_CreateProposal(t *testing.T) {
	env := setupTestEnv(t)

	owner := createTestUser(t, env.db, "owner")
	org := createTestOrganization(t, env, owner.ID, "Guild")

	body := map[string]interface{}{
		"organization_id":  org.ID,
		"title":            "Fund the node",
		"details":          "Run infrastructure for a year",
		"amount_requested": 500,
	}
	c, w := testContext(t, http.MethodPost, "/api/proposals", body, owner.ID)

	env.proposalHandler.CreateProposal(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp dto.ProposalDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Fund the node", resp.Title)
	require.Equal(t, owner.ID, resp.OwnerID)
	require.False(t, resp.IsApproved)
	require.Empty(t, resp.Upvotes)
	require.Empty(t, resp.Downvotes)
	require.True(t, resp.Deadline.After(resp.CreatedAt))
}

func TestProposalHandler_CreateProposal_NotAMember(t *testing.T) {
	env := setupTestEnv(t)

	owner := createTestUser(t, env.db, "owner")
	outsider := createTestUser(t, env.db, "outsider")
	org := createTestOrganization(t, env, owner.ID, "Guild")

	body := map[string]interface{}{
		"organization_id": org.ID,
		"title":           "Sneaky",
	}
	c, w := testContext(t, http.MethodPost, "/api/proposals", body, outsider.ID)

	env.proposalHandler.CreateProposal(c)

	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, apierrors.ErrCodeNotAMember, responseErrorCode(t, w))
}

func TestProposalHandler_VotingLifecycle(t *testing.T) {
	env := setupTestEnv(t)

	alice := createTestUser(t, env.db, "alice")
	bob := createTestUser(t, env.db, "bob")

	org := createTestOrganization(t, env, alice.ID, "Guild")
	addTestMember(t, env, org.ID, alice.ID, bob.ID)
	proposal := createTestProposal(t, env, org.ID, bob.ID, "Fund research")

	// The owner cannot vote on their own proposal.
	c, w := testContext(t, http.MethodPost, "/api/proposals/1/upvote", nil, bob.ID, idParam(proposal.ID))
	env.proposalHandler.UpvoteProposal(c)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, apierrors.ErrCodeCantVoteYours, responseErrorCode(t, w))

	// Another member votes.
	c, w = testContext(t, http.MethodPost, "/api/proposals/1/upvote", nil, alice.ID, idParam(proposal.ID))
	env.proposalHandler.UpvoteProposal(c)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ProposalDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, []uint64{alice.ID}, resp.Upvotes)

	// Voting twice, in either direction, conflicts.
	c, w = testContext(t, http.MethodPost, "/api/proposals/1/downvote", nil, alice.ID, idParam(proposal.ID))
	env.proposalHandler.DownvoteProposal(c)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, apierrors.ErrCodeHasVoted, responseErrorCode(t, w))

	// Finalizing before the window closes conflicts.
	c, w = testContext(t, http.MethodPost, "/api/proposals/1/finalize", nil, bob.ID, idParam(proposal.ID))
	env.proposalHandler.EndProposalVote(c)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, apierrors.ErrCodeDeadlineNotExceeded, responseErrorCode(t, w))

	closeVoting(t, env.db, proposal.ID)

	// No votes land after the deadline.
	carol := createTestUser(t, env.db, "carol")
	addTestMember(t, env, org.ID, alice.ID, carol.ID)
	c, w = testContext(t, http.MethodPost, "/api/proposals/1/upvote", nil, carol.ID, idParam(proposal.ID))
	env.proposalHandler.UpvoteProposal(c)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, apierrors.ErrCodeDeadlineExceeded, responseErrorCode(t, w))

	// Only the owner finalizes.
	c, w = testContext(t, http.MethodPost, "/api/proposals/1/finalize", nil, alice.ID, idParam(proposal.ID))
	env.proposalHandler.EndProposalVote(c)
	require.Equal(t, http.StatusForbidden, w.Code)

	c, w = testContext(t, http.MethodPost, "/api/proposals/1/finalize", nil, bob.ID, idParam(proposal.ID))
	env.proposalHandler.EndProposalVote(c)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.False(t, resp.IsApproved)
}

func TestProposalHandler_EndProposalVote_Approved(t *testing.T) {
	env := setupTestEnv(t)

	owner := createTestUser(t, env.db, "owner")
	voterA := createTestUser(t, env.db, "voter-a")
	voterB := createTestUser(t, env.db, "voter-b")
	voterC := createTestUser(t, env.db, "voter-c")

	org := createTestOrganization(t, env, owner.ID, "Guild")
	addTestMember(t, env, org.ID, owner.ID, voterA.ID)
	addTestMember(t, env, org.ID, owner.ID, voterB.ID)
	addTestMember(t, env, org.ID, owner.ID, voterC.ID)
	proposal := createTestProposal(t, env, org.ID, owner.ID, "Contested")

	_, err := env.proposalService.Downvote(proposal.ID, voterA.ID)
	require.NoError(t, err)
	_, err = env.proposalService.Downvote(proposal.ID, voterB.ID)
	require.NoError(t, err)
	_, err = env.proposalService.Upvote(proposal.ID, voterC.ID)
	require.NoError(t, err)

	closeVoting(t, env.db, proposal.ID)

	c, w := testContext(t, http.MethodPost, "/api/proposals/1/finalize", nil, owner.ID, idParam(proposal.ID))
	env.proposalHandler.EndProposalVote(c)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ProposalDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.IsApproved)
	require.Len(t, resp.Downvotes, 2)
	require.Len(t, resp.Upvotes, 1)
}

func TestProposalHandler_UpdateProposal(t *testing.T) {
	env := setupTestEnv(t)

	owner := createTestUser(t, env.db, "owner")
	member := createTestUser(t, env.db, "member")

	org := createTestOrganization(t, env, owner.ID, "Guild")
	addTestMember(t, env, org.ID, owner.ID, member.ID)
	proposal := createTestProposal(t, env, org.ID, owner.ID, "Draft")

	// Non-owner edits are rejected.
	body := map[string]interface{}{"title": "Hijacked"}
	c, w := testContext(t, http.MethodPut, "/api/proposals/1", body, member.ID, idParam(proposal.ID))
	env.proposalHandler.UpdateProposal(c)
	require.Equal(t, http.StatusForbidden, w.Code)

	body = map[string]interface{}{"title": "Final", "details": "polished", "amount_requested": 250}
	c, w = testContext(t, http.MethodPut, "/api/proposals/1", body, owner.ID, idParam(proposal.ID))
	env.proposalHandler.UpdateProposal(c)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ProposalDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Final", resp.Title)
	require.Equal(t, uint64(250), resp.AmountRequested)
	require.NotNil(t, resp.UpdatedAt)

	// Edits stop once the window closes.
	closeVoting(t, env.db, proposal.ID)
	body = map[string]interface{}{"title": "Too late"}
	c, w = testContext(t, http.MethodPut, "/api/proposals/1", body, owner.ID, idParam(proposal.ID))
	env.proposalHandler.UpdateProposal(c)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, apierrors.ErrCodeDeadlineExceeded, responseErrorCode(t, w))
}

func TestProposalHandler_DeleteProposal(t *testing.T) {
	env := setupTestEnv(t)

	owner := createTestUser(t, env.db, "owner")
	member := createTestUser(t, env.db, "member")

	org := createTestOrganization(t, env, owner.ID, "Guild")
	addTestMember(t, env, org.ID, owner.ID, member.ID)
	proposal := createTestProposal(t, env, org.ID, owner.ID, "Ephemeral")

	_, err := env.proposalService.Upvote(proposal.ID, member.ID)
	require.NoError(t, err)
	comment, err := env.commentService.CreateComment(services.CreateCommentInput{
		ProposalID: proposal.ID,
		Content:    "will vanish",
		AuthorID:   member.ID,
	})
	require.NoError(t, err)
	_, err = env.commentService.LikeComment(comment.ID, org.ID, owner.ID)
	require.NoError(t, err)

	// Removal is blocked while voting is open.
	c, w := testContext(t, http.MethodDelete, "/api/proposals/1", nil, owner.ID, idParam(proposal.ID))
	env.proposalHandler.DeleteProposal(c)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, apierrors.ErrCodeDeadlineExceeded, responseErrorCode(t, w))

	closeVoting(t, env.db, proposal.ID)

	c, w = testContext(t, http.MethodDelete, "/api/proposals/1", nil, owner.ID, idParam(proposal.ID))
	env.proposalHandler.DeleteProposal(c)
	require.Equal(t, http.StatusOK, w.Code)

	var proposalCount, voteCount, commentCount, likeCount int64
	require.NoError(t, env.db.Model(&models.Proposal{}).Count(&proposalCount).Error)
	require.NoError(t, env.db.Model(&models.ProposalVote{}).Count(&voteCount).Error)
	require.NoError(t, env.db.Model(&models.Comment{}).Count(&commentCount).Error)
	require.NoError(t, env.db.Model(&models.CommentLike{}).Count(&likeCount).Error)
	require.Zero(t, proposalCount)
	require.Zero(t, voteCount)
	require.Zero(t, commentCount)
	require.Zero(t, likeCount)
}

func TestProposalHandler_ListProposals_EmptyStore(t *testing.T) {
	env := setupTestEnv(t)

	owner := createTestUser(t, env.db, "owner")
	org := createTestOrganization(t, env, owner.ID, "Guild")

	c, w := testContext(t, http.MethodGet, "/api/proposals?organization_id="+idParam(org.ID).Value, nil, owner.ID)

	env.proposalHandler.ListProposals(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestProposalHandler_ListProposals_EmptyOrganization(t *testing.T) {
	env := setupTestEnv(t)

	owner := createTestUser(t, env.db, "owner")
	org := createTestOrganization(t, env, owner.ID, "Quiet")
	otherOrg := createTestOrganization(t, env, owner.ID, "Busy")
	createTestProposal(t, env, otherOrg.ID, owner.ID, "Elsewhere")

	c, w := testContext(t, http.MethodGet, "/api/proposals?organization_id="+idParam(org.ID).Value, nil, owner.ID)

	env.proposalHandler.ListProposals(c)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string][]dto.ProposalDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Empty(t, resp["proposals"])
}

func TestProposalHandler_ListApprovedProposals(t *testing.T) {
	env := setupTestEnv(t)

	owner := createTestUser(t, env.db, "owner")
	org := createTestOrganization(t, env, owner.ID, "Guild")

	approved := createTestProposal(t, env, org.ID, owner.ID, "Approved and open")
	require.NoError(t, env.db.Model(&models.Proposal{}).
		Where("id = ?", approved.ID).
		Update("is_approved", true).Error)

	expired := createTestProposal(t, env, org.ID, owner.ID, "Approved but past")
	require.NoError(t, env.db.Model(&models.Proposal{}).
		Where("id = ?", expired.ID).
		Update("is_approved", true).Error)
	closeVoting(t, env.db, expired.ID)

	createTestProposal(t, env, org.ID, owner.ID, "Not approved")

	c, w := testContext(t, http.MethodGet, "/api/proposals/approved?organization_id="+idParam(org.ID).Value, nil, owner.ID)

	env.proposalHandler.ListApprovedProposals(c)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string][]dto.ProposalDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	proposals := resp["proposals"]
	require.Len(t, proposals, 1)
	require.Equal(t, "Approved and open", proposals[0].Title)
}

func TestProposalHandler_GetProposal_NotAMember(t *testing.T) {
	env := setupTestEnv(t)

	owner := createTestUser(t, env.db, "owner")
	outsider := createTestUser(t, env.db, "outsider")

	org := createTestOrganization(t, env, owner.ID, "Guild")
	proposal := createTestProposal(t, env, org.ID, owner.ID, "Private")

	c, w := testContext(t, http.MethodGet, "/api/proposals/1", nil, outsider.ID, idParam(proposal.ID))

	env.proposalHandler.GetProposal(c)

	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, apierrors.ErrCodeNotAMember, responseErrorCode(t, w))
}

func TestProposalHandler_DraftProposals_NotConfigured(t *testing.T) {
	env := setupTestEnv(t)

	user := createTestUser(t, env.db, "user")

	body := map[string]string{"text": "we should fund a hackathon"}
	c, w := testContext(t, http.MethodPost, "/api/proposals/draft", body, user.ID)

	env.proposalHandler.DraftProposals(c)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}
