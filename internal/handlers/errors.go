package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	apierrors "github.com/daoforge/governance-api/internal/errors"
	"github.com/daoforge/governance-api/internal/services"
)

// respondServiceError translates service sentinel errors into the API error
// envelope. Anything unrecognized is a 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrOrganizationNotFound),
		errors.Is(err, services.ErrProposalNotFound),
		errors.Is(err, services.ErrCommentNotFound),
		errors.Is(err, services.ErrNoOrganizations),
		errors.Is(err, services.ErrNoProposals),
		errors.Is(err, services.ErrNoComments),
		errors.Is(err, services.ErrOrganizationMemberNotFound),
		errors.Is(err, services.ErrUserNotFoundForMembership),
		errors.Is(err, services.ErrInvalidInviteCode):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotAMember):
		apierrors.NotAMember(c, err.Error())
	case errors.Is(err, services.ErrNotOrganizationOwner),
		errors.Is(err, services.ErrNotProposalOwner),
		errors.Is(err, services.ErrNotCommentAuthor),
		errors.Is(err, services.ErrCannotRemoveYourself):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrHasVoted):
		apierrors.Conflict(c, apierrors.ErrCodeHasVoted, err.Error())
	case errors.Is(err, services.ErrCantVoteYours):
		apierrors.Conflict(c, apierrors.ErrCodeCantVoteYours, err.Error())
	case errors.Is(err, services.ErrCantLikeYours):
		apierrors.Conflict(c, apierrors.ErrCodeCantLikeYours, err.Error())
	case errors.Is(err, services.ErrDeadlineExceeded):
		apierrors.Conflict(c, apierrors.ErrCodeDeadlineExceeded, err.Error())
	case errors.Is(err, services.ErrDeadlineNotExceeded):
		apierrors.Conflict(c, apierrors.ErrCodeDeadlineNotExceeded, err.Error())
	case errors.Is(err, services.ErrAlreadyOrganizationMember):
		apierrors.Conflict(c, apierrors.ErrCodeAlreadyExists, err.Error())
	case errors.Is(err, services.ErrInvalidOrganizationName),
		errors.Is(err, services.ErrProposalTitleEmpty),
		errors.Is(err, services.ErrCommentContentEmpty):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
