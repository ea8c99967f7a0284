package services

import (
	"errors"
	"fmt"

	"github.com/daoforge/governance-api/internal/repository"
	"gorm.io/gorm"
)

// ErrNotAMember is returned when an operation requires organization
// membership the caller does not have.
var ErrNotAMember = errors.New("user is not a member of the organization")

// MembershipService answers the single access-control question every gated
// operation asks: is this user the organization's owner or a listed member.
type MembershipService struct {
	orgRepo repository.OrganizationRepository
}

// NewMembershipService creates a new MembershipService.
func NewMembershipService(orgRepo repository.OrganizationRepository) *MembershipService {
	return &MembershipService{orgRepo: orgRepo}
}

// IsMember reports whether the user is the owner or a member of the
// organization. A missing organization yields false, not an error; callers
// that need to distinguish absence do their own existence check.
func (s *MembershipService) IsMember(organizationID, userID uint64) (bool, error) {
	org, err := s.orgRepo.FindByID(organizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to find organization: %w", err)
	}

	if org.OwnerID == userID {
		return true, nil
	}

	if _, err := s.orgRepo.FindMember(organizationID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to find membership: %w", err)
	}

	return true, nil
}

// RequireMember returns ErrNotAMember unless the user is the owner or a
// member of the organization.
func (s *MembershipService) RequireMember(organizationID, userID uint64) error {
	ok, err := s.IsMember(organizationID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotAMember
	}
	return nil
}
