package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/daoforge/governance-api/internal/models"
	"github.com/daoforge/governance-api/internal/repository"
	"github.com/daoforge/governance-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrOrganizationNotFound       = errors.New("organization not found")
	ErrNoOrganizations            = errors.New("no organizations found, why don't you try joining or creating one")
	ErrInvalidOrganizationName    = errors.New("organization name cannot be empty")
	ErrInviteCodeGenerationFailed = errors.New("failed to generate invite code")
	ErrInvalidInviteCode          = errors.New("invalid invite code")
	ErrNotOrganizationOwner       = errors.New("only the organization owner can perform this action")
	ErrAlreadyOrganizationMember  = errors.New("user is already a member of this organization")
	ErrCannotRemoveYourself       = errors.New("cannot remove yourself from the organization")
	ErrOrganizationMemberNotFound = errors.New("organization member not found")
	ErrUserNotFoundForMembership  = errors.New("user to add was not found")
)

// OrganizationService provides business logic for organization operations.
type OrganizationService struct {
	orgRepo    repository.OrganizationRepository
	userRepo   repository.UserRepository
	seqRepo    repository.SequenceRepository
	membership *MembershipService
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(
	orgRepo repository.OrganizationRepository,
	userRepo repository.UserRepository,
	seqRepo repository.SequenceRepository,
	membership *MembershipService,
) *OrganizationService {
	return &OrganizationService{
		orgRepo:    orgRepo,
		userRepo:   userRepo,
		seqRepo:    seqRepo,
		membership: membership,
	}
}

// CreateOrganizationInput represents parameters to create a new organization.
type CreateOrganizationInput struct {
	Name        string
	Description string
	Avatar      string
	OwnerID     uint64
}

// UpdateOrganizationInput carries the mutable organization fields.
type UpdateOrganizationInput struct {
	Name        string
	Description string
	Avatar      string
}

// CreateOrganization creates a new organization owned by the caller.
func (s *OrganizationService) CreateOrganization(input CreateOrganizationInput) (*models.Organization, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidOrganizationName
	}

	inviteCode, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, ErrInviteCodeGenerationFailed
	}

	id, err := s.seqRepo.NextID()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate organization id: %w", err)
	}

	org := &models.Organization{
		ID:          id,
		Name:        input.Name,
		Description: input.Description,
		Avatar:      input.Avatar,
		OwnerID:     input.OwnerID,
		InviteCode:  inviteCode,
	}

	if err := s.orgRepo.Create(org); err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	member := &models.OrganizationMember{
		OrganizationID: org.ID,
		UserID:         input.OwnerID,
		Role:           models.RoleOwner,
		JoinedAt:       time.Now(),
	}

	if err := s.orgRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add owner to organization: %w", err)
	}

	return org, nil
}

// GetOrganization returns an organization to one of its members. A missing
// organization and a membership failure are reported as distinct errors.
func (s *OrganizationService) GetOrganization(orgID, userID uint64) (*models.Organization, error) {
	org, err := s.orgRepo.FindByID(orgID, "Members", "Members.User")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}

	ok, err := s.membership.IsMember(orgID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotAMember
	}

	return org, nil
}

// ListMyOrganizations returns the organizations the user owns or belongs to.
// An entirely empty registry is an error; a user who merely belongs to none
// gets an empty list.
func (s *OrganizationService) ListMyOrganizations(userID uint64) ([]models.OrganizationMember, error) {
	total, err := s.orgRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count organizations: %w", err)
	}
	if total == 0 {
		return nil, ErrNoOrganizations
	}

	memberships, err := s.orgRepo.ListMembersByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	return memberships, nil
}

// UpdateOrganization replaces the mutable fields. Owner only.
func (s *OrganizationService) UpdateOrganization(orgID, userID uint64, input UpdateOrganizationInput) (*models.Organization, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidOrganizationName
	}

	org, err := s.orgRepo.FindByID(orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}

	if org.OwnerID != userID {
		return nil, ErrNotOrganizationOwner
	}

	now := time.Now()
	org.Name = input.Name
	org.Description = input.Description
	org.Avatar = input.Avatar
	org.UpdatedAt = &now

	if err := s.orgRepo.Update(org); err != nil {
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}

	return org, nil
}

// DeleteOrganization removes an organization and cascades to its proposals.
// Comments on those proposals are not touched here. Owner only.
func (s *OrganizationService) DeleteOrganization(orgID, userID uint64) (*models.Organization, error) {
	org, err := s.orgRepo.FindByID(orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}

	if org.OwnerID != userID {
		return nil, ErrNotOrganizationOwner
	}

	if err := s.orgRepo.Delete(orgID); err != nil {
		return nil, fmt.Errorf("failed to delete organization: %w", err)
	}

	return org, nil
}

// JoinOrganizationByInvite adds a user to an organization via invite code.
func (s *OrganizationService) JoinOrganizationByInvite(userID uint64, inviteCode string) (*models.Organization, error) {
	org, err := s.orgRepo.FindByInviteCode(inviteCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInviteCode
		}
		return nil, fmt.Errorf("failed to find organization by invite code: %w", err)
	}

	if _, err := s.orgRepo.FindMember(org.ID, userID); err == nil {
		return nil, ErrAlreadyOrganizationMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	member := &models.OrganizationMember{
		OrganizationID: org.ID,
		UserID:         userID,
		Role:           models.RoleMember,
		JoinedAt:       time.Now(),
	}

	if err := s.orgRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add member to organization: %w", err)
	}

	return org, nil
}

// AddMember lets the owner add a user to the organization directly.
func (s *OrganizationService) AddMember(orgID, actorID, targetID uint64) error {
	org, err := s.orgRepo.FindByID(orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrganizationNotFound
		}
		return fmt.Errorf("failed to find organization: %w", err)
	}

	if org.OwnerID != actorID {
		return ErrNotOrganizationOwner
	}

	if _, err := s.userRepo.FindByID(targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFoundForMembership
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := s.orgRepo.FindMember(orgID, targetID); err == nil {
		return ErrAlreadyOrganizationMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to verify membership: %w", err)
	}

	member := &models.OrganizationMember{
		OrganizationID: orgID,
		UserID:         targetID,
		Role:           models.RoleMember,
		JoinedAt:       time.Now(),
	}

	if err := s.orgRepo.AddMember(member); err != nil {
		return fmt.Errorf("failed to add member to organization: %w", err)
	}

	return nil
}

// RemoveMember removes a member from the organization. Owner only.
func (s *OrganizationService) RemoveMember(orgID, actorID, targetID uint64) error {
	org, err := s.orgRepo.FindByID(orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrganizationNotFound
		}
		return fmt.Errorf("failed to find organization: %w", err)
	}

	if org.OwnerID != actorID {
		return ErrNotOrganizationOwner
	}

	if targetID == actorID {
		return ErrCannotRemoveYourself
	}

	if _, err := s.orgRepo.FindMember(orgID, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrganizationMemberNotFound
		}
		return fmt.Errorf("failed to find organization member: %w", err)
	}

	if err := s.orgRepo.RemoveMember(orgID, targetID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}

// RegenerateInviteCode generates a new invite code for the organization.
// Owner only.
func (s *OrganizationService) RegenerateInviteCode(orgID, userID uint64) (*models.Organization, error) {
	org, err := s.orgRepo.FindByID(orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}

	if org.OwnerID != userID {
		return nil, ErrNotOrganizationOwner
	}

	code, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, ErrInviteCodeGenerationFailed
	}

	now := time.Now()
	org.InviteCode = code
	org.UpdatedAt = &now
	if err := s.orgRepo.Update(org); err != nil {
		return nil, fmt.Errorf("failed to update invite code: %w", err)
	}

	return org, nil
}
