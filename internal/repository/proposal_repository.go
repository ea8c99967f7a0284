package repository

import (
	"time"

	"github.com/daoforge/governance-api/internal/models"
	"gorm.io/gorm"
)

// GormProposalRepository is a GORM implementation of ProposalRepository
type GormProposalRepository struct {
	db *gorm.DB
}

// NewProposalRepository creates a new ProposalRepository
func NewProposalRepository(db *gorm.DB) ProposalRepository {
	return &GormProposalRepository{db: db}
}

// Create creates a new proposal
func (r *GormProposalRepository) Create(proposal *models.Proposal) error {
	return r.db.Create(proposal).Error
}

// FindByID finds a proposal by ID with optional preloading
func (r *GormProposalRepository) FindByID(id uint64, preload ...string) (*models.Proposal, error) {
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}

	var proposal models.Proposal
	if err := query.First(&proposal, id).Error; err != nil {
		return nil, err
	}
	return &proposal, nil
}

// ListByOrganization lists all proposals of an organization
func (r *GormProposalRepository) ListByOrganization(organizationID uint64) ([]models.Proposal, error) {
	var proposals []models.Proposal
	if err := r.db.Preload("Votes").
		Where("organization_id = ?", organizationID).
		Order("id").
		Find(&proposals).Error; err != nil {
		return nil, err
	}
	return proposals, nil
}

// ListApprovedOpen lists the organization's approved proposals whose deadline
// has not yet passed
func (r *GormProposalRepository) ListApprovedOpen(organizationID uint64, now time.Time) ([]models.Proposal, error) {
	var proposals []models.Proposal
	if err := r.db.Preload("Votes").
		Where("organization_id = ? AND is_approved = ? AND deadline >= ?", organizationID, true, now).
		Order("id").
		Find(&proposals).Error; err != nil {
		return nil, err
	}
	return proposals, nil
}

// Update updates a proposal
func (r *GormProposalRepository) Update(proposal *models.Proposal) error {
	return r.db.Save(proposal).Error
}

// Delete deletes a proposal together with its votes and its comments
// (including their likes) in a transaction
func (r *GormProposalRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		commentIDs := tx.Model(&models.Comment{}).Select("id").Where("proposal_id = ?", id)
		if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}

		if err := tx.Where("proposal_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		if err := tx.Where("proposal_id = ?", id).Delete(&models.ProposalVote{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Proposal{}, id).Error
	})
}

// Count returns the total number of proposals in storage
func (r *GormProposalRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Proposal{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// AddVote records a member's vote
func (r *GormProposalRepository) AddVote(vote *models.ProposalVote) error {
	return r.db.Create(vote).Error
}
