package repository

import (
	"github.com/daoforge/governance-api/internal/database"
	"github.com/daoforge/governance-api/internal/models"
	"github.com/daoforge/governance-api/internal/utils"
	"gorm.io/gorm"
)

// GormCommentRepository is a GORM implementation of CommentRepository
type GormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &GormCommentRepository{db: db}
}

// Create creates a new comment
func (r *GormCommentRepository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// FindByID finds a comment by ID with optional preloading
func (r *GormCommentRepository) FindByID(id uint64, preload ...string) (*models.Comment, error) {
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}

	var comment models.Comment
	if err := query.First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByProposal lists a page of the comments attached to a proposal
func (r *GormCommentRepository) ListByProposal(proposalID uint64, params utils.PaginationParams) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.Preload("Likes").
		Where("proposal_id = ?", proposalID).
		Order("id").
		Scopes(database.Paginate(params)).
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// Update updates a comment
func (r *GormCommentRepository) Update(comment *models.Comment) error {
	return r.db.Save(comment).Error
}

// Delete deletes a comment and its likes in a transaction
func (r *GormCommentRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", id).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Comment{}, id).Error
	})
}

// Count returns the total number of comments in storage
func (r *GormCommentRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Comment{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByProposal returns the number of comments on one proposal
func (r *GormCommentRepository) CountByProposal(proposalID uint64) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Comment{}).
		Where("proposal_id = ?", proposalID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// AddLike records a like
func (r *GormCommentRepository) AddLike(like *models.CommentLike) error {
	return r.db.Create(like).Error
}
