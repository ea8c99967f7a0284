package dto

import (
	"time"

	"github.com/daoforge/governance-api/internal/models"
)

// CommentDTO represents a comment in API responses
type CommentDTO struct {
	ID         uint64     `json:"id"`
	ProposalID uint64     `json:"proposal_id"`
	Content    string     `json:"content"`
	AuthorID   uint64     `json:"author_id"`
	Likes      []uint64   `json:"likes"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

// ToCommentDTO converts a comment model to DTO. Likes must be loaded.
func ToCommentDTO(comment models.Comment) CommentDTO {
	likes := make([]uint64, 0, len(comment.Likes))
	for _, like := range comment.Likes {
		likes = append(likes, like.UserID)
	}

	return CommentDTO{
		ID:         comment.ID,
		ProposalID: comment.ProposalID,
		Content:    comment.Content,
		AuthorID:   comment.AuthorID,
		Likes:      likes,
		CreatedAt:  comment.CreatedAt,
		UpdatedAt:  comment.UpdatedAt,
	}
}

// ToCommentDTOs converts a slice of comments
func ToCommentDTOs(comments []models.Comment) []CommentDTO {
	dtos := make([]CommentDTO, len(comments))
	for i, c := range comments {
		dtos[i] = ToCommentDTO(c)
	}
	return dtos
}
