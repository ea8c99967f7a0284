package models

import "time"

type Comment struct {
	ID         uint64     `gorm:"primarykey;autoIncrement:false" json:"id"`
	ProposalID uint64     `gorm:"not null;index" json:"proposal_id"`
	Content    string     `gorm:"type:text;not null" json:"content"`
	AuthorID   uint64     `gorm:"not null;index" json:"author_id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `gorm:"autoUpdateTime:false" json:"updated_at,omitempty"`

	// Relations
	Author User          `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Likes  []CommentLike `gorm:"foreignKey:CommentID" json:"likes,omitempty"`
}

// CommentLike records a single like; the composite key enforces like-once.
type CommentLike struct {
	CommentID uint64    `gorm:"primarykey;autoIncrement:false" json:"comment_id"`
	UserID    uint64    `gorm:"primarykey;autoIncrement:false" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// LikedBy reports whether the user already liked this comment. Likes must be
// loaded.
func (c *Comment) LikedBy(userID uint64) bool {
	for _, like := range c.Likes {
		if like.UserID == userID {
			return true
		}
	}
	return false
}
