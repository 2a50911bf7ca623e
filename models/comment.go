package models

import (
	"time"
)

// Star rating bounds, inclusive.
const (
	MinStar = 1
	MaxStar = 10
)

type PaperTextComment struct {
	CommentID   int       `gorm:"primaryKey;column:comment_id" json:"comment_id"`
	PaperID     int       `gorm:"column:paper_id;index" json:"paper_id"`
	UserID      int       `gorm:"column:user_id" json:"user_id"`
	Comment     string    `gorm:"column:comment;size:4096" json:"comment"`
	CommentedOn time.Time `gorm:"column:commented_on;autoCreateTime" json:"commented_on"`

	Paper Paper `gorm:"foreignKey:PaperID;constraint:OnDelete:CASCADE" json:"-"`
	User  User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

// PaperStarComment holds one star rating per (paper, user) pair.
type PaperStarComment struct {
	CommentID   int       `gorm:"primaryKey;column:comment_id" json:"comment_id"`
	PaperID     int       `gorm:"column:paper_id;uniqueIndex:idx_paper_star_pair" json:"paper_id"`
	UserID      int       `gorm:"column:user_id;uniqueIndex:idx_paper_star_pair" json:"user_id"`
	Star        int       `gorm:"column:star" json:"star"`
	CommentedOn time.Time `gorm:"column:commented_on;autoCreateTime" json:"commented_on"`

	Paper Paper `gorm:"foreignKey:PaperID;constraint:OnDelete:CASCADE" json:"-"`
	User  User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

type PaperSetTextComment struct {
	CommentID   int       `gorm:"primaryKey;column:comment_id" json:"comment_id"`
	PaperSetID  int       `gorm:"column:paper_set_id;index" json:"paper_set_id"`
	UserID      int       `gorm:"column:user_id" json:"user_id"`
	Comment     string    `gorm:"column:comment;size:4096" json:"comment"`
	CommentedOn time.Time `gorm:"column:commented_on;autoCreateTime" json:"commented_on"`

	PaperSet PaperSet `gorm:"foreignKey:PaperSetID;constraint:OnDelete:CASCADE" json:"-"`
	User     User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

// PaperSetStarComment holds one star rating per (paper set, user) pair.
type PaperSetStarComment struct {
	CommentID   int       `gorm:"primaryKey;column:comment_id" json:"comment_id"`
	PaperSetID  int       `gorm:"column:paper_set_id;uniqueIndex:idx_paper_set_star_pair" json:"paper_set_id"`
	UserID      int       `gorm:"column:user_id;uniqueIndex:idx_paper_set_star_pair" json:"user_id"`
	Star        int       `gorm:"column:star" json:"star"`
	CommentedOn time.Time `gorm:"column:commented_on;autoCreateTime" json:"commented_on"`

	PaperSet PaperSet `gorm:"foreignKey:PaperSetID;constraint:OnDelete:CASCADE" json:"-"`
	User     User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName overrides
func (PaperTextComment) TableName() string {
	return "paper_text_comments"
}

func (PaperStarComment) TableName() string {
	return "paper_star_comments"
}

func (PaperSetTextComment) TableName() string {
	return "paper_set_text_comments"
}

func (PaperSetStarComment) TableName() string {
	return "paper_set_star_comments"
}

// ValidStar reports whether star is inside the accepted rating range.
func ValidStar(star int) bool {
	return star >= MinStar && star <= MaxStar
}

// JSON is the serializable projection of a text comment.
func (c *PaperTextComment) JSON() map[string]interface{} {
	return map[string]interface{}{
		"comment_id":   c.CommentID,
		"paper_id":     c.PaperID,
		"user_id":      c.UserID,
		"username":     c.User.Username,
		"comment":      c.Comment,
		"commented_on": c.CommentedOn,
	}
}

func (c *PaperSetTextComment) JSON() map[string]interface{} {
	return map[string]interface{}{
		"comment_id":   c.CommentID,
		"paper_set_id": c.PaperSetID,
		"user_id":      c.UserID,
		"username":     c.User.Username,
		"comment":      c.Comment,
		"commented_on": c.CommentedOn,
	}
}
