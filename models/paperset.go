package models

import (
	"time"
)

type PaperSet struct {
	PaperSetID  int       `gorm:"primaryKey;column:paper_set_id" json:"paper_set_id"`
	UserID      int       `gorm:"column:user_id;index" json:"user_id"`
	Name        string    `gorm:"column:name;size:512" json:"name"`
	Description *string   `gorm:"column:description;size:4096" json:"description,omitempty"`
	Private     bool      `gorm:"column:private;default:false" json:"private"`
	CanModify   bool      `gorm:"column:can_modify;default:false" json:"can_modify"`
	CanComment  bool      `gorm:"column:can_comment;default:true" json:"can_comment"`
	CreateAt    time.Time `gorm:"column:create_at;autoCreateTime" json:"create_at"`
	UpdateAt    time.Time `gorm:"column:update_at;autoUpdateTime" json:"update_at"`

	// Relations
	User     User              `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Contents []PaperSetContent `gorm:"foreignKey:PaperSetID" json:"contents,omitempty"`
}

// PaperSetContent is the membership edge paper-in-paper-set, unique per pair.
type PaperSetContent struct {
	ContentID  int `gorm:"primaryKey;column:content_id" json:"content_id"`
	PaperSetID int `gorm:"column:paper_set_id;uniqueIndex:idx_paper_set_content_pair" json:"paper_set_id"`
	PaperID    int `gorm:"column:paper_id;uniqueIndex:idx_paper_set_content_pair" json:"paper_id"`

	PaperSet PaperSet `gorm:"foreignKey:PaperSetID;constraint:OnDelete:CASCADE" json:"-"`
	Paper    Paper    `gorm:"foreignKey:PaperID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName overrides
func (PaperSet) TableName() string {
	return "paper_sets"
}

func (PaperSetContent) TableName() string {
	return "paper_set_contents"
}

// JSON is the serializable projection of a paper set.
func (s *PaperSet) JSON() map[string]interface{} {
	var description string
	if s.Description != nil {
		description = *s.Description
	}
	return map[string]interface{}{
		"paper_set_id": s.PaperSetID,
		"user_id":      s.UserID,
		"creater":      s.User.Username,
		"name":         s.Name,
		"description":  description,
		"is_private":   s.Private,
		"can_modify":   s.CanModify,
		"can_comment":  s.CanComment,
	}
}
