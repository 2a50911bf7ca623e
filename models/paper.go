package models

import (
	"time"
)

type Paper struct {
	PaperID         int       `gorm:"primaryKey;column:paper_id" json:"paper_id"`
	UserID          int       `gorm:"column:user_id;index" json:"user_id"`
	Title           string    `gorm:"column:title;size:512;uniqueIndex" json:"title"`
	Abstract        string    `gorm:"column:abstract;type:text" json:"abstract"`
	FileName        string    `gorm:"column:file_name;size:1024" json:"file_name"`
	FileHash        string    `gorm:"column:file_hash;size:32" json:"file_hash"`
	PublicationDate time.Time `gorm:"column:publication_date" json:"publication_date"`
	Journal         string    `gorm:"column:journal;size:1024" json:"journal"`
	TotalCitations  int       `gorm:"column:total_citations" json:"total_citations"`
	Private         bool      `gorm:"column:private;default:false" json:"private"`
	CreateAt        time.Time `gorm:"column:create_at;autoCreateTime" json:"create_at"`
	UpdateAt        time.Time `gorm:"column:update_at;autoUpdateTime" json:"update_at"`

	// Relations
	User    User             `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Authors []PaperByScholar `gorm:"foreignKey:PaperID" json:"authors,omitempty"`
}

// PaperByScholar links a free-text scholar name to a paper (authorship).
type PaperByScholar struct {
	LinkID  int    `gorm:"primaryKey;column:link_id" json:"link_id"`
	PaperID int    `gorm:"column:paper_id;index" json:"paper_id"`
	Scholar string `gorm:"column:scholar;size:256" json:"scholar"`

	Paper Paper `gorm:"foreignKey:PaperID;constraint:OnDelete:CASCADE" json:"-"`
}

// PaperCited is a directed citation edge: paper cites cited_paper.
// The ordered pair is unique; self-citation is not rejected.
type PaperCited struct {
	CitedID      int `gorm:"primaryKey;column:cited_id" json:"cited_id"`
	PaperID      int `gorm:"column:paper_id;uniqueIndex:idx_paper_cited_pair" json:"paper_id"`
	CitedPaperID int `gorm:"column:cited_paper_id;uniqueIndex:idx_paper_cited_pair" json:"cited_paper_id"`

	Paper      Paper `gorm:"foreignKey:PaperID;constraint:OnDelete:CASCADE" json:"-"`
	CitedPaper Paper `gorm:"foreignKey:CitedPaperID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName overrides
func (Paper) TableName() string {
	return "papers"
}

func (PaperByScholar) TableName() string {
	return "paper_by_scholars"
}

func (PaperCited) TableName() string {
	return "paper_citations"
}

// SimpleJSON is the list-view projection of a paper.
func (p *Paper) SimpleJSON() map[string]interface{} {
	return map[string]interface{}{
		"paper_id":         p.PaperID,
		"user_id":          p.UserID,
		"username":         p.User.Username,
		"title":            p.Title,
		"publication_date": p.PublicationDate.Format("2006-01-02"),
		"journal":          p.Journal,
		"total_citations":  p.TotalCitations,
		"is_private":       p.Private,
	}
}

// DetailJSON adds the abstract and file metadata to the simple view.
// File bytes are served separately by the content endpoint.
func (p *Paper) DetailJSON() map[string]interface{} {
	out := p.SimpleJSON()
	out["abstract"] = p.Abstract
	out["file_name"] = p.FileName
	out["file_hash"] = p.FileHash
	authors := make([]string, 0, len(p.Authors))
	for _, a := range p.Authors {
		authors = append(authors, a.Scholar)
	}
	out["authors"] = authors
	return out
}
