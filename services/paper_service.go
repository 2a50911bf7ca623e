package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"paper-share-api/models"
	"paper-share-api/permissions"
	"paper-share-api/utils"

	"gorm.io/gorm"
)

// PaperService owns every paper read and mutation. Search queries come
// back as *gorm.DB so callers can order and paginate them; everything
// the requesting actor may not see is already filtered out.
type PaperService struct {
	db *gorm.DB
}

func NewPaperService(db *gorm.DB) *PaperService {
	return &PaperService{db: db}
}

// PaperSearchParams are the optional search inputs. Empty fields impose
// no constraint; supplied fields AND-combine. With Regex set, each field
// is matched as a regular expression instead of a case-insensitive
// substring.
type PaperSearchParams struct {
	Title      string
	Journal    string
	Uploader   string
	Author     string
	PaperSetID string
	Regex      bool
}

// likeEscaper neutralizes the LIKE metacharacters so substring input
// matches literally. MySQL's default escape character is backslash.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// matchExpr applies one text predicate in the current matching mode.
// MySQL LIKE under the utf8mb4 default collation is case-insensitive,
// which is exactly the substring semantics wanted here.
func matchExpr(query *gorm.DB, column, value string, regex bool) *gorm.DB {
	if regex {
		return query.Where(column+" REGEXP ?", value)
	}
	return query.Where(column+" LIKE ?", "%"+likeEscaper.Replace(value)+"%")
}

// SearchQuery builds the visible candidate set for the actor, ordered by
// paper_id ascending.
//
// A paperset id pointing at a nonexistent set degrades to "no
// restriction" instead of failing; callers relying on the restriction
// must verify the set exists themselves.
func (s *PaperService) SearchQuery(params PaperSearchParams, actor permissions.Actor) *gorm.DB {
	query := s.db.Model(&models.Paper{})

	if params.PaperSetID != "" {
		var set models.PaperSet
		if err := s.db.Where("paper_set_id = ?", params.PaperSetID).First(&set).Error; err == nil {
			members := s.db.Model(&models.PaperSetContent{}).
				Select("paper_id").
				Where("paper_set_id = ?", set.PaperSetID)
			query = query.Where("papers.paper_id IN (?)", members)
		}
	}

	if params.Title != "" {
		query = matchExpr(query, "papers.title", params.Title, params.Regex)
	}
	if params.Journal != "" {
		query = matchExpr(query, "papers.journal", params.Journal, params.Regex)
	}
	if params.Uploader != "" {
		uploaders := matchExpr(
			s.db.Model(&models.User{}).Select("user_id"),
			"username", params.Uploader, params.Regex)
		query = query.Where("papers.user_id IN (?)", uploaders)
	}
	if params.Author != "" {
		authored := matchExpr(
			s.db.Model(&models.PaperByScholar{}).Select("paper_id"),
			"scholar", params.Author, params.Regex)
		query = query.Where("papers.paper_id IN (?)", authored)
	}

	return visiblePapers(query, actor).Order("papers.paper_id ASC")
}

// visiblePapers intersects a paper query with the view policy: owners
// see their own papers, everyone sees non-private ones.
func visiblePapers(query *gorm.DB, actor permissions.Actor) *gorm.DB {
	if actor.Anonymous {
		return query.Where("papers.private = ?", false)
	}
	return query.Where("papers.private = ? OR papers.user_id = ?", false, actor.UserID)
}

// Get resolves a paper with its uploader, ErrNotFound when absent.
func (s *PaperService) Get(paperID int) (*models.Paper, error) {
	var paper models.Paper
	err := s.db.Preload("User").Preload("Authors").
		Where("paper_id = ?", paperID).First(&paper).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("paper of id %d: %w", paperID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &paper, nil
}

// PaperInsert carries a validated upload.
type PaperInsert struct {
	Title           string
	Abstract        string
	FileName        string
	FileContent     []byte
	PublicationDate time.Time
	Journal         string
	TotalCitations  int
	Private         bool
	Authors         []string
}

// Insert stores the file content-addressed, then creates the paper and
// its author links in one transaction.
func (s *PaperService) Insert(actor permissions.Actor, in PaperInsert) (*models.Paper, error) {
	var count int64
	if err := s.db.Model(&models.Paper{}).Where("title = ?", in.Title).Count(&count).Error; err != nil {
		return nil, err
	}
	if count != 0 {
		return nil, fmt.Errorf("paper of title %s: %w", in.Title, ErrDuplicateTitle)
	}

	hash, err := utils.SaveContent(in.FileContent)
	if err != nil {
		return nil, fmt.Errorf("store file content: %w", err)
	}

	paper := models.Paper{
		UserID:          actor.UserID,
		Title:           in.Title,
		Abstract:        in.Abstract,
		FileName:        in.FileName,
		FileHash:        hash,
		PublicationDate: in.PublicationDate,
		Journal:         in.Journal,
		TotalCitations:  in.TotalCitations,
		Private:         in.Private,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&paper).Error; err != nil {
			return err
		}
		for _, scholar := range dedupeScholars(in.Authors) {
			link := models.PaperByScholar{PaperID: paper.PaperID, Scholar: scholar}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &paper, nil
}

// PaperUpdate is a sparse update: nil fields stay untouched, non-nil
// fields are applied only when they differ from the stored value.
// Authors, when present, is reconciled as a set.
type PaperUpdate struct {
	Title           *string    `json:"title"`
	Abstract        *string    `json:"abstract"`
	FileName        *string    `json:"file_name"`
	PublicationDate *time.Time `json:"-"`
	Journal         *string    `json:"journal"`
	TotalCitations  *int       `json:"total_citations"`
	Private         *bool      `json:"private"`
	Authors         *[]string  `json:"authors"`
}

// PartialUpdate applies upd to the paper. The scalar changes and the
// author reconciliation commit as one transaction; nothing is written
// when no field actually changes. Reports whether a change occurred.
func (s *PaperService) PartialUpdate(paper *models.Paper, upd PaperUpdate) (bool, error) {
	changed := false

	setString := func(dst *string, src *string) {
		if src != nil && *src != *dst {
			*dst = *src
			changed = true
		}
	}

	if upd.Title != nil && *upd.Title != paper.Title {
		var count int64
		if err := s.db.Model(&models.Paper{}).
			Where("title = ? AND paper_id <> ?", *upd.Title, paper.PaperID).
			Count(&count).Error; err != nil {
			return false, err
		}
		if count != 0 {
			return false, fmt.Errorf("paper of title %s: %w", *upd.Title, ErrDuplicateTitle)
		}
		paper.Title = *upd.Title
		changed = true
	}
	setString(&paper.Abstract, upd.Abstract)
	setString(&paper.FileName, upd.FileName)
	setString(&paper.Journal, upd.Journal)
	if upd.PublicationDate != nil && !upd.PublicationDate.Equal(paper.PublicationDate) {
		paper.PublicationDate = *upd.PublicationDate
		changed = true
	}
	if upd.TotalCitations != nil && *upd.TotalCitations != paper.TotalCitations {
		paper.TotalCitations = *upd.TotalCitations
		changed = true
	}
	if upd.Private != nil && *upd.Private != paper.Private {
		paper.Private = *upd.Private
		changed = true
	}

	var toAdd, toRemove []string
	if upd.Authors != nil {
		current := make([]string, 0, len(paper.Authors))
		for _, link := range paper.Authors {
			current = append(current, link.Scholar)
		}
		toAdd, toRemove = diffScholars(current, *upd.Authors)
		if len(toAdd) != 0 || len(toRemove) != 0 {
			changed = true
		}
	}

	if !changed {
		return false, nil
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(paper).Error; err != nil {
			return err
		}
		for _, scholar := range toAdd {
			link := models.PaperByScholar{PaperID: paper.PaperID, Scholar: scholar}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		if len(toRemove) != 0 {
			if err := tx.Where("paper_id = ? AND scholar IN ?", paper.PaperID, toRemove).
				Delete(&models.PaperByScholar{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes the paper and everything hanging off it: author links,
// citations in both directions, comments, ratings and paper-set
// memberships, all in one transaction.
func (s *PaperService) Delete(paper *models.Paper) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		id := paper.PaperID
		if err := tx.Where("paper_id = ?", id).Delete(&models.PaperByScholar{}).Error; err != nil {
			return err
		}
		if err := tx.Where("paper_id = ? OR cited_paper_id = ?", id, id).Delete(&models.PaperCited{}).Error; err != nil {
			return err
		}
		if err := tx.Where("paper_id = ?", id).Delete(&models.PaperTextComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("paper_id = ?", id).Delete(&models.PaperStarComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("paper_id = ?", id).Delete(&models.PaperSetContent{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Paper{}, id).Error
	})
}

// Comment attaches a text comment to the paper.
func (s *PaperService) Comment(paperID, userID int, comment string) (*models.PaperTextComment, error) {
	record := models.PaperTextComment{
		PaperID: paperID,
		UserID:  userID,
		Comment: comment,
	}
	if err := s.db.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// CommentsQuery returns the paper's text comments ordered by creation
// time ascending, ready for pagination.
func (s *PaperService) CommentsQuery(paperID int) *gorm.DB {
	return s.db.Model(&models.PaperTextComment{}).
		Preload("User").
		Where("paper_id = ?", paperID).
		Order("commented_on ASC")
}

// Rate upserts the actor's star rating for a paper: one row per
// (paper, user) pair. Reports whether a new rating row was created.
// Concurrent first ratings race on the pair's unique index; the loser
// surfaces the constraint violation.
func (s *PaperService) Rate(paperID, userID, star int) (bool, error) {
	if !models.ValidStar(star) {
		return false, ErrInvalidStar
	}

	var existing models.PaperStarComment
	err := s.db.Where("paper_id = ? AND user_id = ?", paperID, userID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		record := models.PaperStarComment{PaperID: paperID, UserID: userID, Star: star}
		if err := s.db.Create(&record).Error; err != nil {
			return false, err
		}
		return true, nil
	}
	if err != nil {
		return false, err
	}

	existing.Star = star
	if err := s.db.Save(&existing).Error; err != nil {
		return false, err
	}
	return false, nil
}

// ReviewAverage returns the mean star rating rounded to one decimal,
// 0 when the paper has no ratings.
func (s *PaperService) ReviewAverage(paperID int) (float64, error) {
	var avg *float64
	err := s.db.Model(&models.PaperStarComment{}).
		Select("AVG(star)").
		Where("paper_id = ?", paperID).
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return math.Round(*avg*10) / 10, nil
}

// Cite records a directed citation edge from paper to cited paper.
// The ordered pair is unique; self-citation is accepted.
func (s *PaperService) Cite(paperID, citedPaperID int) error {
	var count int64
	if err := s.db.Model(&models.PaperCited{}).
		Where("paper_id = ? AND cited_paper_id = ?", paperID, citedPaperID).
		Count(&count).Error; err != nil {
		return err
	}
	if count != 0 {
		return ErrAlreadyCited
	}

	edge := models.PaperCited{PaperID: paperID, CitedPaperID: citedPaperID}
	return s.db.Create(&edge).Error
}

// Citations lists the papers cited by the given paper, restricted to
// those the actor may view.
func (s *PaperService) Citations(paperID int, actor permissions.Actor) ([]models.Paper, error) {
	cited := s.db.Model(&models.PaperCited{}).
		Select("cited_paper_id").
		Where("paper_id = ?", paperID)

	var papers []models.Paper
	query := s.db.Model(&models.Paper{}).
		Preload("User").
		Where("papers.paper_id IN (?)", cited)
	if err := visiblePapers(query, actor).Order("papers.paper_id ASC").Find(&papers).Error; err != nil {
		return nil, err
	}
	return papers, nil
}

// dedupeScholars drops empty and repeated names, preserving order.
func dedupeScholars(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// diffScholars computes the set reconciliation from current to target:
// names to add and links to remove. Applying the same target twice
// yields empty diffs the second time.
func diffScholars(current, target []string) (toAdd, toRemove []string) {
	currentSet := make(map[string]bool, len(current))
	for _, name := range current {
		currentSet[name] = true
	}
	targetSet := make(map[string]bool, len(target))
	for _, name := range target {
		if name == "" {
			continue
		}
		targetSet[name] = true
	}

	for _, name := range dedupeScholars(target) {
		if !currentSet[name] {
			toAdd = append(toAdd, name)
		}
	}
	for _, name := range current {
		if !targetSet[name] {
			toRemove = append(toRemove, name)
		}
	}
	return toAdd, toRemove
}
