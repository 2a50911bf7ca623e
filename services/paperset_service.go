package services

import (
	"errors"
	"fmt"
	"math"

	"paper-share-api/models"
	"paper-share-api/permissions"

	"gorm.io/gorm"
)

// PaperSetService owns paper-set reads and mutations; like PaperService,
// its search results are pre-filtered by the actor's view rights.
type PaperSetService struct {
	db *gorm.DB
}

func NewPaperSetService(db *gorm.DB) *PaperSetService {
	return &PaperSetService{db: db}
}

// PaperSetSearchParams are the optional paper-set search inputs. When
// any of the Paper* fields is supplied the search switches to by-paper
// mode: papers are searched with those fields and the distinct sets
// containing any match are returned.
type PaperSetSearchParams struct {
	Name          string
	Description   string
	Creater       string
	PaperTitle    string
	PaperJournal  string
	PaperUploader string
	PaperAuthor   string
	Regex         bool
}

// ByPaperMode reports whether any paper-scoped field is present.
func (p PaperSetSearchParams) ByPaperMode() bool {
	return p.PaperTitle != "" || p.PaperJournal != "" || p.PaperUploader != "" || p.PaperAuthor != ""
}

// SearchQuery builds the visible candidate set for the actor, ordered by
// paper_set_id ascending.
func (s *PaperSetService) SearchQuery(params PaperSetSearchParams, actor permissions.Actor) *gorm.DB {
	if params.ByPaperMode() {
		return s.searchByPaper(params, actor)
	}

	query := s.db.Model(&models.PaperSet{})
	if params.Name != "" {
		query = matchExpr(query, "paper_sets.name", params.Name, params.Regex)
	}
	if params.Description != "" {
		query = matchExpr(query, "paper_sets.description", params.Description, params.Regex)
	}
	if params.Creater != "" {
		creaters := matchExpr(
			s.db.Model(&models.User{}).Select("user_id"),
			"username", params.Creater, params.Regex)
		query = query.Where("paper_sets.user_id IN (?)", creaters)
	}

	return visiblePaperSets(query, actor).Order("paper_sets.paper_set_id ASC")
}

// searchByPaper runs the paper search with the de-prefixed parameters
// and collects the distinct sets containing any matched paper. The
// paper-side visibility filter applies before collection, the set-side
// one after.
func (s *PaperSetService) searchByPaper(params PaperSetSearchParams, actor permissions.Actor) *gorm.DB {
	paperParams := PaperSearchParams{
		Title:    params.PaperTitle,
		Journal:  params.PaperJournal,
		Uploader: params.PaperUploader,
		Author:   params.PaperAuthor,
		Regex:    params.Regex,
	}
	matched := NewPaperService(s.db).SearchQuery(paperParams, actor).Select("papers.paper_id")

	containing := s.db.Model(&models.PaperSetContent{}).
		Distinct("paper_set_id").
		Where("paper_id IN (?)", matched)

	query := s.db.Model(&models.PaperSet{}).
		Where("paper_sets.paper_set_id IN (?)", containing)
	return visiblePaperSets(query, actor).Order("paper_sets.paper_set_id ASC")
}

func visiblePaperSets(query *gorm.DB, actor permissions.Actor) *gorm.DB {
	if actor.Anonymous {
		return query.Where("paper_sets.private = ?", false)
	}
	return query.Where("paper_sets.private = ? OR paper_sets.user_id = ?", false, actor.UserID)
}

// Get resolves a paper set with its creator, ErrNotFound when absent.
func (s *PaperSetService) Get(paperSetID int) (*models.PaperSet, error) {
	var set models.PaperSet
	err := s.db.Preload("User").Where("paper_set_id = ?", paperSetID).First(&set).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("paperset of id %d: %w", paperSetID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &set, nil
}

// PaperSetInsert carries a validated paper-set creation.
type PaperSetInsert struct {
	Name        string
	Description *string
	Private     bool
	CanModify   bool
	CanComment  bool
}

func (s *PaperSetService) Insert(actor permissions.Actor, in PaperSetInsert) (*models.PaperSet, error) {
	set := models.PaperSet{
		UserID:      actor.UserID,
		Name:        in.Name,
		Description: in.Description,
		Private:     in.Private,
		CanModify:   in.CanModify,
		CanComment:  in.CanComment,
	}
	if err := s.db.Create(&set).Error; err != nil {
		return nil, err
	}
	return &set, nil
}

// PaperSetUpdate is a sparse update; nil fields stay untouched.
type PaperSetUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Private     *bool   `json:"private"`
	CanModify   *bool   `json:"can_modify"`
	CanComment  *bool   `json:"can_comment"`
}

// PartialUpdate applies upd; nothing is written when no field actually
// changes. Reports whether a change occurred.
func (s *PaperSetService) PartialUpdate(set *models.PaperSet, upd PaperSetUpdate) (bool, error) {
	changed := false

	if upd.Name != nil && *upd.Name != set.Name {
		set.Name = *upd.Name
		changed = true
	}
	if upd.Description != nil {
		if set.Description == nil || *set.Description != *upd.Description {
			set.Description = upd.Description
			changed = true
		}
	}
	if upd.Private != nil && *upd.Private != set.Private {
		set.Private = *upd.Private
		changed = true
	}
	if upd.CanModify != nil && *upd.CanModify != set.CanModify {
		set.CanModify = *upd.CanModify
		changed = true
	}
	if upd.CanComment != nil && *upd.CanComment != set.CanComment {
		set.CanComment = *upd.CanComment
		changed = true
	}

	if !changed {
		return false, nil
	}
	if err := s.db.Save(set).Error; err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes the set, its membership edges, comments and ratings in
// one transaction. Member papers are untouched.
func (s *PaperSetService) Delete(set *models.PaperSet) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		id := set.PaperSetID
		if err := tx.Where("paper_set_id = ?", id).Delete(&models.PaperSetContent{}).Error; err != nil {
			return err
		}
		if err := tx.Where("paper_set_id = ?", id).Delete(&models.PaperSetTextComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("paper_set_id = ?", id).Delete(&models.PaperSetStarComment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.PaperSet{}, id).Error
	})
}

// AddPapers inserts membership edges for papers not yet in the set and
// returns the ones that already were.
func (s *PaperSetService) AddPapers(set *models.PaperSet, papers []models.Paper) ([]models.Paper, error) {
	var alreadyIn []models.Paper
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for i := range papers {
			var count int64
			if err := tx.Model(&models.PaperSetContent{}).
				Where("paper_set_id = ? AND paper_id = ?", set.PaperSetID, papers[i].PaperID).
				Count(&count).Error; err != nil {
				return err
			}
			if count != 0 {
				alreadyIn = append(alreadyIn, papers[i])
				continue
			}
			edge := models.PaperSetContent{PaperSetID: set.PaperSetID, PaperID: papers[i].PaperID}
			if err := tx.Create(&edge).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return alreadyIn, nil
}

// RemovePapers deletes membership edges. The whole removal fails when
// any paper is not in the set.
func (s *PaperSetService) RemovePapers(set *models.PaperSet, papers []models.Paper) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for i := range papers {
			result := tx.Where("paper_set_id = ? AND paper_id = ?", set.PaperSetID, papers[i].PaperID).
				Delete(&models.PaperSetContent{})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("paper of id %d: %w", papers[i].PaperID, ErrNotInSet)
			}
		}
		return nil
	})
}

// Papers lists the set's member papers with their uploaders, ordered by
// paper_id ascending.
func (s *PaperSetService) Papers(set *models.PaperSet) ([]models.Paper, error) {
	members := s.db.Model(&models.PaperSetContent{}).
		Select("paper_id").
		Where("paper_set_id = ?", set.PaperSetID)

	var papers []models.Paper
	err := s.db.Model(&models.Paper{}).
		Preload("User").
		Where("papers.paper_id IN (?)", members).
		Order("papers.paper_id ASC").
		Find(&papers).Error
	if err != nil {
		return nil, err
	}
	return papers, nil
}

// Comment attaches a text comment to the set.
func (s *PaperSetService) Comment(paperSetID, userID int, comment string) (*models.PaperSetTextComment, error) {
	record := models.PaperSetTextComment{
		PaperSetID: paperSetID,
		UserID:     userID,
		Comment:    comment,
	}
	if err := s.db.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// CommentsQuery returns the set's text comments ordered by creation
// time ascending, ready for pagination.
func (s *PaperSetService) CommentsQuery(paperSetID int) *gorm.DB {
	return s.db.Model(&models.PaperSetTextComment{}).
		Preload("User").
		Where("paper_set_id = ?", paperSetID).
		Order("commented_on ASC")
}

// Rate upserts the actor's star rating for the set, one row per
// (paper set, user) pair. Reports whether a new rating row was created.
func (s *PaperSetService) Rate(paperSetID, userID, star int) (bool, error) {
	if !models.ValidStar(star) {
		return false, ErrInvalidStar
	}

	var existing models.PaperSetStarComment
	err := s.db.Where("paper_set_id = ? AND user_id = ?", paperSetID, userID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		record := models.PaperSetStarComment{PaperSetID: paperSetID, UserID: userID, Star: star}
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
// 0 when the set has no ratings.
func (s *PaperSetService) ReviewAverage(paperSetID int) (float64, error) {
	var avg *float64
	err := s.db.Model(&models.PaperSetStarComment{}).
		Select("AVG(star)").
		Where("paper_set_id = ?", paperSetID).
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return math.Round(*avg*10) / 10, nil
}
