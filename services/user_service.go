package services

import (
	"paper-share-api/models"

	"gorm.io/gorm"
)

// DeleteUserCascade removes an account and everything it owns or wrote:
// sessions, comments and ratings on any entity, owned paper sets with
// their dependents, owned papers with theirs, then the user row itself.
func DeleteUserCascade(db *gorm.DB, userID int) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.UserToken{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.PaperTextComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.PaperStarComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.PaperSetTextComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.PaperSetStarComment{}).Error; err != nil {
			return err
		}

		ownedSets := tx.Model(&models.PaperSet{}).Select("paper_set_id").Where("user_id = ?", userID)
		if err := tx.Where("paper_set_id IN (?)", ownedSets).Delete(&models.PaperSetContent{}).Error; err != nil {
			return err
		}
		if err := tx.Where("paper_set_id IN (?)", ownedSets).Delete(&models.PaperSetTextComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("paper_set_id IN (?)", ownedSets).Delete(&models.PaperSetStarComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.PaperSet{}).Error; err != nil {
			return err
		}

		ownedPapers := tx.Model(&models.Paper{}).Select("paper_id").Where("user_id = ?", userID)
		if err := tx.Where("paper_id IN (?)", ownedPapers).Delete(&models.PaperByScholar{}).Error; err != nil {
			return err
		}
		if err := tx.Where("paper_id IN (?) OR cited_paper_id IN (?)", ownedPapers, ownedPapers).
			Delete(&models.PaperCited{}).Error; err != nil {
			return err
		}
		if err := tx.Where("paper_id IN (?)", ownedPapers).Delete(&models.PaperTextComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("paper_id IN (?)", ownedPapers).Delete(&models.PaperStarComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("paper_id IN (?)", ownedPapers).Delete(&models.PaperSetContent{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Paper{}).Error; err != nil {
			return err
		}

		return tx.Where("user_id = ?", userID).Delete(&models.User{}).Error
	})
}
