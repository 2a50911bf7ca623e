package utils

import (
	"math"
	"strconv"

	"gorm.io/gorm"
)

// Pagination describes one resolved page of an ordered result set.
type Pagination struct {
	Page       int   `json:"current_page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_page"`
}

// ParsePage resolves a page query value. Non-numeric or sub-1 input
// falls back to page 1.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// ParsePerPage resolves a per_page query value against a default.
// Returns ok=false for non-numeric or sub-1 input.
func ParsePerPage(raw string, def int) (int, bool) {
	if raw == "" {
		return def, true
	}
	perPage, err := strconv.Atoi(raw)
	if err != nil || perPage < 1 {
		return 0, false
	}
	return perPage, true
}

// ClampPage resolves a requested page against the total row count.
// A request beyond the last page clamps to the last page. An empty
// result set still counts as one (empty) page, so total_page is never 0.
func ClampPage(total int64, perPage, page int) (resolvedPage, totalPages int) {
	totalPages = int(math.Ceil(float64(total) / float64(perPage)))
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return page, totalPages
}

// PaginateQuery counts the query, clamps the requested page and loads
// that page into dest. The caller supplies the ordering.
func PaginateQuery(query *gorm.DB, perPage, page int, dest interface{}) (Pagination, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	resolved, totalPages := ClampPage(total, perPage, page)
	offset := (resolved - 1) * perPage

	if err := query.Limit(perPage).Offset(offset).Find(dest).Error; err != nil {
		return Pagination{}, err
	}

	return Pagination{
		Page:       resolved,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}
