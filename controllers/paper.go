package controllers

import (
	"encoding/base64"
	"net/http"
	"time"

	"paper-share-api/config"
	"paper-share-api/models"
	"paper-share-api/services"
	"paper-share-api/utils"

	"github.com/gin-gonic/gin"
)

const defaultPerPage = 3

type insertPaperRequest struct {
	Title           string   `json:"title" binding:"required"`
	Abstract        string   `json:"abstract"`
	FileName        string   `json:"file_name" binding:"required"`
	FileContent     string   `json:"file_content" binding:"required"` // base64
	PublicationDate string   `json:"publication_date" binding:"required"`
	Journal         string   `json:"journal"`
	TotalCitations  int      `json:"total_citations"`
	Private         bool     `json:"private"`
	Authors         []string `json:"authors"`
}

// InsertPaper uploads a paper: metadata, content-addressed file bytes
// and author links in one unit.
func InsertPaper(c *gin.Context) {
	var req insertPaperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": err.Error()})
		return
	}

	if req.TotalCitations < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "citations must be at least 0"})
		return
	}

	pubDate, err := time.Parse("2006-01-02", req.PublicationDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "publication_date must be YYYY-MM-DD"})
		return
	}

	fileBytes, err := base64.StdEncoding.DecodeString(req.FileContent)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "file_content can't be properly decoded"})
		return
	}

	actor := currentActor(c)
	svc := services.NewPaperService(config.DB)
	paper, err := svc.Insert(actor, services.PaperInsert{
		Title:           req.Title,
		Abstract:        req.Abstract,
		FileName:        req.FileName,
		FileContent:     fileBytes,
		PublicationDate: pubDate,
		Journal:         req.Journal,
		TotalCitations:  req.TotalCitations,
		Private:         req.Private,
		Authors:         req.Authors,
	})
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "paper inserted",
		"data":    gin.H{"paper_id": paper.PaperID},
	})
}

// DeletePaper removes an owned paper and its dependents.
func DeletePaper(c *gin.Context) {
	var req struct {
		PaperID int `json:"paperid" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "paperid is required"})
		return
	}

	paper, ok := resolvePaper(c, req.PaperID)
	if !ok {
		return
	}
	actor := currentActor(c)
	if !requirePaperModify(c, actor, paper) {
		return
	}

	if err := services.NewPaperService(config.DB).Delete(paper); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "paper deleted"})
}

type modifyPaperRequest struct {
	PaperID         int       `json:"paperid" binding:"required"`
	Title           *string   `json:"title"`
	Abstract        *string   `json:"abstract"`
	FileName        *string   `json:"file_name"`
	PublicationDate *string   `json:"publication_date"`
	Journal         *string   `json:"journal"`
	TotalCitations  *int      `json:"total_citations"`
	Private         *bool     `json:"private"`
	Authors         *[]string `json:"authors"`
}

// ModifyPaper applies a sparse update; only provided fields change and
// the author list is reconciled as a set.
func ModifyPaper(c *gin.Context) {
	var req modifyPaperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": err.Error()})
		return
	}

	paper, ok := resolvePaper(c, req.PaperID)
	if !ok {
		return
	}
	actor := currentActor(c)
	if !requirePaperModify(c, actor, paper) {
		return
	}

	if req.TotalCitations != nil && *req.TotalCitations < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "citations must be at least 0"})
		return
	}

	upd := services.PaperUpdate{
		Title:          req.Title,
		Abstract:       req.Abstract,
		FileName:       req.FileName,
		Journal:        req.Journal,
		TotalCitations: req.TotalCitations,
		Private:        req.Private,
		Authors:        req.Authors,
	}
	if req.PublicationDate != nil {
		pubDate, err := time.Parse("2006-01-02", *req.PublicationDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "publication_date must be YYYY-MM-DD"})
			return
		}
		upd.PublicationDate = &pubDate
	}

	changed, err := services.NewPaperService(config.DB).PartialUpdate(paper, upd)
	if err != nil {
		serviceError(c, err)
		return
	}
	if !changed {
		c.JSON(http.StatusOK, gin.H{"status": "warning", "warning": "no changes were made"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "paper changed"})
}

// SearchPapers searches by title/uploader/author/journal, optionally
// restricted to one paper set, and paginates the visible results.
func SearchPapers(c *gin.Context) {
	perPage, ok := utils.ParsePerPage(c.Query("per_page"), defaultPerPage)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "per_page should be a positive integer"})
		return
	}
	page := utils.ParsePage(c.DefaultQuery("page", "1"))

	params := services.PaperSearchParams{
		Title:      c.Query("title"),
		Journal:    c.Query("journal"),
		Uploader:   c.Query("uploader"),
		Author:     c.Query("author"),
		PaperSetID: c.Query("papersetid"),
		Regex:      c.Query("regex") == "true" || c.Query("regex") == "True",
	}

	actor := currentActor(c)
	query := services.NewPaperService(config.DB).SearchQuery(params, actor).Preload("User")

	var papers []models.Paper
	pagination, err := utils.PaginateQuery(query, perPage, page, &papers)
	if err != nil {
		serviceError(c, err)
		return
	}

	list := make([]map[string]interface{}, 0, len(papers))
	for i := range papers {
		list = append(list, papers[i].SimpleJSON())
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": gin.H{
		"data_list":    list,
		"total_page":   pagination.TotalPages,
		"current_page": pagination.Page,
	}})
}

// GetPaperDetail returns the metadata view of one visible paper.
func GetPaperDetail(c *gin.Context) {
	paperID, ok := parseEntityID(c, c.Query("paperid"), "paperid")
	if !ok {
		return
	}
	paper, ok := resolvePaper(c, paperID)
	if !ok {
		return
	}
	if !requirePaperView(c, currentActor(c), paper) {
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": paper.SimpleJSON()})
}

// GetPaperContent serves the stored file. With type=bytes the raw bytes
// are returned (optionally only the text of the first preview_page PDF
// pages); otherwise a JSON detail view with base64 content.
func GetPaperContent(c *gin.Context) {
	paperID, ok := parseEntityID(c, c.Query("paperid"), "paperid")
	if !ok {
		return
	}
	paper, ok := resolvePaper(c, paperID)
	if !ok {
		return
	}
	if !requirePaperView(c, currentActor(c), paper) {
		return
	}

	content, err := utils.ReadContent(paper.FileHash)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "failed to read file content"})
		return
	}

	if c.Query("type") == "bytes" {
		if raw := c.Query("preview_page"); raw != "" {
			pages, ok := parseEntityID(c, raw, "preview_page")
			if !ok {
				return
			}
			preview, err := utils.PDFPreview(content, pages)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": err.Error()})
				return
			}
			c.Data(http.StatusOK, "application/octet-stream", preview)
			return
		}
		c.Data(http.StatusOK, "application/octet-stream", content)
		return
	}

	detail := paper.DetailJSON()
	detail["file_content"] = base64.StdEncoding.EncodeToString(content)
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": detail})
}

// CitePaper records that one owned paper cites another visible paper.
func CitePaper(c *gin.Context) {
	var req struct {
		PaperID      int `json:"paperid" binding:"required"`
		CitedPaperID int `json:"cited_paperid" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "paperid and cited_paperid are required"})
		return
	}

	paper, ok := resolvePaper(c, req.PaperID)
	if !ok {
		return
	}
	actor := currentActor(c)
	if !requirePaperModify(c, actor, paper) {
		return
	}

	cited, ok := resolvePaper(c, req.CitedPaperID)
	if !ok {
		return
	}
	if !requirePaperView(c, actor, cited) {
		return
	}

	if err := services.NewPaperService(config.DB).Cite(paper.PaperID, cited.PaperID); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "citation recorded"})
}

// GetPaperCitations lists the visible papers a paper cites.
func GetPaperCitations(c *gin.Context) {
	paperID, ok := parseEntityID(c, c.Query("paperid"), "paperid")
	if !ok {
		return
	}
	paper, ok := resolvePaper(c, paperID)
	if !ok {
		return
	}
	actor := currentActor(c)
	if !requirePaperView(c, actor, paper) {
		return
	}

	cited, err := services.NewPaperService(config.DB).Citations(paper.PaperID, actor)
	if err != nil {
		serviceError(c, err)
		return
	}

	list := make([]map[string]interface{}, 0, len(cited))
	for i := range cited {
		list = append(list, cited[i].SimpleJSON())
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": gin.H{"cited_list": list}})
}
