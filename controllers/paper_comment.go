package controllers

import (
	"net/http"

	"paper-share-api/config"
	"paper-share-api/models"
	"paper-share-api/services"
	"paper-share-api/utils"

	"github.com/gin-gonic/gin"
)

// CommentPaper attaches a text comment to a commentable paper.
func CommentPaper(c *gin.Context) {
	var req struct {
		PaperID int    `json:"paperid" binding:"required"`
		Comment string `json:"comment" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "paperid and comment are required"})
		return
	}

	paper, ok := resolvePaper(c, req.PaperID)
	if !ok {
		return
	}
	actor := currentActor(c)
	if !requirePaperComment(c, actor, paper) {
		return
	}

	if _, err := services.NewPaperService(config.DB).Comment(paper.PaperID, actor.UserID, req.Comment); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ReviewPaper upserts the caller's star rating for a paper.
func ReviewPaper(c *gin.Context) {
	var req struct {
		PaperID int  `json:"paperid" binding:"required"`
		Star    *int `json:"star" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "paperid and star are required"})
		return
	}

	paper, ok := resolvePaper(c, req.PaperID)
	if !ok {
		return
	}
	actor := currentActor(c)
	if !requirePaperComment(c, actor, paper) {
		return
	}

	created, err := services.NewPaperService(config.DB).Rate(paper.PaperID, actor.UserID, *req.Star)
	if err != nil {
		serviceError(c, err)
		return
	}
	if created {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "review changed"})
}

// SearchPaperComments pages through a paper's text comments in
// creation order.
func SearchPaperComments(c *gin.Context) {
	paperID, ok := parseEntityID(c, c.Query("paperid"), "paperid")
	if !ok {
		return
	}
	perPage, ok := utils.ParsePerPage(c.Query("per_page"), defaultPerPage)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "per_page should be a positive integer"})
		return
	}
	page := utils.ParsePage(c.DefaultQuery("page", "1"))

	paper, ok := resolvePaper(c, paperID)
	if !ok {
		return
	}
	if !requirePaperView(c, currentActor(c), paper) {
		return
	}

	query := services.NewPaperService(config.DB).CommentsQuery(paper.PaperID)

	var comments []models.PaperTextComment
	pagination, err := utils.PaginateQuery(query, perPage, page, &comments)
	if err != nil {
		serviceError(c, err)
		return
	}

	list := make([]map[string]interface{}, 0, len(comments))
	for i := range comments {
		list = append(list, comments[i].JSON())
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": gin.H{
		"comment_list": list,
		"total_page":   pagination.TotalPages,
		"current_page": pagination.Page,
	}})
}

// GetPaperReview returns the paper's average star rating, 0 when unrated.
func GetPaperReview(c *gin.Context) {
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

	review, err := services.NewPaperService(config.DB).ReviewAverage(paper.PaperID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": gin.H{"review": review}})
}
