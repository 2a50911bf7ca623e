package controllers

import (
	"net/http"

	"paper-share-api/config"
	"paper-share-api/models"
	"paper-share-api/permissions"
	"paper-share-api/services"
	"paper-share-api/utils"

	"github.com/gin-gonic/gin"
)

// CommentPaperSet attaches a text comment to a commentable paper set.
func CommentPaperSet(c *gin.Context) {
	var req struct {
		PaperSetID int    `json:"papersetid" binding:"required"`
		Comment    string `json:"comment" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "papersetid and comment are required"})
		return
	}

	set, ok := resolvePaperSet(c, req.PaperSetID)
	if !ok {
		return
	}
	actor := currentActor(c)
	if !requirePaperSetAction(c, actor, set, permissions.PaperSetComment) {
		return
	}

	if _, err := services.NewPaperSetService(config.DB).Comment(set.PaperSetID, actor.UserID, req.Comment); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ReviewPaperSet upserts the caller's star rating for a paper set.
func ReviewPaperSet(c *gin.Context) {
	var req struct {
		PaperSetID int  `json:"papersetid" binding:"required"`
		Star       *int `json:"star" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "papersetid and star are required"})
		return
	}

	set, ok := resolvePaperSet(c, req.PaperSetID)
	if !ok {
		return
	}
	actor := currentActor(c)
	if !requirePaperSetAction(c, actor, set, permissions.PaperSetComment) {
		return
	}

	created, err := services.NewPaperSetService(config.DB).Rate(set.PaperSetID, actor.UserID, *req.Star)
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

// SearchPaperSetComments pages through a set's text comments in
// creation order.
func SearchPaperSetComments(c *gin.Context) {
	paperSetID, ok := parseEntityID(c, c.Query("papersetid"), "papersetid")
	if !ok {
		return
	}
	perPage, ok := utils.ParsePerPage(c.Query("per_page"), defaultPerPage)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "per_page should be a positive integer"})
		return
	}
	page := utils.ParsePage(c.DefaultQuery("page", "1"))

	set, ok := resolvePaperSet(c, paperSetID)
	if !ok {
		return
	}
	if !requirePaperSetAction(c, currentActor(c), set, permissions.PaperSetRead) {
		return
	}

	query := services.NewPaperSetService(config.DB).CommentsQuery(set.PaperSetID)

	var comments []models.PaperSetTextComment
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

// GetPaperSetReview returns the set's average star rating, 0 when unrated.
func GetPaperSetReview(c *gin.Context) {
	paperSetID, ok := parseEntityID(c, c.Query("papersetid"), "papersetid")
	if !ok {
		return
	}
	set, ok := resolvePaperSet(c, paperSetID)
	if !ok {
		return
	}
	if !requirePaperSetAction(c, currentActor(c), set, permissions.PaperSetRead) {
		return
	}

	review, err := services.NewPaperSetService(config.DB).ReviewAverage(set.PaperSetID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": gin.H{"review": review}})
}
