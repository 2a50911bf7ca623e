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

type insertPaperSetRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	Private     bool    `json:"private"`
	CanModify   bool    `json:"can_modify"`
	CanComment  *bool   `json:"can_comment"`
}

// InsertPaperSet creates a paper set owned by the caller. can_comment
// defaults to true when omitted.
func InsertPaperSet(c *gin.Context) {
	var req insertPaperSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "paper set cannot be created"})
		return
	}

	canComment := true
	if req.CanComment != nil {
		canComment = *req.CanComment
	}

	set, err := services.NewPaperSetService(config.DB).Insert(currentActor(c), services.PaperSetInsert{
		Name:        req.Name,
		Description: req.Description,
		Private:     req.Private,
		CanModify:   req.CanModify,
		CanComment:  canComment,
	})
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "paperset created",
		"data":    gin.H{"paper_set_id": set.PaperSetID},
	})
}

type changePaperSetRequest struct {
	PaperSetID  int     `json:"papersetid" binding:"required"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Private     *bool   `json:"private"`
	CanModify   *bool   `json:"can_modify"`
	CanComment  *bool   `json:"can_comment"`
}

// ChangePaperSet applies a sparse owner-only update.
func ChangePaperSet(c *gin.Context) {
	var req changePaperSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "papersetid is required"})
		return
	}

	set, ok := resolvePaperSet(c, req.PaperSetID)
	if !ok {
		return
	}
	actor := currentActor(c)
	if !requirePaperSetAction(c, actor, set, permissions.PaperSetModify) {
		return
	}

	changed, err := services.NewPaperSetService(config.DB).PartialUpdate(set, services.PaperSetUpdate{
		Name:        req.Name,
		Description: req.Description,
		Private:     req.Private,
		CanModify:   req.CanModify,
		CanComment:  req.CanComment,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	if !changed {
		c.JSON(http.StatusOK, gin.H{"status": "warning", "warning": "no changes were made"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "paperset changed"})
}

// DeletePaperSet removes an owned paper set and its membership edges.
func DeletePaperSet(c *gin.Context) {
	var req struct {
		PaperSetID int `json:"papersetid" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "papersetid is required"})
		return
	}

	set, ok := resolvePaperSet(c, req.PaperSetID)
	if !ok {
		return
	}
	if !requirePaperSetAction(c, currentActor(c), set, permissions.PaperSetModify) {
		return
	}

	if err := services.NewPaperSetService(config.DB).Delete(set); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "paperset deleted"})
}

// SearchPaperSets searches sets by name/description/creater, or — when
// any paper* parameter is present — by the papers they contain.
func SearchPaperSets(c *gin.Context) {
	perPage, ok := utils.ParsePerPage(c.Query("per_page"), defaultPerPage)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "per_page should be a positive integer"})
		return
	}
	page := utils.ParsePage(c.DefaultQuery("page", "1"))

	params := services.PaperSetSearchParams{
		Name:          c.Query("name"),
		Description:   c.Query("description"),
		Creater:       c.Query("creater"),
		PaperTitle:    c.Query("papertitle"),
		PaperJournal:  c.Query("paperjournal"),
		PaperUploader: c.Query("paperuploader"),
		PaperAuthor:   c.Query("paperauthor"),
		Regex:         c.Query("regex") == "true" || c.Query("regex") == "True",
	}

	actor := currentActor(c)
	query := services.NewPaperSetService(config.DB).SearchQuery(params, actor).Preload("User")

	var sets []models.PaperSet
	pagination, err := utils.PaginateQuery(query, perPage, page, &sets)
	if err != nil {
		serviceError(c, err)
		return
	}

	list := make([]map[string]interface{}, 0, len(sets))
	for i := range sets {
		list = append(list, sets[i].JSON())
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": gin.H{
		"data_list":    list,
		"total_page":   pagination.TotalPages,
		"current_page": pagination.Page,
	}})
}

type paperSetMembersRequest struct {
	PaperSetID int   `json:"papersetid" binding:"required"`
	PaperIDs   []int `json:"paperid_list" binding:"required"`
}

// AddToPaperSet adds papers to a writable set, reporting the ones that
// were already members.
func AddToPaperSet(c *gin.Context) {
	var req paperSetMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "papersetid and paperid_list are required"})
		return
	}

	papers, ok := resolvePaperList(c, req.PaperIDs)
	if !ok {
		return
	}
	set, ok := resolvePaperSet(c, req.PaperSetID)
	if !ok {
		return
	}
	if !requirePaperSetAction(c, currentActor(c), set, permissions.PaperSetWrite) {
		return
	}

	alreadyIn, err := services.NewPaperSetService(config.DB).AddPapers(set, papers)
	if err != nil {
		serviceError(c, err)
		return
	}

	if len(alreadyIn) == 0 {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "all is added"})
		return
	}

	list := make([]map[string]interface{}, 0, len(alreadyIn))
	for i := range alreadyIn {
		list = append(list, alreadyIn[i].SimpleJSON())
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "warning",
		"warning": "some papers are already in paperset",
		"data":    gin.H{"already_in": list},
	})
}

// DeleteFromPaperSet removes papers from a writable set; the whole
// request fails when any paper is not a member.
func DeleteFromPaperSet(c *gin.Context) {
	var req paperSetMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "papersetid and paperid_list are required"})
		return
	}

	papers, ok := resolvePaperList(c, req.PaperIDs)
	if !ok {
		return
	}
	set, ok := resolvePaperSet(c, req.PaperSetID)
	if !ok {
		return
	}
	if !requirePaperSetAction(c, currentActor(c), set, permissions.PaperSetWrite) {
		return
	}

	if err := services.NewPaperSetService(config.DB).RemovePapers(set, papers); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "all is removed"})
}

// GetPaperSetPapers lists the member papers of a readable set.
func GetPaperSetPapers(c *gin.Context) {
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

	papers, err := services.NewPaperSetService(config.DB).Papers(set)
	if err != nil {
		serviceError(c, err)
		return
	}

	list := make([]map[string]interface{}, 0, len(papers))
	for i := range papers {
		list = append(list, papers[i].SimpleJSON())
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": gin.H{"paper_list": list}})
}
