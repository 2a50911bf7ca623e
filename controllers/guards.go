package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"paper-share-api/config"
	"paper-share-api/middleware"
	"paper-share-api/models"
	"paper-share-api/permissions"
	"paper-share-api/services"

	"github.com/gin-gonic/gin"
)

// Request guards, applied in order at the top of each handler: resolve
// the entity first (404 when absent), then check the policy (401 when
// denied). The ordering is part of the API contract: a nonexistent id
// answers "does not exist" before any authorization runs, so id
// existence is observable to any caller. Each guard writes its own
// error response and reports whether the handler may proceed.

func parseEntityID(c *gin.Context, raw, name string) (int, bool) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": name + " must be an integer"})
		return 0, false
	}
	return id, true
}

func resolvePaper(c *gin.Context, paperID int) (*models.Paper, bool) {
	paper, err := services.NewPaperService(config.DB).Get(paperID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "failed to load paper"})
		}
		return nil, false
	}
	return paper, true
}

func resolvePaperSet(c *gin.Context, paperSetID int) (*models.PaperSet, bool) {
	set, err := services.NewPaperSetService(config.DB).Get(paperSetID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "failed to load paperset"})
		}
		return nil, false
	}
	return set, true
}

func denyUnauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "error": "user not authorized for this action"})
}

func requirePaperView(c *gin.Context, actor permissions.Actor, paper *models.Paper) bool {
	if !permissions.CanViewPaper(actor, paper) {
		denyUnauthorized(c)
		return false
	}
	return true
}

func requirePaperModify(c *gin.Context, actor permissions.Actor, paper *models.Paper) bool {
	if !permissions.CanModifyPaper(actor, paper) {
		denyUnauthorized(c)
		return false
	}
	return true
}

func requirePaperComment(c *gin.Context, actor permissions.Actor, paper *models.Paper) bool {
	if !permissions.CanCommentPaper(actor, paper) {
		denyUnauthorized(c)
		return false
	}
	return true
}

func requirePaperSetAction(c *gin.Context, actor permissions.Actor, set *models.PaperSet, action permissions.PaperSetAction) bool {
	if !permissions.CanPaperSetAction(actor, set, action) {
		denyUnauthorized(c)
		return false
	}
	return true
}

// resolvePaperList resolves a list of paper ids; every id must exist.
func resolvePaperList(c *gin.Context, paperIDs []int) ([]models.Paper, bool) {
	papers := make([]models.Paper, 0, len(paperIDs))
	for _, id := range paperIDs {
		paper, ok := resolvePaper(c, id)
		if !ok {
			return nil, false
		}
		papers = append(papers, *paper)
	}
	return papers, true
}

func currentActor(c *gin.Context) permissions.Actor {
	return middleware.CurrentActor(c)
}

// serviceError maps a service failure onto the HTTP taxonomy.
func serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "error": err.Error()})
	case errors.Is(err, services.ErrDuplicateTitle), errors.Is(err, services.ErrAlreadyCited):
		c.JSON(http.StatusConflict, gin.H{"status": "error", "error": err.Error()})
	case errors.Is(err, services.ErrNotInSet), errors.Is(err, services.ErrInvalidStar):
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "exception occured: " + err.Error()})
	}
}
