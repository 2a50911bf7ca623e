// Package permissions holds the pure allow/deny decisions gating every
// paper and paper-set operation. Each function takes the requesting actor
// and the entity flags; nothing in here touches the database.
package permissions

import (
	"paper-share-api/models"
)

// Actor identifies the requester. An anonymous actor has no user id and
// never owns anything.
type Actor struct {
	UserID    int
	Anonymous bool
}

// Anonymous is the actor used for unauthenticated requests.
var Anonymous = Actor{Anonymous: true}

// PaperSetAction enumerates the guarded paper-set operations.
type PaperSetAction string

const (
	PaperSetRead    PaperSetAction = "read"
	PaperSetWrite   PaperSetAction = "write"
	PaperSetComment PaperSetAction = "comment"
	PaperSetModify  PaperSetAction = "modify"
)

func (a Actor) owns(ownerID int) bool {
	return !a.Anonymous && a.UserID == ownerID
}

// CanViewPaper: the owner always may view; everyone else only when the
// paper is not private.
func CanViewPaper(actor Actor, paper *models.Paper) bool {
	return actorMayView(actor, paper.UserID, paper.Private)
}

// CanModifyPaper: edit and delete are owner-only, regardless of privacy.
func CanModifyPaper(actor Actor, paper *models.Paper) bool {
	return actor.owns(paper.UserID)
}

// CanCommentPaper covers both text comments and star ratings.
func CanCommentPaper(actor Actor, paper *models.Paper) bool {
	if actor.Anonymous {
		return false
	}
	return actor.owns(paper.UserID) || !paper.Private
}

// CanViewPaperSet mirrors CanViewPaper for paper sets.
func CanViewPaperSet(actor Actor, set *models.PaperSet) bool {
	return actorMayView(actor, set.UserID, set.Private)
}

// CanPaperSetAction evaluates a guarded paper-set operation.
//
//	read:    owner, or anyone when not private
//	write:   owner, or any authenticated user when can_modify is set
//	         (independent of private)
//	comment: owner, or any authenticated user when not private and
//	         can_comment is set
//	modify:  owner only (rename, description, flags, delete)
func CanPaperSetAction(actor Actor, set *models.PaperSet, action PaperSetAction) bool {
	switch action {
	case PaperSetRead:
		return CanViewPaperSet(actor, set)
	case PaperSetWrite:
		if actor.owns(set.UserID) {
			return true
		}
		return !actor.Anonymous && set.CanModify
	case PaperSetComment:
		if actor.owns(set.UserID) {
			return true
		}
		return !actor.Anonymous && !set.Private && set.CanComment
	case PaperSetModify:
		return actor.owns(set.UserID)
	}
	return false
}

func actorMayView(actor Actor, ownerID int, private bool) bool {
	if actor.owns(ownerID) {
		return true
	}
	return !private
}
