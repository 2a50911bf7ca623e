package permissions

import (
	"testing"

	"paper-share-api/models"
)

var (
	owner    = Actor{UserID: 1}
	stranger = Actor{UserID: 2}
)

func TestPaperViewPolicy(t *testing.T) {
	public := &models.Paper{UserID: 1, Private: false}
	private := &models.Paper{UserID: 1, Private: true}

	cases := []struct {
		name  string
		actor Actor
		paper *models.Paper
		want  bool
	}{
		{"owner sees own private paper", owner, private, true},
		{"stranger blocked from private paper", stranger, private, false},
		{"anonymous blocked from private paper", Anonymous, private, false},
		{"stranger sees public paper", stranger, public, true},
		{"anonymous sees public paper", Anonymous, public, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanViewPaper(tc.actor, tc.paper); got != tc.want {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

func TestPaperModifyIsOwnerOnly(t *testing.T) {
	public := &models.Paper{UserID: 1, Private: false}

	if !CanModifyPaper(owner, public) {
		t.Fatalf("owner must be able to modify")
	}
	if CanModifyPaper(stranger, public) {
		t.Fatalf("non-owner must not modify, even on public papers")
	}
	if CanModifyPaper(Anonymous, public) {
		t.Fatalf("anonymous must never modify")
	}
}

func TestPaperCommentPolicy(t *testing.T) {
	public := &models.Paper{UserID: 1, Private: false}
	private := &models.Paper{UserID: 1, Private: true}

	if !CanCommentPaper(owner, private) {
		t.Fatalf("owner may comment their private paper")
	}
	if CanCommentPaper(stranger, private) {
		t.Fatalf("stranger must not comment a private paper")
	}
	if !CanCommentPaper(stranger, public) {
		t.Fatalf("stranger may comment a public paper")
	}
	if CanCommentPaper(Anonymous, public) {
		t.Fatalf("anonymous must never comment")
	}
}

func TestPaperSetActionPolicy(t *testing.T) {
	cases := []struct {
		name   string
		actor  Actor
		set    models.PaperSet
		action PaperSetAction
		want   bool
	}{
		{"owner reads own private set", owner, models.PaperSet{UserID: 1, Private: true}, PaperSetRead, true},
		{"stranger blocked from private set", stranger, models.PaperSet{UserID: 1, Private: true}, PaperSetRead, false},
		{"anonymous reads public set", Anonymous, models.PaperSet{UserID: 1}, PaperSetRead, true},

		{"owner writes regardless of flags", owner, models.PaperSet{UserID: 1}, PaperSetWrite, true},
		{"stranger writes when can_modify set", stranger, models.PaperSet{UserID: 1, CanModify: true}, PaperSetWrite, true},
		{"can_modify overrides private for writes", stranger, models.PaperSet{UserID: 1, Private: true, CanModify: true}, PaperSetWrite, true},
		{"stranger blocked without can_modify", stranger, models.PaperSet{UserID: 1}, PaperSetWrite, false},
		{"anonymous never writes", Anonymous, models.PaperSet{UserID: 1, CanModify: true}, PaperSetWrite, false},

		{"stranger comments public commentable set", stranger, models.PaperSet{UserID: 1, CanComment: true}, PaperSetComment, true},
		{"private blocks stranger comments", stranger, models.PaperSet{UserID: 1, Private: true, CanComment: true}, PaperSetComment, false},
		{"can_comment off blocks stranger comments", stranger, models.PaperSet{UserID: 1}, PaperSetComment, false},
		{"owner comments own locked set", owner, models.PaperSet{UserID: 1, Private: true}, PaperSetComment, true},
		{"anonymous never comments", Anonymous, models.PaperSet{UserID: 1, CanComment: true}, PaperSetComment, false},

		{"modify is owner only", stranger, models.PaperSet{UserID: 1, CanModify: true}, PaperSetModify, false},
		{"owner modifies", owner, models.PaperSet{UserID: 1}, PaperSetModify, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			set := tc.set
			if got := CanPaperSetAction(tc.actor, &set, tc.action); got != tc.want {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}
