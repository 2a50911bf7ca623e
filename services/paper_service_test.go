package services

import (
	"database/sql/driver"
	"errors"
	"reflect"
	"regexp"
	"testing"

	"paper-share-api/models"
	"paper-share-api/permissions"
)

func TestSearchQueryCombinesSubstringFiltersWithVisibility(t *testing.T) {
	pattern := regexp.MustCompile(`(?i)SELECT \* FROM .papers. WHERE papers\.title LIKE \? ` +
		`AND papers\.user_id IN \(SELECT .user_id. FROM .users. WHERE username LIKE \?\) ` +
		`AND \(papers\.private = \? OR papers\.user_id = \?\) ORDER BY papers\.paper_id ASC`)

	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: pattern,
			args:    []driver.Value{"%graph%", "%alice%", false, int64(7)},
			columns: []string{"paper_id", "user_id", "title", "private"},
			rows: [][]driver.Value{
				{int64(3), int64(7), "Graph Sketching", true},
			},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewPaperService(db)
	actor := permissions.Actor{UserID: 7}

	var papers []models.Paper
	err := svc.SearchQuery(PaperSearchParams{Title: "graph", Uploader: "alice"}, actor).Find(&papers).Error
	if err != nil {
		t.Fatalf("search returned error: %v", err)
	}

	if len(papers) != 1 || papers[0].PaperID != 3 {
		t.Fatalf("unexpected result set: %+v", papers)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestSearchQueryEscapesLikeMetacharacters(t *testing.T) {
	pattern := regexp.MustCompile(`(?i)SELECT \* FROM .papers. WHERE papers\.title LIKE \? ` +
		`AND papers\.private = \? ORDER BY papers\.paper_id ASC`)

	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: pattern,
			args:    []driver.Value{`%a\_c\%d\\e%`, false},
			columns: []string{"paper_id", "user_id", "title", "private"},
			rows:    [][]driver.Value{},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewPaperService(db)

	// "_", "%" and "\" in the input must match literally, not as LIKE
	// wildcards: a search for "a_c" may not match a title "abc".
	var papers []models.Paper
	err := svc.SearchQuery(PaperSearchParams{Title: `a_c%d\e`}, permissions.Anonymous).
		Find(&papers).Error
	if err != nil {
		t.Fatalf("search returned error: %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestSearchQueryUsesRegexpForAnonymousActor(t *testing.T) {
	pattern := regexp.MustCompile(`(?i)SELECT \* FROM .papers. WHERE papers\.title REGEXP \? ` +
		`AND papers\.private = \? ORDER BY papers\.paper_id ASC`)

	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: pattern,
			args:    []driver.Value{"^Deep", false},
			columns: []string{"paper_id", "user_id", "title", "private"},
			rows:    [][]driver.Value{},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewPaperService(db)

	var papers []models.Paper
	err := svc.SearchQuery(PaperSearchParams{Title: "^Deep", Regex: true}, permissions.Anonymous).
		Find(&papers).Error
	if err != nil {
		t.Fatalf("search returned error: %v", err)
	}
	if len(papers) != 0 {
		t.Fatalf("expected empty result, got %+v", papers)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestSearchQueryScopesToExistingPaperSet(t *testing.T) {
	setLookupPattern := regexp.MustCompile(`(?i)SELECT \* FROM .paper_sets. WHERE paper_set_id = \?`)
	memberPattern := regexp.MustCompile(`(?i)SELECT \* FROM .papers. WHERE papers\.paper_id IN ` +
		`\(SELECT .paper_id. FROM .paper_set_contents. WHERE paper_set_id = \?\) ` +
		`AND papers\.private = \? ORDER BY papers\.paper_id ASC`)

	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: setLookupPattern,
			columns: []string{"paper_set_id", "user_id", "name", "private"},
			rows: [][]driver.Value{
				{int64(5), int64(2), "reading list", false},
			},
		},
		{
			kind:    kindQuery,
			pattern: memberPattern,
			args:    []driver.Value{int64(5), false},
			columns: []string{"paper_id", "user_id", "title", "private"},
			rows: [][]driver.Value{
				{int64(11), int64(2), "Streaming Joins", false},
			},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewPaperService(db)

	var papers []models.Paper
	err := svc.SearchQuery(PaperSearchParams{PaperSetID: "5"}, permissions.Anonymous).
		Find(&papers).Error
	if err != nil {
		t.Fatalf("search returned error: %v", err)
	}
	if len(papers) != 1 || papers[0].PaperID != 11 {
		t.Fatalf("unexpected result set: %+v", papers)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestSearchQueryIgnoresMissingPaperSet(t *testing.T) {
	setLookupPattern := regexp.MustCompile(`(?i)SELECT \* FROM .paper_sets. WHERE paper_set_id = \?`)
	unrestrictedPattern := regexp.MustCompile(`(?i)SELECT \* FROM .papers. WHERE papers\.private = \? ` +
		`ORDER BY papers\.paper_id ASC`)

	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: setLookupPattern,
			columns: []string{"paper_set_id"},
			rows:    [][]driver.Value{},
		},
		{
			kind:    kindQuery,
			pattern: unrestrictedPattern,
			args:    []driver.Value{false},
			columns: []string{"paper_id", "user_id", "title", "private"},
			rows:    [][]driver.Value{},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewPaperService(db)

	var papers []models.Paper
	err := svc.SearchQuery(PaperSearchParams{PaperSetID: "999"}, permissions.Anonymous).
		Find(&papers).Error
	if err != nil {
		t.Fatalf("search returned error: %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestGetReportsNotFound(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`(?i)SELECT \* FROM .papers. WHERE paper_id = \?`),
			columns: []string{"paper_id"},
			rows:    [][]driver.Value{},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewPaperService(db)

	_, err := svc.Get(42)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestReviewAverageRoundsToOneDecimal(t *testing.T) {
	avgPattern := regexp.MustCompile(`(?i)SELECT AVG\(star\) FROM .paper_star_comments. WHERE paper_id = \?`)

	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: avgPattern,
			args:    []driver.Value{int64(9)},
			columns: []string{"AVG(star)"},
			rows:    [][]driver.Value{{float64(4.166666)}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewPaperService(db)

	avg, err := svc.ReviewAverage(9)
	if err != nil {
		t.Fatalf("ReviewAverage returned error: %v", err)
	}
	if avg != 4.2 {
		t.Fatalf("expected 4.2, got %v", avg)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestReviewAverageWithoutRatingsIsZero(t *testing.T) {
	avgPattern := regexp.MustCompile(`(?i)SELECT AVG\(star\) FROM .paper_star_comments. WHERE paper_id = \?`)

	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: avgPattern,
			args:    []driver.Value{int64(9)},
			columns: []string{"AVG(star)"},
			rows:    [][]driver.Value{{nil}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewPaperService(db)

	avg, err := svc.ReviewAverage(9)
	if err != nil {
		t.Fatalf("ReviewAverage returned error: %v", err)
	}
	if avg != 0 {
		t.Fatalf("expected 0, got %v", avg)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestRateRejectsStarOutOfRange(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	svc := NewPaperService(db)

	for _, star := range []int{0, 11, -3} {
		if _, err := svc.Rate(1, 1, star); !errors.Is(err, ErrInvalidStar) {
			t.Fatalf("star %d: expected ErrInvalidStar, got %v", star, err)
		}
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestRateCreatesFirstRatingThenUpdates(t *testing.T) {
	lookupPattern := regexp.MustCompile(`(?i)SELECT \* FROM .paper_star_comments. WHERE paper_id = \? AND user_id = \?`)

	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: lookupPattern,
			columns: []string{"comment_id", "paper_id", "user_id", "star"},
			rows:    [][]driver.Value{},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile(`(?i)INSERT INTO .paper_star_comments.`),
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
		{
			kind:    kindQuery,
			pattern: lookupPattern,
			columns: []string{"comment_id", "paper_id", "user_id", "star"},
			rows: [][]driver.Value{
				{int64(1), int64(8), int64(3), int64(4)},
			},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile(`(?i)UPDATE .paper_star_comments. SET`),
			result:  scriptedResult{rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewPaperService(db)

	created, err := svc.Rate(8, 3, 4)
	if err != nil {
		t.Fatalf("first Rate returned error: %v", err)
	}
	if !created {
		t.Fatalf("expected first rating to be created")
	}

	created, err = svc.Rate(8, 3, 9)
	if err != nil {
		t.Fatalf("second Rate returned error: %v", err)
	}
	if created {
		t.Fatalf("expected second rating to update in place")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestCiteRejectsDuplicateEdge(t *testing.T) {
	countPattern := regexp.MustCompile(`(?i)SELECT count\(\*\) FROM .paper_citations. WHERE paper_id = \? AND cited_paper_id = \?`)

	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: countPattern,
			args:    []driver.Value{int64(1), int64(2)},
			columns: []string{"count"},
			rows:    [][]driver.Value{{int64(1)}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewPaperService(db)

	if err := svc.Cite(1, 2); !errors.Is(err, ErrAlreadyCited) {
		t.Fatalf("expected ErrAlreadyCited, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestDeleteCascadesOverAllDependents(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindExec,
			pattern: regexp.MustCompile(`(?i)DELETE FROM .paper_by_scholars. WHERE paper_id = \?`),
			args:    []driver.Value{int64(7)},
			result:  scriptedResult{rowsAffected: 2},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile(`(?i)DELETE FROM .paper_citations. WHERE paper_id = \? OR cited_paper_id = \?`),
			args:    []driver.Value{int64(7), int64(7)},
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile(`(?i)DELETE FROM .paper_text_comments. WHERE paper_id = \?`),
			args:    []driver.Value{int64(7)},
			result:  scriptedResult{rowsAffected: 3},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile(`(?i)DELETE FROM .paper_star_comments. WHERE paper_id = \?`),
			args:    []driver.Value{int64(7)},
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile(`(?i)DELETE FROM .paper_set_contents. WHERE paper_id = \?`),
			args:    []driver.Value{int64(7)},
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile(`(?i)DELETE FROM .papers. WHERE .papers.\..paper_id. = \?`),
			args:    []driver.Value{int64(7)},
			result:  scriptedResult{rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewPaperService(db)

	paper := models.Paper{PaperID: 7}
	if err := svc.Delete(&paper); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	// Author links, citations in both directions, comments, ratings and
	// set memberships must all go before the paper row itself.
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestDiffScholarsReconciliation(t *testing.T) {
	cases := []struct {
		name       string
		current    []string
		target     []string
		wantAdd    []string
		wantRemove []string
	}{
		{
			name:       "replace one",
			current:    []string{"Ada Lovelace", "Alan Turing"},
			target:     []string{"Ada Lovelace", "Grace Hopper"},
			wantAdd:    []string{"Grace Hopper"},
			wantRemove: []string{"Alan Turing"},
		},
		{
			name:    "same target twice is a no-op",
			current: []string{"Ada Lovelace"},
			target:  []string{"Ada Lovelace"},
		},
		{
			name:    "empty and duplicate names are dropped",
			current: nil,
			target:  []string{"", "Ada Lovelace", "Ada Lovelace"},
			wantAdd: []string{"Ada Lovelace"},
		},
		{
			name:       "empty target clears everything",
			current:    []string{"Ada Lovelace", "Alan Turing"},
			target:     []string{},
			wantRemove: []string{"Ada Lovelace", "Alan Turing"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			toAdd, toRemove := diffScholars(tc.current, tc.target)
			if !reflect.DeepEqual(toAdd, tc.wantAdd) {
				t.Fatalf("toAdd: got %v want %v", toAdd, tc.wantAdd)
			}
			if !reflect.DeepEqual(toRemove, tc.wantRemove) {
				t.Fatalf("toRemove: got %v want %v", toRemove, tc.wantRemove)
			}
		})
	}
}

func TestPartialUpdateWithoutChangesWritesNothing(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	svc := NewPaperService(db)

	title := "Streaming Joins"
	paper := models.Paper{PaperID: 1, Title: title, Private: false}
	private := false

	changed, err := svc.PartialUpdate(&paper, PaperUpdate{Title: &title, Private: &private})
	if err != nil {
		t.Fatalf("PartialUpdate returned error: %v", err)
	}
	if changed {
		t.Fatalf("expected no change to be reported")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}
