package services

import "errors"

// Sentinel errors controllers translate into HTTP statuses. Everything
// else coming out of a service is a server-side failure.
var (
	// ErrNotFound: a referenced paper/paper set/user id does not exist.
	ErrNotFound = errors.New("record does not exist")

	// ErrDuplicateTitle: paper titles are unique across all papers.
	ErrDuplicateTitle = errors.New("paper title already exists")

	// ErrAlreadyCited: the ordered (paper, cited paper) pair already exists.
	ErrAlreadyCited = errors.New("citation already recorded")

	// ErrNotInSet: removal of a paper that is not in the paper set.
	ErrNotInSet = errors.New("paper not in paperset")

	// ErrInvalidStar: rating outside the accepted range.
	ErrInvalidStar = errors.New("star must be a number between 1 and 10")
)
