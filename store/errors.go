package store

import "errors"

// Sentinel errors raised by the stores before any network call is made, plus
// the user-facing mapping for comment ownership violations.
var (
	// ErrSelfSubscribe indicates an attempt to subscribe to one's own channel.
	ErrSelfSubscribe = errors.New("cannot subscribe to your own channel")

	// ErrEmptyContent indicates a comment with no content after trimming.
	ErrEmptyContent = errors.New("comment content is empty")

	// ErrSubmitInFlight indicates a comment submission is already pending
	// for this video's compose box.
	ErrSubmitInFlight = errors.New("comment submission already in flight")

	// ErrNotYourComment is the user-facing form of a 403 on comment
	// edit/delete.
	ErrNotYourComment = errors.New("not your comment")
)
