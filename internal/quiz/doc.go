// Package quiz runs interactive flashcard sessions.
//
// An Engine walks one user through one deck: it loads the deck under the
// access rule (owner, public deck, or shared with the user), builds
// multiple-choice options for each card, scores answers, and submits the
// finished traversal to the session store exactly once.
//
// Engine methods are safe for concurrent use. Store calls run without the
// engine lock held; each load and each submission carries a token, and a
// response whose token has been superseded by a later load, submission or
// reset is discarded with ErrStaleResponse instead of being applied.
package quiz
