package domain

import "errors"

var (
	// ErrParseFailure is returned when a commit message does not have the merge-commit shape.
	ErrParseFailure = errors.New("commit message is not a pull request merge")
	// ErrMalformedResponse is returned when the GitHub API answers with an unexpected payload.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrRequestFailed is matched by every non-successful GitHub API call.
	ErrRequestFailed = errors.New("request failed")
	// ErrStatsPending means GitHub is still computing the statistics (HTTP 202).
	ErrStatsPending = errors.New("statistics are being computed, try again later")
	// ErrNotLoggedIn means neither the environment nor the session holds a token.
	ErrNotLoggedIn = errors.New("not logged in")
)
