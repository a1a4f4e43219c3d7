package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v62/github"

	"github.com/naka-gawa/github-release-stats/internal/domain"
)

// RequestError describes a GitHub API call that did not succeed.
// StatusCode is 0 when no response was received.
type RequestError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %v: %v", e.Op, domain.ErrRequestFailed, e.Err)
	}
	if e.Message == "" {
		return fmt.Sprintf("%s: %v with status %d", e.Op, domain.ErrRequestFailed, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v with status %d: %s", e.Op, domain.ErrRequestFailed, e.StatusCode, e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Is makes every RequestError match domain.ErrRequestFailed.
func (e *RequestError) Is(target error) bool {
	return target == domain.ErrRequestFailed
}

// StatusCode returns the HTTP status of a failed request, or 0.
func StatusCode(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	return 0
}

func isNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// requestError converts an error returned by go-github into the gateway's error types.
func requestError(op string, resp *github.Response, err error) error {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrMalformedResponse, err)
	}

	reqErr := &RequestError{Op: op, Err: err}
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) {
		reqErr.Message = ghErr.Message
	}
	if resp != nil && resp.Response != nil {
		reqErr.StatusCode = resp.StatusCode
	}
	return reqErr
}
