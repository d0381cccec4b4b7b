package github

import (
	"errors"
	"net/http"

	gh "github.com/google/go-github/v80/github"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

// ErrIsDirectory indicates the origin points to a directory, not a file.
var ErrIsDirectory = errors.New("github: path is a directory")

// toFetchError converts go-github errors to fetch errors carrying the
// HTTP status.
func toFetchError(origin string, resp *gh.Response, err error) error {
	status := 0
	if resp != nil && resp.Response != nil {
		status = resp.StatusCode
	}

	var rateErr *gh.RateLimitError
	var abuseErr *gh.AbuseRateLimitError
	var ghErr *gh.ErrorResponse
	switch {
	case errors.As(err, &rateErr), errors.As(err, &abuseErr):
		status = http.StatusTooManyRequests
	case errors.As(err, &ghErr) && ghErr.Response != nil:
		status = ghErr.Response.StatusCode
	}

	return &domain.FetchError{Origin: origin, Status: status, Err: err}
}
