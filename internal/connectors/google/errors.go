package google

import (
	"errors"
	"strconv"

	"google.golang.org/api/googleapi"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

// StatusCode returns the HTTP status of a Google API error, or 0.
func StatusCode(err error) int {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code
	}
	return 0
}

// RetryAfter returns the Retry-After seconds of a Google API error, or 0.
func RetryAfter(err error) int {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Header == nil {
		return 0
	}
	n, _ := strconv.Atoi(gerr.Header.Get("Retry-After"))
	return n
}

// ToFetchError wraps a Google API failure as a fetch error with its status.
func ToFetchError(origin string, err error) error {
	return &domain.FetchError{Origin: origin, Status: StatusCode(err), Err: err}
}
