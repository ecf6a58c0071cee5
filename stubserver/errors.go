package stubserver

import (
	"net/http"
	"strings"

	"github.com/innexgo/hours-go/hours"
)

// codeError carries the taxonomy code a failed operation resolves to. The
// HTTP error handler encodes it as the wire contract demands: non-2xx
// status, JSON string body holding the code.
type codeError struct {
	code hours.Code
}

func fail(code hours.Code) error {
	return codeError{code: code}
}

func (e codeError) Error() string { return string(e.code) }

func statusOf(code hours.Code) int {
	switch code {
	case hours.CodeAPIKeyNonexistent, hours.CodeAPIKeyUnauthorized:
		return http.StatusUnauthorized
	case hours.CodeBadRequest, hours.CodeNegativeDuration:
		return http.StatusBadRequest
	case hours.CodeInternalServerError:
		return http.StatusInternalServerError
	case hours.CodeEmailRatelimit:
		return http.StatusTooManyRequests
	}
	switch {
	case strings.HasSuffix(string(code), "_NONEXISTENT"), code == hours.CodeNotFound:
		return http.StatusNotFound
	case strings.HasSuffix(string(code), "_EXISTENT"):
		return http.StatusConflict
	}
	// remaining domain rules (archived, expired, cannot-leave-empty, ...)
	return http.StatusForbidden
}
