package api

import (
	"strings"

	"github.com/go-resty/resty/v2"
	json "github.com/json-iterator/go"

	apperrors "github.com/campuslink/campus/cli/pkg/errors"
)

// ErrorResponse is the error payload shape of the campus API
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Msg     string `json:"msg"`
}

func (r ErrorResponse) text() string {
	for _, s := range []string{r.Message, r.Error, r.Msg} {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// ParseError converts a non-2xx response into a ServerRejected error
// carrying the server message when one is present.
func ParseError(resp *resty.Response) error {
	var errResp ErrorResponse
	message := ""
	if err := json.Unmarshal(resp.Body(), &errResp); err == nil {
		message = errResp.text()
	}
	return apperrors.ServerRejected(resp.StatusCode(), message)
}

// StatusCode extracts the HTTP status of a ServerRejected error, or 0
func StatusCode(err error) int {
	if e := apperrors.Categorize(err); e != nil && e.Kind == apperrors.KindServerRejected {
		return e.StatusCode
	}
	return 0
}

// IsUnauthorized checks if error is due to missing/invalid authentication
func IsUnauthorized(err error) bool {
	return StatusCode(err) == 401
}

// IsNotFound checks if error is due to resource not found
func IsNotFound(err error) bool {
	return StatusCode(err) == 404
}

// IsServerError checks if error is due to server error (5xx)
func IsServerError(err error) bool {
	return StatusCode(err) >= 500
}
