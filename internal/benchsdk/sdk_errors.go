package benchsdk

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/imroc/req/v3"
)

var (
	ErrNoRefreshToken    = errors.New("sdk: refresh token missing")
	ErrNoCredentials     = errors.New("sdk: username and password required")
	ErrNoObjectName      = errors.New("sdk: object name missing")
	ErrMalformedResponse = errors.New("sdk: malformed response")
	ErrNoUploadURL       = errors.New("sdk: presign response has no url")
)

const maxBodyPreview = 200

// APIError is returned when the server answers with an unexpected status.
// Body holds the response text so it can be shown to the operator.
type APIError struct {
	StatusCode int
	Body       string
}

func newAPIError(resp *http.Response, body string) *APIError {
	return &APIError{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(body),
	}
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("api error: %d %s", e.StatusCode, preview(e.Body))
}

// StatusCode extracts the HTTP status from an error chain, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// handleAPIError classifies a req round trip against the single status the
// endpoint is documented to return on success.
func handleAPIError(resp *req.Response, requestErr error, operation string, expected int) error {
	gotResponse := resp != nil && resp.Response != nil

	if requestErr != nil {
		if !gotResponse {
			return fmt.Errorf("%s: http request: %w", operation, requestErr)
		}
		if resp.StatusCode == expected {
			// body did not decode into the result type
			return fmt.Errorf("%s: %w: %v", operation, ErrMalformedResponse, requestErr)
		}
	}

	if resp.StatusCode != expected {
		return fmt.Errorf("%s: %w", operation, newAPIError(resp.Response, resp.String()))
	}

	return nil
}

func preview(s string) string {
	if len(s) > maxBodyPreview {
		return s[:maxBodyPreview] + "..."
	}
	return s
}
