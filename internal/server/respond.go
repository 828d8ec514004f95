package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/contentiq/contentiq/pkg/fetcher"
	"github.com/contentiq/contentiq/pkg/urlguard"
)

// envelope is the success wrapper around every endpoint's payload.
type envelope struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data"`
	Cached    bool      `json:"cached"`
	Timestamp time.Time `json:"timestamp"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type errorResponse struct {
	Success bool        `json:"success"`
	Error   errorDetail `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeData(w http.ResponseWriter, data any, cached bool) {
	writeJSON(w, http.StatusOK, envelope{
		Success:   true,
		Data:      data,
		Cached:    cached,
		Timestamp: time.Now().UTC(),
	})
}

func writeError(w http.ResponseWriter, status int, code, message, details string) {
	writeJSON(w, status, errorResponse{
		Success: false,
		Error:   errorDetail{Code: code, Message: message, Details: details},
	})
}

// writePipelineError maps validation, fetch, and AI failures onto HTTP
// statuses and stable error codes.
func (s *Server) writePipelineError(w http.ResponseWriter, endpoint string, err error) {
	var vErr *urlguard.ValidationError
	if errors.As(err, &vErr) {
		writeError(w, http.StatusBadRequest, "INVALID_URL", vErr.Reason, "")
		return
	}

	var fErr *fetcher.FetchError
	if errors.As(err, &fErr) {
		switch fErr.Kind {
		case fetcher.KindTimeout:
			writeError(w, http.StatusGatewayTimeout, "TIMEOUT",
				"The target URL took too long to respond. Try again or use a different URL.", "")
			return
		case fetcher.KindUpstreamStatus:
			writeError(w, http.StatusBadGateway, "UPSTREAM_ERROR",
				fmt.Sprintf("The target URL returned HTTP %d.", fErr.StatusCode),
				fmt.Sprintf("Could not fetch the page (HTTP %d).", fErr.StatusCode))
			return
		case fetcher.KindConnectionFailed:
			writeError(w, http.StatusBadGateway, "CONNECTION_FAILED",
				"Could not connect to the target URL. Verify it is accessible.", "")
			return
		case fetcher.KindUnsupportedContentType, fetcher.KindResponseTooLarge:
			writeError(w, http.StatusUnprocessableEntity, "INVALID_CONTENT", fErr.Error(), "")
			return
		}
	}

	s.logger.Error("unhandled pipeline error", "endpoint", endpoint, "error", err)
	writeError(w, http.StatusInternalServerError,
		strings.ToUpper(endpoint)+"_FAILED",
		fmt.Sprintf("An unexpected error occurred during %s.", endpoint),
		err.Error())
}

func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "INVALID_REQUEST",
			"Request body is not valid JSON.", err.Error())
		return false
	}
	return true
}
