package validation

import (
	"JurisOfficeSaas/api/auth"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ExtractUserID parses the request body ONCE and extracts user_id
// This replaces repeated body parsing in every middleware
func ExtractUserID(r *http.Request) (string, error) {
	// Read body
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}
	defer r.Body.Close()

	// Try JSON first (we already have bytes)
	var reqMap map[string]interface{}
	if err := json.Unmarshal(body, &reqMap); err == nil {
		if userID, ok := reqMap["user_id"].(string); ok && userID != "" {
			// restore body for caller
			r.Body = io.NopCloser(bytes.NewBuffer(body))
			return userID, nil
		}
	}

	// Restore body so form parsing can read it
	r.Body = io.NopCloser(bytes.NewBuffer(body))
	ct := r.Header.Get("Content-Type")
	// If multipart, explicitly call ParseMultipartForm with a reasonable maxMemory
	if strings.Contains(strings.ToLower(ct), "multipart/form-data") {
		if err := r.ParseMultipartForm(32 << 20); err == nil {
			if userID := r.FormValue("user_id"); userID != "" {
				// restore body for caller
				r.Body = io.NopCloser(bytes.NewBuffer(body))
				return userID, nil
			}
		}
	} else {
		if err := r.ParseForm(); err == nil {
			if userID := r.FormValue("user_id"); userID != "" {
				// restore body for caller
				r.Body = io.NopCloser(bytes.NewBuffer(body))
				return userID, nil
			}
		}
	}

	// Ensure body is available for caller
	r.Body = io.NopCloser(bytes.NewBuffer(body))
	return "", fmt.Errorf("user_id not found in request")
}

// ValidateSession checks if the user has an active session (in-memory check, no DB)
// Returns the session object or nil if not found
func ValidateSession(userID string) *auth.UserSession {
	sessions := auth.GetActiveSessions()
	for _, s := range sessions {
		if s.UserID == userID {
			return s
		}
	}
	return nil
}

// NormalizeString trims whitespace and converts to lowercase for comparisons
func NormalizeString(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
