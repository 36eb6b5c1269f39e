package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/theglobal/uren-backend-go/internal/domain/auth"
	"github.com/theglobal/uren-backend-go/internal/handler/http/response"
)

// maxBodyBytes caps JSON request bodies; clock payloads are a few hundred bytes.
const maxBodyBytes = 64 << 10

// decodeJSON reads the request body into dst and writes a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.DebugContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

// requester returns the caller set by the auth middleware, or writes a 401.
func requester(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return auth.Identity{}, false
	}
	return identity, true
}

func queryPtr(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}

// queryList accepts both repeated keys and comma separated values.
func queryList(r *http.Request, key string) []string {
	var result []string
	for _, raw := range r.URL.Query()[key] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				result = append(result, part)
			}
		}
	}
	return result
}
