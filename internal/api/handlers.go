// Package api provides HTTP handlers for PostForge endpoints.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/postforge/postforge/internal/models"
	"github.com/postforge/postforge/internal/post"
)

// healthResponse is the wire shape for the health endpoint.
type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSONResponse(w, http.StatusOK, healthResponse{
		Status:  "healthy",
		Service: ServiceName,
		Version: ServiceVersion,
	})
}

func (s *Server) generatePostHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.generatePostHandler: processing request", "method", r.Method, "path", r.URL.Path)
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		slog.Warn("Server.generatePostHandler: method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req models.PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.generatePostHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.ErrorResponse{Detail: "Invalid JSON format"})
		return
	}

	clientID := clientIdentity(r)
	platform := models.ParsePlatform(req.Platform)
	slog.Info("Server.generatePostHandler: request received", "client_id", clientID, "platform", platform, "topic_length", len(req.Topic))

	result, err := s.svc.Generate(r.Context(), req.Topic, platform, clientID)
	if err != nil {
		s.writeGenerateError(w, err, clientID)
		return
	}

	writeJSONResponse(w, http.StatusOK, result.ToResponse())
}

// writeGenerateError maps pre-call rejections onto HTTP statuses: validation
// failures become 400, rate limiting becomes 429. Anything else (including
// caller cancellation) is reported as an internal error.
func (s *Server) writeGenerateError(w http.ResponseWriter, err error, clientID string) {
	switch {
	case errors.Is(err, models.ErrTopicEmpty),
		errors.Is(err, models.ErrTopicTooShort),
		errors.Is(err, models.ErrTopicTooLong),
		errors.Is(err, models.ErrTopicForbidden):
		writeJSONResponse(w, http.StatusBadRequest, models.ErrorResponse{
			Detail:    err.Error(),
			ErrorCode: "validation_error",
		})
	case errors.Is(err, post.ErrRateLimited):
		limiter := s.svc.Limiter()
		writeJSONResponse(w, http.StatusTooManyRequests, models.ErrorResponse{
			Detail: fmt.Sprintf("Rate limit exceeded. Maximum %d requests per %d seconds.",
				limiter.MaxRequests(), int(limiter.Window()/time.Second)),
			ErrorCode: "rate_limit_exceeded",
		})
	default:
		slog.Error("Server.writeGenerateError: unexpected generation error", "error", err, "client_id", clientID)
		writeJSONResponse(w, http.StatusInternalServerError, models.ErrorResponse{Detail: "Internal server error"})
	}
}

// clientIdentity derives the rate-limit key for a request: the first
// comma-separated X-Forwarded-For entry when present, else the connection's
// host address, else "unknown". The precedence determines fairness behind
// proxies and must stay stable.
func clientIdentity(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if trimmed := strings.TrimSpace(first); trimmed != "" {
			return trimmed
		}
	}
	if r.RemoteAddr != "" {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			return host
		}
		return r.RemoteAddr
	}
	return "unknown"
}
