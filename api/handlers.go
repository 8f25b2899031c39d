package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"wtldr/model"
	"wtldr/tldr"
)

// Summarizer runs one invocation; *tldr.Pipeline implements it.
type Summarizer interface {
	Run(ctx context.Context, inv tldr.Invocation) tldr.Response
}

// MessageLog is the write side of the message store.
type MessageLog interface {
	Insert(ctx context.Context, messages ...model.StoredMessage) (int, error)
}

// Handler serves the summarize and ingest endpoints.
type Handler struct {
	pipeline Summarizer
	messages MessageLog
}

func NewHandler(pipeline Summarizer, messages MessageLog) *Handler {
	return &Handler{pipeline: pipeline, messages: messages}
}

// TLDRRequest is the body of POST /v1/tldr.
type TLDRRequest struct {
	Platform        string `json:"platform"`
	GuildID         string `json:"guild_id"`
	Count           *int   `json:"count,omitempty"`
	User            string `json:"user,omitempty"`
	Instruction     string `json:"instruction,omitempty"`
	AnchorMessageID string `json:"anchor_message_id,omitempty"`
}

// TLDRResponse carries either the grouped reply (Status, Summary, Markup) or a
// single Text line.
type TLDRResponse struct {
	Status  string `json:"status,omitempty"`
	Summary string `json:"summary,omitempty"`
	Markup  string `json:"markup,omitempty"`
	Text    string `json:"text,omitempty"`
}

// IngestRequest is the body of POST /v1/messages.
type IngestRequest struct {
	Messages []model.StoredMessage `json:"messages"`
}

type IngestResponse struct {
	Received int `json:"received"`
	Inserted int `json:"inserted"`
}

// Summarize POST /v1/tldr
func (h *Handler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req TLDRRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid JSON")
		return
	}
	if req.Platform == "" {
		writeBadRequest(w, "platform is required")
		return
	}

	inv := &tldr.Request{
		PlatformID:     req.Platform,
		Guild:          req.GuildID,
		AnchorID:       req.AnchorMessageID,
		User:           req.User,
		Extra:          req.Instruction,
		RequestedCount: req.Count,
		OnNotice: func(_ context.Context, text string) error {
			log.Debug().Str("guild_id", req.GuildID).Msg(text)
			return nil
		},
	}

	start := time.Now()
	resp := h.pipeline.Run(r.Context(), inv)
	log.Debug().
		Str("platform", req.Platform).
		Str("guild_id", req.GuildID).
		Dur("elapsed", time.Since(start)).
		Bool("summarized", resp.Reply != nil).
		Msg("tldr request handled")

	if resp.Reply == nil {
		writeJSON(w, http.StatusOK, TLDRResponse{Text: resp.Text})
		return
	}
	writeJSON(w, http.StatusOK, TLDRResponse{
		Status:  resp.Reply.Status,
		Summary: resp.Reply.Summary,
		Markup:  resp.Reply.Markup(),
	})
}

// Ingest POST /v1/messages
func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid JSON")
		return
	}

	n, err := h.messages.Insert(r.Context(), req.Messages...)
	if errors.Is(err, model.ErrInvalidMessage) {
		writeBadRequest(w, err.Error())
		return
	}
	if err != nil {
		log.Error().Err(err).Int("messages", len(req.Messages)).Msg("ingest failed")
		writeInternalError(w, "failed to store messages")
		return
	}

	writeJSON(w, http.StatusOK, IngestResponse{Received: len(req.Messages), Inserted: n})
}

// Health GET /healthz
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
