package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/af-corp/draftgen/internal/auth"
	"github.com/af-corp/draftgen/internal/config"
	"github.com/af-corp/draftgen/internal/httputil"
	"github.com/af-corp/draftgen/internal/pipeline"
	"github.com/af-corp/draftgen/internal/types"
)

// Generator is the part of the pipeline the HTTP layer drives.
type Generator interface {
	Generate(ctx context.Context, req types.GenerationRequest) (*types.GenerationResult, error)
	Health() pipeline.HealthReport
}

// Handler holds dependencies for the HTTP handlers.
type Handler struct {
	gen     Generator
	cfg     func() *config.Config
	version string
}

func NewHandler(gen Generator, cfg func() *config.Config, version string) *Handler {
	return &Handler{gen: gen, cfg: cfg, version: version}
}

type generateResponse struct {
	Success   bool                 `json:"success"`
	RequestID string               `json:"requestId"`
	Data      []types.Draft        `json:"data"`
	Metadata  types.Metadata       `json:"metadata"`
	UserInfo  types.UserInfo       `json:"userInfo"`
	Request   types.RequestSummary `json:"request"`
}

// Generate handles POST /api/posts/generate
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")

	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		httputil.WriteAuthError(w, reqID, auth.MsgIdentityRequired)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg().Limits.MaxBodyBytes)
	defer r.Body.Close()

	var req types.GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httputil.WritePayloadTooLargeError(w, reqID, "요청 본문이 너무 큽니다.")
			return
		}
		httputil.WriteBadRequestError(w, reqID, "요청 본문이 올바른 JSON이 아닙니다.")
		return
	}

	req.RequestID = reqID
	req.CallerID = caller.ID

	slog.Info("generation requested",
		"request_id", reqID,
		"caller_id", caller.ID,
		"category", req.Category,
		"sub_category", req.SubCategory,
		"prompt_length", utf8.RuneCountInString(req.Prompt),
	)

	result, err := h.gen.Generate(r.Context(), req)
	if err != nil {
		writePipelineError(w, reqID, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, generateResponse{
		Success:   true,
		RequestID: reqID,
		Data:      result.Drafts,
		Metadata:  result.Metadata,
		UserInfo:  result.UserInfo,
		Request:   result.Request,
	})
}

func writePipelineError(w http.ResponseWriter, reqID string, err error) {
	var perr *pipeline.Error
	if !errors.As(err, &perr) {
		slog.Error("unclassified generation error", "request_id", reqID, "error", err)
		httputil.WriteInternalError(w, reqID, pipeline.MsgUnexpected)
		return
	}

	switch perr.Kind {
	case pipeline.KindValidation:
		httputil.WriteValidationError(w, reqID, perr.Message)
	case pipeline.KindServiceUnavailable:
		httputil.WriteServiceUnavailableError(w, reqID, perr.Message, perr.RetryAfter)
	case pipeline.KindParsing:
		httputil.WriteUpstreamError(w, reqID, "parsing_error", perr.Message)
	case pipeline.KindEmptyResult:
		httputil.WriteUpstreamError(w, reqID, "empty_result", perr.Message)
	case pipeline.KindUpstreamFatal:
		httputil.WriteUpstreamError(w, reqID, "upstream_error", perr.Message)
	default:
		httputil.WriteInternalError(w, reqID, perr.Message)
	}
}

type categoriesResponse struct {
	Success bool             `json:"success"`
	Data    []types.Category `json:"data"`
}

// Categories handles GET /api/posts/categories
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, categoriesResponse{
		Success: true,
		Data:    types.Categories(),
	})
}

type healthResponse struct {
	pipeline.HealthReport
	Version string `json:"version"`
}

// Health handles GET /api/health. A DEGRADED pipeline still answers 200.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, healthResponse{
		HealthReport: h.gen.Health(),
		Version:      h.version,
	})
}
