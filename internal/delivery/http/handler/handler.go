package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/user/aimpact-scanner/internal/delivery/http/request"
	"github.com/user/aimpact-scanner/internal/delivery/http/response"
	"github.com/user/aimpact-scanner/internal/repository"
	"github.com/user/aimpact-scanner/internal/usecase"
)

type Handler struct {
	analysisManager   usecase.AnalysisManager
	checkoutInitiator usecase.CheckoutInitiator
}

func NewHandler(analysisManager usecase.AnalysisManager, checkoutInitiator usecase.CheckoutInitiator) *Handler {
	return &Handler{
		analysisManager:   analysisManager,
		checkoutInitiator: checkoutInitiator,
	}
}

// HandleAnalyzePage runs the analysis workflow synchronously. Validation
// happens before any side effect; a request missing required fields never
// touches the store.
func (h *Handler) HandleAnalyzePage(w http.ResponseWriter, r *http.Request) {
	var req request.AnalyzePageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.URL == "" || req.UserID == "" || req.AnalysisID == "" {
		h.writeJSONError(w, "url, userId and analysisId are required", http.StatusBadRequest)
		return
	}
	if _, err := url.ParseRequestURI(req.URL); err != nil {
		h.writeJSONError(w, "Invalid URL format", http.StatusBadRequest)
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		h.writeJSONError(w, "Invalid userId format", http.StatusBadRequest)
		return
	}
	analysisID, err := uuid.Parse(req.AnalysisID)
	if err != nil {
		h.writeJSONError(w, "Invalid analysisId format", http.StatusBadRequest)
		return
	}

	outcome, err := h.analysisManager.Run(r.Context(), req.URL, userID, analysisID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAnalysisNotFound):
			h.writeJSONError(w, "Analysis not found", http.StatusNotFound)
		case errors.Is(err, usecase.ErrAnalysisInFlight), errors.Is(err, repository.ErrInvalidTransition):
			h.writeJSONError(w, err.Error(), http.StatusConflict)
		default:
			slog.Error("Analysis run failed", "analysis_id", req.AnalysisID, "url", req.URL, "error", err)
			h.writeJSONError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, response.AnalyzePageResponse{
		Success:      true,
		Message:      "Analysis completed successfully",
		AnalysisID:   outcome.AnalysisID.String(),
		OverallScore: outcome.OverallScore,
		PageTitle:    outcome.PageTitle,
		FactorCount:  outcome.FactorCount,
	})
}

// HandleCreateCheckout creates a hosted checkout session for a user.
func (h *Handler) HandleCreateCheckout(w http.ResponseWriter, r *http.Request) {
	var req request.CreateCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.PriceID == "" || req.UserID == "" || req.Tier == "" {
		h.writeJSONError(w, "priceId, userId and tier are required", http.StatusBadRequest)
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		h.writeJSONError(w, "Invalid userId format", http.StatusBadRequest)
		return
	}

	outcome, err := h.checkoutInitiator.CreateSession(r.Context(), usecase.CheckoutRequest{
		PriceID:    req.PriceID,
		UserID:     userID,
		Tier:       req.Tier,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			h.writeJSONError(w, "User not found", http.StatusNotFound)
			return
		}
		slog.Error("Checkout session creation failed", "user_id", req.UserID, "error", err)
		h.writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, response.CheckoutSessionResponse{
		Success:    true,
		SessionID:  outcome.SessionID,
		URL:        outcome.URL,
		CustomerID: outcome.CustomerID,
	})
}

// HandleGetAnalysisStatus returns an analysis row with its checkpoints,
// for clients that poll over HTTP instead of reading the store directly.
func (h *Handler) HandleGetAnalysisStatus(w http.ResponseWriter, r *http.Request) {
	rawID := r.URL.Query().Get("analysisId")
	if rawID == "" {
		h.writeJSONError(w, "analysisId query parameter is required", http.StatusBadRequest)
		return
	}
	analysisID, err := uuid.Parse(rawID)
	if err != nil {
		h.writeJSONError(w, "Invalid analysisId format", http.StatusBadRequest)
		return
	}

	status, err := h.analysisManager.GetStatus(r.Context(), analysisID)
	if err != nil {
		if errors.Is(err, repository.ErrAnalysisNotFound) {
			h.writeJSONError(w, "Analysis not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to get analysis status", "analysis_id", rawID, "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := response.AnalysisStatusResponse{
		AnalysisID:   status.Analysis.ID.String(),
		URL:          status.Analysis.URL,
		Status:       string(status.Analysis.Status),
		PageTitle:    status.Analysis.PageTitle,
		OverallScore: status.Analysis.OverallScore,
		ErrorDetails: status.Analysis.ErrorDetails,
		CompletedAt:  status.Analysis.CompletedAt,
		Progress:     make([]response.ProgressEventResponse, 0, len(status.Events)),
	}
	for _, ev := range status.Events {
		resp.Progress = append(resp.Progress, response.ProgressEventResponse{
			Stage:              ev.Stage,
			ProgressPercent:    ev.ProgressPercent,
			Message:            ev.Message,
			EducationalContent: ev.EducationalContent,
			CreatedAt:          ev.CreatedAt,
		})
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, response.ErrorResponse{
		Success:   false,
		Error:     message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
