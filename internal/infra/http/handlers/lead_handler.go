package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/vidhiq/vidhiq-backend/internal/infra/http/middleware"
	"github.com/vidhiq/vidhiq-backend/internal/usecase"
)

type LeadHandler struct {
	SubmitLeadUC *usecase.SubmitLeadUseCase
	rateLimiter  *RateLimiter
}

func NewLeadHandler(uc *usecase.SubmitLeadUseCase) *LeadHandler {
	return &LeadHandler{
		SubmitLeadUC: uc,
		rateLimiter:  NewRateLimiter(10, time.Minute), // 10 req/min per client
	}
}

// NewLeadHandlerWithLimiter exists for tests that need a custom window.
func NewLeadHandlerWithLimiter(uc *usecase.SubmitLeadUseCase, rl *RateLimiter) *LeadHandler {
	return &LeadHandler{SubmitLeadUC: uc, rateLimiter: rl}
}

func (h *LeadHandler) Handle(w http.ResponseWriter, r *http.Request) {
	// Fingerprint is network address plus whatever client identifier the
	// frontend sends, so shared NATs don't starve each other entirely.
	fingerprint := getClientIP(r) + "|" + r.Header.Get("X-Client-Id")

	result := h.rateLimiter.Check(fingerprint)
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	if !result.Allowed {
		middleware.RecordRateLimited()
		retryAfter := int(time.Until(result.ResetAt).Seconds()) + 1
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests, please try again later")
		return
	}

	var input usecase.SubmitLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON")
		return
	}

	output, err := h.SubmitLeadUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	middleware.RecordLeadCaptured(input.Service)
	writeJSON(w, http.StatusCreated, output)
}

// Stop releases the limiter's background sweep. Call on shutdown.
func (h *LeadHandler) Stop() {
	h.rateLimiter.Stop()
}
