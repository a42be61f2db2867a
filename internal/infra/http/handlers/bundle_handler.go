package handlers

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/vidhiq/vidhiq-backend/internal/usecase"
)

type BundleHandler struct {
	IssueBundleUC     *usecase.IssueBundleUseCase
	StorageConfigured bool
}

func NewBundleHandler(uc *usecase.IssueBundleUseCase, storageConfigured bool) *BundleHandler {
	return &BundleHandler{IssueBundleUC: uc, StorageConfigured: storageConfigured}
}

func (h *BundleHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	var input usecase.IssueBundleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON")
		return
	}

	output, err := h.IssueBundleUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

// HandleHealth reports whether the object-store credential set is present.
// It never exposes which credential is missing.
func (h *BundleHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	bundles := usecase.KnownBundleTypes()
	sort.Strings(bundles)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"configured": h.StorageConfigured,
		"bundles":    bundles,
	})
}
