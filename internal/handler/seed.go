package handler

import (
	"errors"
	"net/http"

	"github.com/efreitasn/tradeledger/internal/domain"
	"github.com/efreitasn/tradeledger/internal/service"
	"github.com/sirupsen/logrus"
)

// SeedHandler triggers sample data generation.
type SeedHandler struct {
	seedSvc   *service.SeedService
	batchSize int
	log       logrus.FieldLogger
}

// NewSeedHandler creates a SeedHandler that generates batchSize trades per
// request.
func NewSeedHandler(seedSvc *service.SeedService, batchSize int, log logrus.FieldLogger) *SeedHandler {
	return &SeedHandler{seedSvc: seedSvc, batchSize: batchSize, log: log}
}

// seedResponse is the JSON response for a successful seed run.
type seedResponse struct {
	Status    string `json:"status"`
	Generated int    `json:"generated"`
}

// Generate handles GET /generate_10_random_trades/.
func (h *SeedHandler) Generate(w http.ResponseWriter, r *http.Request) {
	n, err := h.seedSvc.Generate(r.Context(), h.batchSize)
	if err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
			return
		}
		requestLogger(r, h.log).WithFields(logrus.Fields{
			"generated": n,
			"error":     err.Error(),
		}).Error("seed run failed")
		WriteError(w, http.StatusInternalServerError, "seed_failed", "Something went wrong")
		return
	}

	WriteJSON(w, http.StatusOK, seedResponse{Status: "ok", Generated: n})
}
