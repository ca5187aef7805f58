package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/efreitasn/tradeledger/internal/domain"
	"github.com/efreitasn/tradeledger/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// TradeHandler handles HTTP requests for trade endpoints.
type TradeHandler struct {
	tradeSvc *service.TradeService
	log      logrus.FieldLogger
}

// NewTradeHandler creates a new TradeHandler.
func NewTradeHandler(tradeSvc *service.TradeService, log logrus.FieldLogger) *TradeHandler {
	return &TradeHandler{tradeSvc: tradeSvc, log: log}
}

// List handles GET /trades/.
func (h *TradeHandler) List(w http.ResponseWriter, r *http.Request) {
	params, err := parseTradeParams(r.URL.Query())
	if err != nil {
		h.mapTradeError(w, r, "ListTrades", err)
		return
	}

	trades, err := h.tradeSvc.List(r.Context(), params)
	if err != nil {
		h.mapTradeError(w, r, "ListTrades", err)
		return
	}

	WriteJSON(w, http.StatusOK, presentTrades(trades))
}

// Get handles GET /trades/{trade_id}.
func (h *TradeHandler) Get(w http.ResponseWriter, r *http.Request) {
	tradeID, err := strconv.ParseInt(chi.URLParam(r, "trade_id"), 10, 64)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "validation_error", "trade_id must be an integer")
		return
	}

	trade, err := h.tradeSvc.Get(r.Context(), tradeID)
	if err != nil {
		h.mapTradeError(w, r, "GetTrade", err)
		return
	}

	WriteJSON(w, http.StatusOK, presentTrade(trade))
}

// mapTradeError maps domain errors to HTTP responses for trade endpoints.
func (h *TradeHandler) mapTradeError(w http.ResponseWriter, r *http.Request, where string, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrTradeNotFound):
		WriteError(w, http.StatusNotFound, "trade_not_found", "Trade not found")
	default:
		writeInternalError(w, requestLogger(r, h.log), where, err)
	}
}
