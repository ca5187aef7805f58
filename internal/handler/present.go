package handler

import (
	"strconv"
	"time"

	"github.com/efreitasn/tradeledger/internal/domain"
	"github.com/samber/lo"
)

// tradeResponse is the JSON shape of a single trade.
type tradeResponse struct {
	TradeID       string              `json:"trade_id"`
	AssetClass    string              `json:"asset_class"`
	Counterparty  *string             `json:"counterparty"`
	TradeDateTime string              `json:"trade_date_time"`
	Instrument    instrumentResponse  `json:"instrument"`
	Trader        traderResponse      `json:"trader"`
	TradeDetail   tradeDetailResponse `json:"trade_detail"`
}

type instrumentResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type traderResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type tradeDetailResponse struct {
	BuySellIndicator string  `json:"buy_sell_indicator"`
	Price            float64 `json:"price"`
	Quantity         int64   `json:"quantity"`
}

// presentTrade maps a trade to its response shape: identifiers as strings,
// enums as lowercase tokens, related entities nested.
func presentTrade(t *domain.Trade) tradeResponse {
	return tradeResponse{
		TradeID:       strconv.FormatInt(t.TradeID, 10),
		AssetClass:    t.AssetClass.Lower(),
		Counterparty:  t.Counterparty,
		TradeDateTime: t.TradeDateTime.UTC().Format(time.RFC3339Nano),
		Instrument: instrumentResponse{
			ID:   t.Instrument.ID,
			Name: t.Instrument.Name,
		},
		Trader: traderResponse{
			ID:   strconv.FormatInt(t.Trader.ID, 10),
			Name: t.Trader.Name,
		},
		TradeDetail: tradeDetailResponse{
			BuySellIndicator: t.Detail.BuySellIndicator.Lower(),
			Price:            t.Detail.Price.InexactFloat64(),
			Quantity:         t.Detail.Quantity,
		},
	}
}

func presentTrades(trades []*domain.Trade) []tradeResponse {
	return lo.Map(trades, func(t *domain.Trade, _ int) tradeResponse {
		return presentTrade(t)
	})
}
