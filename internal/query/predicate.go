package query

import (
	"context"
	"time"

	"github.com/efreitasn/tradeledger/internal/domain"
	"github.com/efreitasn/tradeledger/internal/store"
	"github.com/shopspring/decimal"
)

// Predicate restricts the full trade set by one criterion. Predicates know
// nothing about sorting or pagination and return an empty slice, not an
// error, when nothing matches.
type Predicate interface {
	Name() string
	Apply(ctx context.Context, r store.Reader) ([]*domain.Trade, error)
}

// CounterpartySearch matches the counterparty exactly (case-sensitive).
type CounterpartySearch struct {
	Value string
}

func (CounterpartySearch) Name() string { return "search_by_counterparty" }

func (p CounterpartySearch) Apply(ctx context.Context, r store.Reader) ([]*domain.Trade, error) {
	return r.Find(ctx, store.Cond{Field: store.FieldCounterparty, Op: store.OpEq, Value: p.Value})
}

// InstrumentSearch matches the instrument name, falling back to the
// instrument id only when no name matches.
type InstrumentSearch struct {
	Value string
}

func (InstrumentSearch) Name() string { return "search_by_instrument" }

func (p InstrumentSearch) Apply(ctx context.Context, r store.Reader) ([]*domain.Trade, error) {
	trades, err := r.Find(ctx, store.Cond{Field: store.FieldInstrumentName, Op: store.OpEq, Value: p.Value})
	if err != nil || len(trades) > 0 {
		return trades, err
	}
	return r.Find(ctx, store.Cond{Field: store.FieldInstrumentID, Op: store.OpEq, Value: p.Value})
}

// TraderSearch matches the trader name exactly.
type TraderSearch struct {
	Value string
}

func (TraderSearch) Name() string { return "search_by_trader" }

func (p TraderSearch) Apply(ctx context.Context, r store.Reader) ([]*domain.Trade, error) {
	return r.Find(ctx, store.Cond{Field: store.FieldTraderName, Op: store.OpEq, Value: p.Value})
}

// AssetClassFilter matches trades whose asset class is in the set.
type AssetClassFilter struct {
	Classes []domain.AssetClass
}

func (AssetClassFilter) Name() string { return "filter_by_asset_class" }

func (p AssetClassFilter) Apply(ctx context.Context, r store.Reader) ([]*domain.Trade, error) {
	return r.Find(ctx, store.Cond{Field: store.FieldAssetClass, Op: store.OpIn, Value: p.Classes})
}

// TradeDateFilter bounds trade_date_time inclusively. Start is the lower
// bound and End the upper bound; either may be nil.
type TradeDateFilter struct {
	Start *time.Time
	End   *time.Time
}

func (TradeDateFilter) Name() string { return "filter_by_trade_date" }

func (p TradeDateFilter) Apply(ctx context.Context, r store.Reader) ([]*domain.Trade, error) {
	var conds []store.Cond
	if p.End != nil {
		conds = append(conds, store.Cond{Field: store.FieldTradeDateTime, Op: store.OpLte, Value: *p.End})
	}
	if p.Start != nil {
		conds = append(conds, store.Cond{Field: store.FieldTradeDateTime, Op: store.OpGte, Value: *p.Start})
	}
	return r.Find(ctx, conds...)
}

// PriceFilter bounds the trade price inclusively; either bound may be nil.
type PriceFilter struct {
	Min *decimal.Decimal
	Max *decimal.Decimal
}

func (PriceFilter) Name() string { return "filter_by_price" }

func (p PriceFilter) Apply(ctx context.Context, r store.Reader) ([]*domain.Trade, error) {
	var conds []store.Cond
	if p.Max != nil {
		conds = append(conds, store.Cond{Field: store.FieldPrice, Op: store.OpLte, Value: *p.Max})
	}
	if p.Min != nil {
		conds = append(conds, store.Cond{Field: store.FieldPrice, Op: store.OpGte, Value: *p.Min})
	}
	return r.Find(ctx, conds...)
}

// SideFilter matches the buy/sell indicator.
type SideFilter struct {
	Side domain.Side
}

func (SideFilter) Name() string { return "filter_by_buy_sell" }

func (p SideFilter) Apply(ctx context.Context, r store.Reader) ([]*domain.Trade, error) {
	return r.Find(ctx, store.Cond{Field: store.FieldBuySellIndicator, Op: store.OpEq, Value: p.Side})
}
