package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trader is the person who executed a trade. Name is unique.
type Trader struct {
	ID   int64
	Name string
}

// Instrument is the traded security. ID is the ticker or ISIN and is
// supplied by the caller rather than generated.
type Instrument struct {
	ID   string
	Name string
}

// TradeDetail holds the economics of a trade. It belongs to exactly one Trade.
type TradeDetail struct {
	ID               int64
	BuySellIndicator Side
	Price            decimal.Decimal
	Quantity         int64
}

// Trade is a single executed transaction.
type Trade struct {
	TradeID       int64
	AssetClass    AssetClass
	Counterparty  *string // nil when not provided; "" is a distinct stored value
	TradeDateTime time.Time
	Detail        TradeDetail
	Instrument    Instrument
	Trader        Trader
}
