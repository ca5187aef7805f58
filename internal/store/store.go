package store

import (
	"context"
	"fmt"

	"github.com/efreitasn/tradeledger/internal/domain"
)

// Field names a trade attribute a condition can restrict.
type Field string

const (
	FieldCounterparty     Field = "counterparty"
	FieldInstrumentName   Field = "instrument_name"
	FieldInstrumentID     Field = "instrument_id"
	FieldTraderName       Field = "trader_name"
	FieldAssetClass       Field = "asset_class"
	FieldTradeDateTime    Field = "trade_date_time"
	FieldPrice            Field = "price"
	FieldBuySellIndicator Field = "buy_sell_indicator"
)

// Op is a comparison operator.
type Op string

const (
	OpEq  Op = "eq"
	OpIn  Op = "in"
	OpLte Op = "lte"
	OpGte Op = "gte"
)

// Cond restricts trades by comparing one field to a value.
//
// Value types by field:
//
//	counterparty, instrument_name, instrument_id, trader_name: string
//	asset_class: []domain.AssetClass (OpIn)
//	trade_date_time: time.Time
//	price: decimal.Decimal
//	buy_sell_indicator: domain.Side
type Cond struct {
	Field Field
	Op    Op
	Value any
}

func (c Cond) String() string {
	return fmt.Sprintf("%s %s %v", c.Field, c.Op, c.Value)
}

// Sort keys accepted by List.
const (
	SortTradeID          = "trade_id"
	SortAssetClass       = "asset_class"
	SortCounterparty     = "counterparty"
	SortTradeDateTime    = "trade_date_time"
	SortInstrumentID     = "instrument_id"
	SortTraderID         = "trader_id"
	SortBuySellIndicator = "buy_sell_indicator"
	SortPrice            = "price"
	SortQuantity         = "quantity"
)

// SortKeys lists every key List can order by.
var SortKeys = []string{
	SortTradeID,
	SortAssetClass,
	SortCounterparty,
	SortTradeDateTime,
	SortInstrumentID,
	SortTraderID,
	SortBuySellIndicator,
	SortPrice,
	SortQuantity,
}

// IsSortKey reports whether key is accepted by List.
func IsSortKey(key string) bool {
	for _, k := range SortKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Page selects one sorted window of trades. Ties on SortKey are broken by
// trade_id ascending.
type Page struct {
	Offset  int
	Limit   int
	SortKey string
	Desc    bool
}

// Reader is the read side of the trade store.
type Reader interface {
	// Get returns domain.ErrTradeNotFound when no trade has the id.
	Get(ctx context.Context, tradeID int64) (*domain.Trade, error)
	// Find returns every trade matching all conds, ordered by trade_id.
	// It returns an empty slice when nothing matches.
	Find(ctx context.Context, conds ...Cond) ([]*domain.Trade, error)
	List(ctx context.Context, page Page) ([]*domain.Trade, error)
}

// Writer is the write side used by the seed generator.
type Writer interface {
	// CreateTrader and CreateInstrument return domain.ErrAlreadyExists on a
	// uniqueness violation.
	CreateTrader(ctx context.Context, t *domain.Trader) error
	CreateInstrument(ctx context.Context, i *domain.Instrument) error
	Traders(ctx context.Context) ([]domain.Trader, error)
	Instruments(ctx context.Context) ([]domain.Instrument, error)
	// CreateTrade stores the trade detail and then the trade, assigning
	// both identifiers. The referenced trader and instrument must exist.
	CreateTrade(ctx context.Context, t *domain.Trade) error
}

// Store is a trade store. Reads happen inside a Session, which holds one
// storage handle for the lifetime of fn and releases it however fn returns.
type Store interface {
	Writer
	Session(ctx context.Context, fn func(Reader) error) error
	Close() error
}
