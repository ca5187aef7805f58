package query

import (
	"context"
	"fmt"
	"time"

	"github.com/efreitasn/tradeledger/internal/domain"
	"github.com/efreitasn/tradeledger/internal/store"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// SortDesc is the only sort_direction value that sorts descending.
const SortDesc = "desc"

// Mode is the single retrieval mode chosen for a request.
type Mode string

const (
	ModeSearch     Mode = "search"
	ModeAssetClass Mode = "asset_class"
	ModeTradeDate  Mode = "trade_date"
	ModePrice      Mode = "price"
	ModeSide       Mode = "buy_sell"
	ModeList       Mode = "list"
)

// Params holds the optional request parameters. Zero values mean absent:
// an empty string, a nil slice, or a nil pointer.
type Params struct {
	Search        string
	AssetClasses  []domain.AssetClass
	Start         *time.Time
	End           *time.Time
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	Side          domain.Side
	Offset        *int
	Limit         *int
	SortKey       string
	SortDirection string
}

// Defaults are the pagination and sort values used by the listing mode when
// the request leaves them out.
type Defaults struct {
	Offset  int
	Limit   int
	SortKey string
}

// Plan is the outcome of composing Params: either a list of predicates whose
// results are concatenated in order, or a single page of the default listing.
type Plan struct {
	Mode       Mode
	Predicates []Predicate
	Page       store.Page
}

// Composer picks exactly one retrieval mode per request.
//
// Precedence, first match wins: search, asset_class, start/end,
// max_price/min_price, trade_type, then the default listing. Only the
// default listing sorts and paginates; every other mode returns its whole
// result set in trade_id order.
type Composer struct {
	defaults Defaults
}

// NewComposer validates the defaults and returns a Composer.
func NewComposer(d Defaults) (*Composer, error) {
	if d.Offset < 0 {
		return nil, fmt.Errorf("default offset must be >= 0, got %d", d.Offset)
	}
	if d.Limit < 1 {
		return nil, fmt.Errorf("default limit must be >= 1, got %d", d.Limit)
	}
	if !store.IsSortKey(d.SortKey) {
		return nil, fmt.Errorf("default sort key %q is not sortable", d.SortKey)
	}
	return &Composer{defaults: d}, nil
}

// Defaults returns the configured defaults.
func (c *Composer) Defaults() Defaults {
	return c.defaults
}

// Plan selects the retrieval mode for p. It never fails; parameters of a
// lower precedence than the chosen mode are ignored.
func (c *Composer) Plan(p Params) Plan {
	switch {
	case p.Search != "":
		// Results are concatenated without de-duplication, so a trade
		// matching on two criteria appears twice.
		return Plan{Mode: ModeSearch, Predicates: []Predicate{
			CounterpartySearch{Value: p.Search},
			InstrumentSearch{Value: p.Search},
			TraderSearch{Value: p.Search},
		}}
	case len(p.AssetClasses) > 0:
		return Plan{Mode: ModeAssetClass, Predicates: []Predicate{
			AssetClassFilter{Classes: lo.Uniq(p.AssetClasses)},
		}}
	case p.Start != nil || p.End != nil:
		return Plan{Mode: ModeTradeDate, Predicates: []Predicate{
			TradeDateFilter{Start: p.Start, End: p.End},
		}}
	case p.MaxPrice != nil || p.MinPrice != nil:
		return Plan{Mode: ModePrice, Predicates: []Predicate{
			PriceFilter{Min: p.MinPrice, Max: p.MaxPrice},
		}}
	case p.Side != "":
		return Plan{Mode: ModeSide, Predicates: []Predicate{
			SideFilter{Side: p.Side},
		}}
	}

	page := store.Page{
		Offset:  c.defaults.Offset,
		Limit:   c.defaults.Limit,
		SortKey: c.defaults.SortKey,
		Desc:    p.SortDirection == SortDesc,
	}
	if p.Offset != nil {
		page.Offset = *p.Offset
	}
	if p.Limit != nil {
		page.Limit = *p.Limit
	}
	if p.SortKey != "" {
		page.SortKey = p.SortKey
	}
	return Plan{Mode: ModeList, Page: page}
}

// Execute runs the plan against r.
func (c *Composer) Execute(ctx context.Context, r store.Reader, plan Plan) ([]*domain.Trade, error) {
	if plan.Mode == ModeList {
		return r.List(ctx, plan.Page)
	}

	out := make([]*domain.Trade, 0)
	for _, p := range plan.Predicates {
		trades, err := p.Apply(ctx, r)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.Name(), err)
		}
		out = append(out, trades...)
	}
	return out, nil
}
