package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/efreitasn/tradeledger/internal/domain"
	"github.com/google/btree"
	"github.com/shopspring/decimal"
)

// MemoryStore is a thread-safe in-memory Store. Trades are kept in a
// B-tree ordered by trade_id so listing in identifier order needs no sort.
type MemoryStore struct {
	mu          sync.RWMutex
	trades      *btree.BTreeG[*domain.Trade]
	traders     map[int64]domain.Trader
	traderNames map[string]int64
	instruments map[string]domain.Instrument
	instrNames  map[string]string // name → id
	nextTrade   int64
	nextTrader  int64
	nextDetail  int64
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		trades: btree.NewG(32, func(a, b *domain.Trade) bool {
			return a.TradeID < b.TradeID
		}),
		traders:     make(map[int64]domain.Trader),
		traderNames: make(map[string]int64),
		instruments: make(map[string]domain.Instrument),
		instrNames:  make(map[string]string),
	}
}

// Session runs fn under a read lock, released when fn returns.
func (s *MemoryStore) Session(ctx context.Context, fn func(Reader) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(memReader{s: s})
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

// CreateTrader assigns the next trader id. Names are unique.
func (s *MemoryStore) CreateTrader(_ context.Context, t *domain.Trader) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.traderNames[t.Name]; ok {
		return fmt.Errorf("trader %q: %w", t.Name, domain.ErrAlreadyExists)
	}
	s.nextTrader++
	t.ID = s.nextTrader
	s.traders[t.ID] = *t
	s.traderNames[t.Name] = t.ID
	return nil
}

// CreateInstrument stores an instrument. Both id and name are unique.
func (s *MemoryStore) CreateInstrument(_ context.Context, i *domain.Instrument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.instruments[i.ID]; ok {
		return fmt.Errorf("instrument %q: %w", i.ID, domain.ErrAlreadyExists)
	}
	if _, ok := s.instrNames[i.Name]; ok {
		return fmt.Errorf("instrument name %q: %w", i.Name, domain.ErrAlreadyExists)
	}
	s.instruments[i.ID] = *i
	s.instrNames[i.Name] = i.ID
	return nil
}

// Traders returns all traders ordered by id.
func (s *MemoryStore) Traders(_ context.Context) ([]domain.Trader, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Trader, 0, len(s.traders))
	for _, t := range s.traders {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b domain.Trader) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

// Instruments returns all instruments ordered by id.
func (s *MemoryStore) Instruments(_ context.Context) ([]domain.Instrument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Instrument, 0, len(s.instruments))
	for _, i := range s.instruments {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b domain.Instrument) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

// CreateTrade assigns the detail and trade ids and stores a copy of t.
func (s *MemoryStore) CreateTrade(_ context.Context, t *domain.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	trader, ok := s.traders[t.Trader.ID]
	if !ok {
		return fmt.Errorf("trader %d does not exist", t.Trader.ID)
	}
	instrument, ok := s.instruments[t.Instrument.ID]
	if !ok {
		return fmt.Errorf("instrument %q does not exist", t.Instrument.ID)
	}
	if t.TradeDateTime.IsZero() {
		t.TradeDateTime = time.Now().UTC()
	}
	t.Detail.Price = domain.RoundPrice(t.Detail.Price)
	t.Trader = trader
	t.Instrument = instrument

	s.nextDetail++
	t.Detail.ID = s.nextDetail
	s.nextTrade++
	t.TradeID = s.nextTrade

	s.trades.ReplaceOrInsert(cloneTrade(t))
	return nil
}

// memReader reads from a MemoryStore whose read lock is held by Session.
type memReader struct {
	s *MemoryStore
}

func (r memReader) Get(_ context.Context, tradeID int64) (*domain.Trade, error) {
	t, ok := r.s.trades.Get(&domain.Trade{TradeID: tradeID})
	if !ok {
		return nil, domain.ErrTradeNotFound
	}
	return cloneTrade(t), nil
}

func (r memReader) Find(_ context.Context, conds ...Cond) ([]*domain.Trade, error) {
	out := make([]*domain.Trade, 0)
	var err error
	r.s.trades.Ascend(func(t *domain.Trade) bool {
		for _, c := range conds {
			var ok bool
			ok, err = matches(t, c)
			if err != nil {
				return false
			}
			if !ok {
				return true
			}
		}
		out = append(out, cloneTrade(t))
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r memReader) List(_ context.Context, page Page) ([]*domain.Trade, error) {
	all := make([]*domain.Trade, 0, r.s.trades.Len())
	iter := func(t *domain.Trade) bool {
		all = append(all, t)
		return true
	}
	if page.Desc && page.SortKey == SortTradeID {
		r.s.trades.Descend(iter)
	} else {
		r.s.trades.Ascend(iter)
	}

	if page.SortKey != SortTradeID {
		compare, ok := memComparators[page.SortKey]
		if !ok {
			return nil, fmt.Errorf("unknown sort key %q", page.SortKey)
		}
		// Stable over trade_id order keeps ties ascending by id.
		slices.SortStableFunc(all, func(a, b *domain.Trade) int {
			c := compare(a, b)
			if page.Desc {
				return -c
			}
			return c
		})
	}

	if page.Offset >= len(all) {
		return []*domain.Trade{}, nil
	}
	end := len(all)
	if page.Limit > 0 && page.Offset+page.Limit < end {
		end = page.Offset + page.Limit
	}

	out := make([]*domain.Trade, 0, end-page.Offset)
	for _, t := range all[page.Offset:end] {
		out = append(out, cloneTrade(t))
	}
	return out, nil
}

var memComparators = map[string]func(a, b *domain.Trade) int{
	SortAssetClass: func(a, b *domain.Trade) int { return cmp.Compare(a.AssetClass, b.AssetClass) },
	SortCounterparty: func(a, b *domain.Trade) int {
		switch {
		case a.Counterparty == nil && b.Counterparty == nil:
			return 0
		case a.Counterparty == nil:
			return -1
		case b.Counterparty == nil:
			return 1
		}
		return cmp.Compare(*a.Counterparty, *b.Counterparty)
	},
	SortTradeDateTime:    func(a, b *domain.Trade) int { return a.TradeDateTime.Compare(b.TradeDateTime) },
	SortInstrumentID:     func(a, b *domain.Trade) int { return cmp.Compare(a.Instrument.ID, b.Instrument.ID) },
	SortTraderID:         func(a, b *domain.Trade) int { return cmp.Compare(a.Trader.ID, b.Trader.ID) },
	SortBuySellIndicator: func(a, b *domain.Trade) int { return cmp.Compare(a.Detail.BuySellIndicator, b.Detail.BuySellIndicator) },
	SortPrice:            func(a, b *domain.Trade) int { return a.Detail.Price.Cmp(b.Detail.Price) },
	SortQuantity:         func(a, b *domain.Trade) int { return cmp.Compare(a.Detail.Quantity, b.Detail.Quantity) },
}

func matches(t *domain.Trade, c Cond) (bool, error) {
	switch c.Field {
	case FieldCounterparty:
		v, err := condString(c)
		if err != nil {
			return false, err
		}
		return t.Counterparty != nil && *t.Counterparty == v, nil
	case FieldInstrumentName:
		v, err := condString(c)
		return err == nil && t.Instrument.Name == v, err
	case FieldInstrumentID:
		v, err := condString(c)
		return err == nil && t.Instrument.ID == v, err
	case FieldTraderName:
		v, err := condString(c)
		return err == nil && t.Trader.Name == v, err
	case FieldAssetClass:
		classes, ok := c.Value.([]domain.AssetClass)
		if !ok || c.Op != OpIn {
			return false, fmt.Errorf("unsupported condition %s", c)
		}
		return slices.Contains(classes, t.AssetClass), nil
	case FieldBuySellIndicator:
		side, ok := c.Value.(domain.Side)
		if !ok || c.Op != OpEq {
			return false, fmt.Errorf("unsupported condition %s", c)
		}
		return t.Detail.BuySellIndicator == side, nil
	case FieldTradeDateTime:
		v, ok := c.Value.(time.Time)
		if !ok {
			return false, fmt.Errorf("unsupported condition %s", c)
		}
		return compareWith(c.Op, t.TradeDateTime.Compare(v))
	case FieldPrice:
		v, ok := c.Value.(decimal.Decimal)
		if !ok {
			return false, fmt.Errorf("unsupported condition %s", c)
		}
		return compareWith(c.Op, t.Detail.Price.Cmp(v))
	}
	return false, fmt.Errorf("unsupported condition %s", c)
}

func condString(c Cond) (string, error) {
	v, ok := c.Value.(string)
	if !ok || c.Op != OpEq {
		return "", fmt.Errorf("unsupported condition %s", c)
	}
	return v, nil
}

// compareWith applies a range operator to the result of a three-way compare.
func compareWith(op Op, c int) (bool, error) {
	switch op {
	case OpEq:
		return c == 0, nil
	case OpLte:
		return c <= 0, nil
	case OpGte:
		return c >= 0, nil
	}
	return false, fmt.Errorf("unsupported range operator %q", op)
}

func cloneTrade(t *domain.Trade) *domain.Trade {
	cp := *t
	if t.Counterparty != nil {
		v := *t.Counterparty
		cp.Counterparty = &v
	}
	return &cp
}
