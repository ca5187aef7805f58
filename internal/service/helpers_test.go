package service

import (
	"context"
	"io"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/efreitasn/tradeledger/internal/domain"
	"github.com/efreitasn/tradeledger/internal/query"
	"github.com/efreitasn/tradeledger/internal/store"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func newTestTradeService(t *testing.T, s store.Store) *TradeService {
	t.Helper()
	c, err := query.NewComposer(query.Defaults{Offset: 0, Limit: 100, SortKey: store.SortTradeID})
	if err != nil {
		t.Fatalf("NewComposer: %v", err)
	}
	return NewTradeService(s, c, testLogger())
}

// newFixtureStore holds trades 1 (bond/TSLA/buy), 2 (equity/AAPL/buy) and
// 3 (fx/AMZN/sell).
func newFixtureStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	ctx := context.Background()
	s := store.NewMemoryStore()
	if _, err := NewSeedService(s, testLogger(), testRand()).Generate(ctx, 0); err != nil {
		t.Fatalf("seed reference rows: %v", err)
	}

	trades := []struct {
		class  domain.AssetClass
		cp     string
		trader int64
		instr  string
		side   domain.Side
		price  string
	}{
		{domain.AssetClassBond, "StockTrader", 1, "TSLA", domain.SideBuy, "99.99"},
		{domain.AssetClassEquity, "StockTrader", 2, "AAPL", domain.SideBuy, "88.88"},
		{domain.AssetClassFX, "", 3, "AMZN", domain.SideSell, "77.77"},
	}
	for i, tr := range trades {
		cp := tr.cp
		err := s.CreateTrade(ctx, &domain.Trade{
			AssetClass:    tr.class,
			Counterparty:  &cp,
			TradeDateTime: time.Now().UTC(),
			Detail: domain.TradeDetail{
				BuySellIndicator: tr.side,
				Price:            decimal.RequireFromString(tr.price),
				Quantity:         int64(9 - i),
			},
			Instrument: domain.Instrument{ID: tr.instr},
			Trader:     domain.Trader{ID: tr.trader},
		})
		if err != nil {
			t.Fatalf("create trade: %v", err)
		}
	}
	return s
}
