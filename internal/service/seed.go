package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/efreitasn/tradeledger/internal/domain"
	"github.com/efreitasn/tradeledger/internal/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Reference rows inserted on every seed run. Rows that already exist are
// skipped.
var (
	SeedTraders = []string{"bob smith", "joe blob", "john doe"}

	SeedInstruments = []domain.Instrument{
		{ID: "TSLA", Name: "Tesla"},
		{ID: "AAPL", Name: "Apple"},
		{ID: "AMZN", Name: "Amazon"},
	}

	SeedCounterparties = []string{"StockTrader", "Jeff", "Elon", ""}
)

// Random trade bounds. Prices are drawn in cents.
const (
	seedMinPriceCents = 100
	seedMaxPriceCents = 1000000
	seedMinQuantity   = 1
	seedMaxQuantity   = 100
)

// SeedService populates a store with reference rows and random trades.
type SeedService struct {
	store store.Writer
	log   logrus.FieldLogger

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// NewSeedService creates a new SeedService. rng may be nil, in which case a
// randomly seeded generator is used.
func NewSeedService(w store.Writer, log logrus.FieldLogger, rng *rand.Rand) *SeedService {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &SeedService{
		store: w,
		log:   log,
		rng:   rng,
	}
}

// Generate inserts the reference traders and instruments, then n random
// trades. It returns the number of trades created.
//
// Reference inserts are independent: a row that already exists is logged
// and skipped without aborting the run. Any other failure stops the run.
func (s *SeedService) Generate(ctx context.Context, n int) (int, error) {
	if n < 0 {
		return 0, &domain.ValidationError{Message: "number of trades must be >= 0"}
	}
	log := s.log.WithField("seed_run", uuid.NewString())

	for _, name := range SeedTraders {
		err := s.store.CreateTrader(ctx, &domain.Trader{Name: name})
		if err := skipExisting(log, err, "trader", name); err != nil {
			return 0, err
		}
	}
	for _, in := range SeedInstruments {
		in := in
		err := s.store.CreateInstrument(ctx, &in)
		if err := skipExisting(log, err, "instrument", in.ID); err != nil {
			return 0, err
		}
	}

	created := 0
	for i := 0; i < n; i++ {
		traders, err := s.store.Traders(ctx)
		if err != nil {
			return created, fmt.Errorf("seed: %w", err)
		}
		instruments, err := s.store.Instruments(ctx)
		if err != nil {
			return created, fmt.Errorf("seed: %w", err)
		}
		if len(traders) == 0 || len(instruments) == 0 {
			return created, errors.New("seed: no traders or instruments to reference")
		}

		trade := s.randomTrade(traders, instruments)
		if err := s.store.CreateTrade(ctx, trade); err != nil {
			return created, fmt.Errorf("seed: %w", err)
		}
		created++
	}

	log.WithField("trades", created).Info("seed run complete")
	return created, nil
}

func (s *SeedService) randomTrade(traders []domain.Trader, instruments []domain.Instrument) *domain.Trade {
	s.mu.Lock()
	defer s.mu.Unlock()

	counterparty := pick(s.rng, SeedCounterparties)
	cents := seedMinPriceCents + s.rng.Int64N(seedMaxPriceCents-seedMinPriceCents+1)

	return &domain.Trade{
		AssetClass:   pick(s.rng, domain.AssetClasses),
		Counterparty: &counterparty,
		Detail: domain.TradeDetail{
			BuySellIndicator: pick(s.rng, domain.Sides),
			Price:            decimal.New(cents, -domain.PricePlaces),
			Quantity:         seedMinQuantity + s.rng.Int64N(seedMaxQuantity-seedMinQuantity+1),
		},
		Trader:     pick(s.rng, traders),
		Instrument: pick(s.rng, instruments),
	}
}

func skipExisting(log logrus.FieldLogger, err error, kind, key string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrAlreadyExists) {
		log.WithFields(logrus.Fields{"kind": kind, "key": key}).Debug("reference row exists, skipping")
		return nil
	}
	return fmt.Errorf("seed %s %q: %w", kind, key, err)
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.IntN(len(items))]
}
