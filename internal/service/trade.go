package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/efreitasn/tradeledger/internal/domain"
	"github.com/efreitasn/tradeledger/internal/query"
	"github.com/efreitasn/tradeledger/internal/store"
	"github.com/sirupsen/logrus"
)

// TradeService answers trade read requests. Every call runs inside its own
// store session.
type TradeService struct {
	store    store.Store
	composer *query.Composer
	log      logrus.FieldLogger
}

// NewTradeService creates a new TradeService.
func NewTradeService(s store.Store, composer *query.Composer, log logrus.FieldLogger) *TradeService {
	return &TradeService{
		store:    s,
		composer: composer,
		log:      log,
	}
}

// Get returns the trade with the given id, or domain.ErrTradeNotFound.
func (s *TradeService) Get(ctx context.Context, tradeID int64) (*domain.Trade, error) {
	var trade *domain.Trade
	err := s.store.Session(ctx, func(r store.Reader) error {
		var err error
		trade, err = r.Get(ctx, tradeID)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrTradeNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get trade %d: %w", tradeID, err)
	}
	return trade, nil
}

// List runs the single retrieval mode selected for p.
func (s *TradeService) List(ctx context.Context, p query.Params) ([]*domain.Trade, error) {
	if p.SortKey != "" && !store.IsSortKey(p.SortKey) {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("sort_key %q is not sortable", p.SortKey)}
	}
	if p.Offset != nil && *p.Offset < 0 {
		return nil, &domain.ValidationError{Message: "offset must be >= 0"}
	}
	if p.Limit != nil && *p.Limit < 1 {
		return nil, &domain.ValidationError{Message: "limit must be >= 1"}
	}

	plan := s.composer.Plan(p)

	var trades []*domain.Trade
	err := s.store.Session(ctx, func(r store.Reader) error {
		var err error
		trades, err = s.composer.Execute(ctx, r, plan)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list trades (%s): %w", plan.Mode, err)
	}

	s.log.WithFields(logrus.Fields{
		"mode":    plan.Mode,
		"results": len(trades),
	}).Debug("trades listed")
	return trades, nil
}
