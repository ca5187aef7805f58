package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/efreitasn/tradeledger/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// Supported SQL drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// SQLStore is a Store backed by a relational database through gorm.
type SQLStore struct {
	db *gorm.DB
}

// OpenSQL connects to the database and migrates the schema.
func OpenSQL(driver, dsn string, log *logrus.Logger) (*SQLStore, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(log, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if err := db.AutoMigrate(&traderRow{}, &instrumentRow{}, &tradeDetailRow{}, &tradeRow{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &SQLStore{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Session checks out one pooled connection for the duration of fn and
// returns it to the pool when fn returns.
func (s *SQLStore) Session(ctx context.Context, fn func(Reader) error) error {
	return s.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		return fn(sqlReader{db: conn})
	})
}

func (s *SQLStore) CreateTrader(ctx context.Context, t *domain.Trader) error {
	row := traderRow{Name: t.Name}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return translateWriteError(fmt.Sprintf("trader %q", t.Name), err)
	}
	t.ID = row.ID
	return nil
}

func (s *SQLStore) CreateInstrument(ctx context.Context, i *domain.Instrument) error {
	row := instrumentRow{ID: i.ID, Name: i.Name}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return translateWriteError(fmt.Sprintf("instrument %q", i.ID), err)
	}
	return nil
}

func (s *SQLStore) Traders(ctx context.Context) ([]domain.Trader, error) {
	var rows []traderRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list traders: %w", err)
	}
	return lo.Map(rows, func(r traderRow, _ int) domain.Trader {
		return domain.Trader{ID: r.ID, Name: r.Name}
	}), nil
}

func (s *SQLStore) Instruments(ctx context.Context) ([]domain.Instrument, error) {
	var rows []instrumentRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list instruments: %w", err)
	}
	return lo.Map(rows, func(r instrumentRow, _ int) domain.Instrument {
		return domain.Instrument{ID: r.ID, Name: r.Name}
	}), nil
}

// CreateTrade inserts the detail row and then the trade row in one
// transaction.
func (s *SQLStore) CreateTrade(ctx context.Context, t *domain.Trade) error {
	if t.TradeDateTime.IsZero() {
		t.TradeDateTime = time.Now().UTC()
	}
	t.Detail.Price = domain.RoundPrice(t.Detail.Price)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		detail := tradeDetailRow{
			BuySellIndicator: string(t.Detail.BuySellIndicator),
			Price:            t.Detail.Price,
			Quantity:         t.Detail.Quantity,
		}
		if err := tx.Create(&detail).Error; err != nil {
			return fmt.Errorf("create trade detail: %w", err)
		}

		row := tradeRow{
			AssetClass:    string(t.AssetClass),
			Counterparty:  t.Counterparty,
			TradeDateTime: t.TradeDateTime.UTC(),
			DetailID:      detail.ID,
			InstrumentID:  t.Instrument.ID,
			TraderID:      t.Trader.ID,
		}
		if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
			return fmt.Errorf("create trade: %w", err)
		}

		t.Detail.ID = detail.ID
		t.TradeID = row.TradeID
		return nil
	})
}

func translateWriteError(what string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", what, domain.ErrAlreadyExists)
	}
	return fmt.Errorf("create %s: %w", what, err)
}

// Relation aliases come from gorm's joined preloads and match the
// association field names on tradeRow.
var (
	colTradeID = clause.Column{Table: clause.CurrentTable, Name: "trade_id"}

	condColumns = map[Field]clause.Column{
		FieldCounterparty:     {Table: clause.CurrentTable, Name: "counterparty"},
		FieldInstrumentName:   {Table: "Instrument", Name: "name"},
		FieldInstrumentID:     {Table: clause.CurrentTable, Name: "instrument_id"},
		FieldTraderName:       {Table: "Trader", Name: "name"},
		FieldAssetClass:       {Table: clause.CurrentTable, Name: "asset_class"},
		FieldTradeDateTime:    {Table: clause.CurrentTable, Name: "trade_date_time"},
		FieldPrice:            {Table: "Detail", Name: "price"},
		FieldBuySellIndicator: {Table: "Detail", Name: "buy_sell_indicator"},
	}

	sortColumns = map[string]clause.Column{
		SortTradeID:          colTradeID,
		SortAssetClass:       {Table: clause.CurrentTable, Name: "asset_class"},
		SortCounterparty:     {Table: clause.CurrentTable, Name: "counterparty"},
		SortTradeDateTime:    {Table: clause.CurrentTable, Name: "trade_date_time"},
		SortInstrumentID:     {Table: clause.CurrentTable, Name: "instrument_id"},
		SortTraderID:         {Table: clause.CurrentTable, Name: "trader_id"},
		SortBuySellIndicator: {Table: "Detail", Name: "buy_sell_indicator"},
		SortPrice:            {Table: "Detail", Name: "price"},
		SortQuantity:         {Table: "Detail", Name: "quantity"},
	}
)

type sqlReader struct {
	db *gorm.DB
}

func (r sqlReader) trades(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&tradeRow{}).
		Joins("Detail").
		Joins("Instrument").
		Joins("Trader")
}

func (r sqlReader) Get(ctx context.Context, tradeID int64) (*domain.Trade, error) {
	var row tradeRow
	err := r.trades(ctx).Where(clause.Eq{Column: colTradeID, Value: tradeID}).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTradeNotFound
		}
		return nil, fmt.Errorf("get trade %d: %w", tradeID, err)
	}
	return row.toDomain(), nil
}

func (r sqlReader) Find(ctx context.Context, conds ...Cond) ([]*domain.Trade, error) {
	q := r.trades(ctx)
	for _, c := range conds {
		expr, err := condExpr(c)
		if err != nil {
			return nil, err
		}
		q = q.Where(expr)
	}

	var rows []tradeRow
	if err := q.Order(clause.OrderByColumn{Column: colTradeID}).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find trades: %w", err)
	}
	return toDomainTrades(rows), nil
}

func (r sqlReader) List(ctx context.Context, page Page) ([]*domain.Trade, error) {
	col, ok := sortColumns[page.SortKey]
	if !ok {
		return nil, fmt.Errorf("unknown sort key %q", page.SortKey)
	}
	order := clause.OrderBy{Columns: []clause.OrderByColumn{{Column: col, Desc: page.Desc}}}
	if page.SortKey != SortTradeID {
		order.Columns = append(order.Columns, clause.OrderByColumn{Column: colTradeID})
	}

	q := r.trades(ctx).Clauses(order).Offset(page.Offset)
	if page.Limit > 0 {
		q = q.Limit(page.Limit)
	}

	var rows []tradeRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	return toDomainTrades(rows), nil
}

func condExpr(c Cond) (clause.Expression, error) {
	col, ok := condColumns[c.Field]
	if !ok {
		return nil, fmt.Errorf("unsupported condition %s", c)
	}

	var value any
	switch v := c.Value.(type) {
	case string:
		value = v
	case domain.Side:
		value = string(v)
	case time.Time:
		value = v.UTC()
	case decimal.Decimal:
		value = v
	case []domain.AssetClass:
		if c.Op != OpIn {
			return nil, fmt.Errorf("unsupported condition %s", c)
		}
		return clause.IN{Column: col, Values: lo.Map(v, func(a domain.AssetClass, _ int) any {
			return string(a)
		})}, nil
	default:
		return nil, fmt.Errorf("unsupported condition %s", c)
	}

	switch c.Op {
	case OpEq:
		return clause.Eq{Column: col, Value: value}, nil
	case OpLte:
		return clause.Lte{Column: col, Value: value}, nil
	case OpGte:
		return clause.Gte{Column: col, Value: value}, nil
	}
	return nil, fmt.Errorf("unsupported condition %s", c)
}

func toDomainTrades(rows []tradeRow) []*domain.Trade {
	out := make([]*domain.Trade, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out
}
