package store

import (
	"time"

	"github.com/efreitasn/tradeledger/internal/domain"
	"github.com/shopspring/decimal"
)

type traderRow struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;type:varchar(255);not null;uniqueIndex"`
}

func (traderRow) TableName() string {
	return "traders"
}

type instrumentRow struct {
	ID   string `gorm:"column:id;primaryKey;type:varchar(32)"`
	Name string `gorm:"column:name;type:varchar(255);not null;uniqueIndex"`
}

func (instrumentRow) TableName() string {
	return "instruments"
}

type tradeDetailRow struct {
	ID               int64           `gorm:"column:id;primaryKey;autoIncrement"`
	BuySellIndicator string          `gorm:"column:buy_sell_indicator;type:varchar(8);not null"`
	Price            decimal.Decimal `gorm:"column:price;type:decimal(12,2);not null"`
	Quantity         int64           `gorm:"column:quantity;not null"`
}

func (tradeDetailRow) TableName() string {
	return "trade_details"
}

type tradeRow struct {
	TradeID       int64          `gorm:"column:trade_id;primaryKey;autoIncrement"`
	AssetClass    string         `gorm:"column:asset_class;type:varchar(16);not null;index"`
	Counterparty  *string        `gorm:"column:counterparty;type:varchar(255);index"`
	TradeDateTime time.Time      `gorm:"column:trade_date_time;not null;index"`
	DetailID      int64          `gorm:"column:trade_detail_id;not null;uniqueIndex"`
	Detail        tradeDetailRow `gorm:"foreignKey:DetailID"`
	InstrumentID  string         `gorm:"column:instrument_id;type:varchar(32);not null;index"`
	Instrument    instrumentRow  `gorm:"foreignKey:InstrumentID"`
	TraderID      int64          `gorm:"column:trader_id;not null;index"`
	Trader        traderRow      `gorm:"foreignKey:TraderID"`
}

func (tradeRow) TableName() string {
	return "trades"
}

func (r *tradeRow) toDomain() *domain.Trade {
	t := &domain.Trade{
		TradeID:       r.TradeID,
		AssetClass:    domain.AssetClass(r.AssetClass),
		TradeDateTime: r.TradeDateTime.UTC(),
		Detail: domain.TradeDetail{
			ID:               r.Detail.ID,
			BuySellIndicator: domain.Side(r.Detail.BuySellIndicator),
			Price:            r.Detail.Price,
			Quantity:         r.Detail.Quantity,
		},
		Instrument: domain.Instrument{ID: r.Instrument.ID, Name: r.Instrument.Name},
		Trader:     domain.Trader{ID: r.Trader.ID, Name: r.Trader.Name},
	}
	if r.Counterparty != nil {
		v := *r.Counterparty
		t.Counterparty = &v
	}
	return t
}
