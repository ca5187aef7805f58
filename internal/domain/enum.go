package domain

import (
	"fmt"
	"strings"
)

// AssetClass is the class of instrument traded.
type AssetClass string

const (
	AssetClassBond   AssetClass = "BOND"
	AssetClassEquity AssetClass = "EQUITY"
	AssetClassFX     AssetClass = "FX"
)

// AssetClasses lists every valid asset class.
var AssetClasses = []AssetClass{AssetClassBond, AssetClassEquity, AssetClassFX}

// IsValid reports whether the asset class is one of the known values.
func (a AssetClass) IsValid() bool {
	switch a {
	case AssetClassBond, AssetClassEquity, AssetClassFX:
		return true
	}
	return false
}

// Lower returns the token used in API responses, e.g. "equity".
func (a AssetClass) Lower() string {
	return strings.ToLower(string(a))
}

// ParseAssetClass parses a token in any letter case.
func ParseAssetClass(s string) (AssetClass, error) {
	a := AssetClass(strings.ToUpper(strings.TrimSpace(s)))
	if !a.IsValid() {
		return "", &ValidationError{Message: fmt.Sprintf("asset_class must be one of bond, equity, fx; got %q", s)}
	}
	return a, nil
}

// Side indicates whether a trade was a buy or a sell.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Sides lists every valid side.
var Sides = []Side{SideBuy, SideSell}

// IsValid reports whether the side is BUY or SELL.
func (s Side) IsValid() bool {
	return s == SideBuy || s == SideSell
}

// Lower returns the token used in API responses, e.g. "buy".
func (s Side) Lower() string {
	return strings.ToLower(string(s))
}

// ParseSide parses a buy/sell token in any letter case.
func ParseSide(s string) (Side, error) {
	side := Side(strings.ToUpper(strings.TrimSpace(s)))
	if !side.IsValid() {
		return "", &ValidationError{Message: fmt.Sprintf("trade_type must be buy or sell; got %q", s)}
	}
	return side, nil
}
