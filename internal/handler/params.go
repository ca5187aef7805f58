package handler

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/efreitasn/tradeledger/internal/domain"
	"github.com/efreitasn/tradeledger/internal/query"
)

// dateLayouts are tried in order for start and end. Layouts without a zone
// are read as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTradeParams reads the optional listing parameters. Empty values are
// treated as absent.
func parseTradeParams(q url.Values) (query.Params, error) {
	p := query.Params{
		Search:        q.Get("search"),
		SortKey:       q.Get("sort_key"),
		SortDirection: q.Get("sort_direction"),
	}

	if v := q.Get("asset_class"); v != "" {
		for _, token := range strings.Split(v, ",") {
			if strings.TrimSpace(token) == "" {
				continue
			}
			class, err := domain.ParseAssetClass(token)
			if err != nil {
				return query.Params{}, err
			}
			p.AssetClasses = append(p.AssetClasses, class)
		}
		if len(p.AssetClasses) == 0 {
			return query.Params{}, &domain.ValidationError{Message: "asset_class must list at least one asset class"}
		}
	}

	var err error
	if p.Start, err = optionalDate(q, "start"); err != nil {
		return query.Params{}, err
	}
	if p.End, err = optionalDate(q, "end"); err != nil {
		return query.Params{}, err
	}

	if v := q.Get("max_price"); v != "" {
		d, err := domain.ParsePrice("max_price", v)
		if err != nil {
			return query.Params{}, err
		}
		p.MaxPrice = &d
	}
	if v := q.Get("min_price"); v != "" {
		d, err := domain.ParsePrice("min_price", v)
		if err != nil {
			return query.Params{}, err
		}
		p.MinPrice = &d
	}

	if v := q.Get("trade_type"); v != "" {
		if p.Side, err = domain.ParseSide(v); err != nil {
			return query.Params{}, err
		}
	}

	if p.Offset, err = optionalInt(q, "offset"); err != nil {
		return query.Params{}, err
	}
	if p.Limit, err = optionalInt(q, "limit"); err != nil {
		return query.Params{}, err
	}

	return p, nil
}

func optionalDate(q url.Values, key string) (*time.Time, error) {
	v := q.Get(key)
	if v == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, &domain.ValidationError{Message: fmt.Sprintf("%s must be a date (YYYY-MM-DD) or an RFC 3339 timestamp", key)}
}

func optionalInt(q url.Values, key string) (*int, error) {
	v := q.Get(key)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("%s must be a valid integer", key)}
	}
	return &n, nil
}
