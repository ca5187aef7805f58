package domain

import (
	"errors"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestParseAssetClass(t *testing.T) {
	tests := []struct {
		in      string
		want    AssetClass
		wantErr bool
	}{
		{"BOND", AssetClassBond, false},
		{"equity", AssetClassEquity, false},
		{" Fx ", AssetClassFX, false},
		{"", "", true},
		{"crypto", "", true},
	}
	for _, tt := range tests {
		got, err := ParseAssetClass(tt.in)
		if tt.wantErr {
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("ParseAssetClass(%q) expected ValidationError, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAssetClass(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAssetClass(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseSide(t *testing.T) {
	if s, err := ParseSide("buy"); err != nil || s != SideBuy {
		t.Errorf("ParseSide(buy) = %q, %v", s, err)
	}
	if s, err := ParseSide("SELL"); err != nil || s != SideSell {
		t.Errorf("ParseSide(SELL) = %q, %v", s, err)
	}
	if _, err := ParseSide("hold"); err == nil {
		t.Error("ParseSide(hold) expected error")
	}
}

func TestLowerTokens(t *testing.T) {
	if AssetClassFX.Lower() != "fx" {
		t.Errorf("FX.Lower() = %q", AssetClassFX.Lower())
	}
	if SideSell.Lower() != "sell" {
		t.Errorf("SELL.Lower() = %q", SideSell.Lower())
	}
}

func TestProperty_ParseAssetClassIgnoresCase(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.SampledFrom(AssetClasses).Draw(t, "class")
		var b strings.Builder
		for i, r := range string(a) {
			if rapid.Bool().Draw(t, "lower"+string(rune('0'+i))) {
				b.WriteString(strings.ToLower(string(r)))
			} else {
				b.WriteRune(r)
			}
		}
		got, err := ParseAssetClass(b.String())
		if err != nil {
			t.Fatalf("ParseAssetClass(%q): %v", b.String(), err)
		}
		if got != a {
			t.Fatalf("ParseAssetClass(%q) = %q, want %q", b.String(), got, a)
		}
	})
}
