package ticker

import (
	"context"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"frankfurt nvidia alias", "NVD.F", "NVDA"},
		{"frankfurt google class A", "GOOGL.F", "GOOGL"},
		{"frankfurt google class C", "GOOG.F", "GOOGL"},
		{"index alias", "^SPX", "^GSPC"},
		{"crypto pair", "BTCUSD", "BTC-USD"},
		{"crypto pair ether", "ETHUSD", "ETH-USD"},
		{"commodity paxg", "PAXGUSD", "PAXG-USD"},
		{"commodity gold spot", "XAUUSD", "GLD"},
		{"commodity silver spot", "XAGUSD", "SLV"},
		{"german suffix stripped", "AAPL.DE", "AAPL"},
		{"london suffix stripped", "VOD.L", "VOD"},
		{"toronto suffix stripped", "SHOP.TO", "SHOP"},
		{"plain symbol unchanged", "MSFT", "MSFT"},
		{"lowercase input", "nvd.f", "NVDA"},
		{"whitespace trimmed", "  TSLA  ", "TSLA"},
		{"empty passes through", "", ""},
		{"unknown symbol unchanged", "ZZZZ", "ZZZZ"},
		{"already canonical crypto", "BTC-USD", "BTC-USD"},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(ctx, tt.raw); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	ctx := context.Background()
	inputs := []string{"NVD.F", "BTCUSD", "AAPL.DE", "XAUUSD", "MSFT", "^SPX"}
	for _, raw := range inputs {
		once := Normalize(ctx, raw)
		twice := Normalize(ctx, once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q then %q", raw, once, twice)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"BTC-USD", "BTC-USD"},
		{"BRK/B", "BRK-B"},
		{"a b  c", "a-b-c"},
		{"--weird--", "weird"},
		{"", "reporte"},
		{"///", "reporte"},
		{"report_v1.2", "report_v1.2"},
	}

	for _, tt := range tests {
		if got := SanitizeFilename(tt.raw); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
