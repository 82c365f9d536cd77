package marketdata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestFMP(srvURL string) *FMPClient {
	client := NewFMPClient("test-key")
	client.baseURL = srvURL
	return client
}

func TestFMPFetchProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/profile/AAPL" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("apikey") != "test-key" {
			t.Error("missing apikey parameter")
		}
		w.Write([]byte(`[{"symbol":"AAPL","companyName":"Apple Inc.","sector":"Technology",
			"currency":"USD","price":232.4,"mktCap":3500000000000}]`))
	}))
	defer srv.Close()

	profile, err := newTestFMP(srv.URL).FetchProfile(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("FetchProfile failed: %v", err)
	}
	if profile.Name != "Apple Inc." || profile.Sector != "Technology" {
		t.Errorf("unexpected profile %+v", profile)
	}
	if profile.MarketCap != 3500000000000 {
		t.Errorf("unexpected market cap %f", profile.MarketCap)
	}
}

func TestFMPFetchProfileEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := newTestFMP(srv.URL).FetchProfile(context.Background(), "ZZZZ")
	if !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestFMPFetchIncomeStatementOrdersOldestFirst(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"date":"2025-09-27","revenue":400000000000,"netIncome":100000000000},
			{"date":"2024-09-28","revenue":391000000000,"netIncome":93700000000}
		]`))
	}))
	defer srv.Close()

	st, err := newTestFMP(srv.URL).FetchIncomeStatement(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("FetchIncomeStatement failed: %v", err)
	}
	if len(st.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(st.Rows))
	}
	if st.Rows[0].Date != "2024-09-28" {
		t.Errorf("rows should be oldest first, got %q", st.Rows[0].Date)
	}
	if got := st.Rows[0].Values["Total Revenue"]; got != 391000000000 {
		t.Errorf("unexpected revenue %f", got)
	}
	if _, ok := st.Rows[0].Values["Diluted EPS"]; ok {
		t.Error("absent metric should have no entry")
	}
}

func TestFMPHTTPErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	if _, err := newTestFMP(srv.URL).FetchProfile(context.Background(), "AAPL"); err == nil {
		t.Fatal("expected error for 429 response")
	}
}
