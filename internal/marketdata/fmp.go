package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"portfolio-reporter/internal/types"
)

// ErrNoData marks a provider response that was well-formed but empty for
// the requested symbol.
var ErrNoData = errors.New("provider returned no data")

// FMPClient fetches company profiles and financial statements from
// Financial Modeling Prep.
type FMPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rateLimiter
}

func NewFMPClient(apiKey string) *FMPClient {
	return &FMPClient{
		baseURL: "https://financialmodelingprep.com/api/v3",
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		// Free tier allows 250 calls/day; a slow bucket keeps bursts polite.
		limiter: newRateLimiter(5, 500*time.Millisecond),
	}
}

func (c *FMPClient) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if err := c.limiter.wait(ctx); err != nil {
		return nil, err
	}

	params.Set("apikey", c.apiKey)
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request %s: status %d", endpoint, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

type fmpProfile struct {
	Symbol      string  `json:"symbol"`
	CompanyName string  `json:"companyName"`
	Exchange    string  `json:"exchangeShortName"`
	Sector      string  `json:"sector"`
	Industry    string  `json:"industry"`
	Currency    string  `json:"currency"`
	Country     string  `json:"country"`
	Website     string  `json:"website"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	MarketCap   float64 `json:"mktCap"`
	Beta        float64 `json:"beta"`
}

// FetchProfile retrieves company identity and valuation facts.
func (c *FMPClient) FetchProfile(ctx context.Context, ticker string) (*types.CompanyProfile, error) {
	data, err := c.get(ctx, "/profile/"+url.PathEscape(ticker), url.Values{})
	if err != nil {
		return nil, err
	}

	var profiles []fmpProfile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if len(profiles) == 0 {
		return nil, ErrNoData
	}

	p := profiles[0]
	return &types.CompanyProfile{
		Symbol:      p.Symbol,
		Name:        p.CompanyName,
		Exchange:    p.Exchange,
		Sector:      p.Sector,
		Industry:    p.Industry,
		Currency:    p.Currency,
		Country:     p.Country,
		Website:     p.Website,
		Description: p.Description,
		Price:       p.Price,
		MarketCap:   p.MarketCap,
		Beta:        p.Beta,
	}, nil
}

type statementColumn struct {
	Label string
	Key   string
}

var incomeColumns = []statementColumn{
	{"Total Revenue", "revenue"},
	{"Cost Of Revenue", "costOfRevenue"},
	{"Gross Profit", "grossProfit"},
	{"Operating Income", "operatingIncome"},
	{"Net Income", "netIncome"},
	{"Diluted EPS", "epsdiluted"},
}

var balanceColumns = []statementColumn{
	{"Cash And Equivalents", "cashAndCashEquivalents"},
	{"Total Current Assets", "totalCurrentAssets"},
	{"Total Assets", "totalAssets"},
	{"Total Current Liabilities", "totalCurrentLiabilities"},
	{"Total Liabilities", "totalLiabilities"},
	{"Total Stockholders Equity", "totalStockholdersEquity"},
}

var cashFlowColumns = []statementColumn{
	{"Net Income", "netIncome"},
	{"Depreciation And Amortization", "depreciationAndAmortization"},
	{"Change In Working Capital", "changeInWorkingCapital"},
	{"Operating Cash Flow", "operatingCashFlow"},
	{"Capital Expenditure", "capitalExpenditure"},
	{"Free Cash Flow", "freeCashFlow"},
}

// FetchIncomeStatement returns the last annual income statements.
func (c *FMPClient) FetchIncomeStatement(ctx context.Context, ticker string) (*types.FinancialStatement, error) {
	return c.fetchStatement(ctx, "/income-statement/", ticker, incomeColumns)
}

// FetchBalanceSheet returns the last annual balance sheets.
func (c *FMPClient) FetchBalanceSheet(ctx context.Context, ticker string) (*types.FinancialStatement, error) {
	return c.fetchStatement(ctx, "/balance-sheet-statement/", ticker, balanceColumns)
}

// FetchCashFlow returns the last annual cash flow statements.
func (c *FMPClient) FetchCashFlow(ctx context.Context, ticker string) (*types.FinancialStatement, error) {
	return c.fetchStatement(ctx, "/cash-flow-statement/", ticker, cashFlowColumns)
}

func (c *FMPClient) fetchStatement(ctx context.Context, endpoint, ticker string, columns []statementColumn) (*types.FinancialStatement, error) {
	params := url.Values{}
	params.Set("limit", "4")
	params.Set("period", "annual")

	data, err := c.get(ctx, endpoint+url.PathEscape(ticker), params)
	if err != nil {
		return nil, err
	}

	var periods []map[string]any
	if err := json.Unmarshal(data, &periods); err != nil {
		return nil, fmt.Errorf("decode statement: %w", err)
	}
	if len(periods) == 0 {
		return nil, ErrNoData
	}

	st := &types.FinancialStatement{}
	for _, col := range columns {
		st.Columns = append(st.Columns, col.Label)
	}
	for _, period := range periods {
		date, _ := period["date"].(string)
		row := types.StatementRow{Date: date, Values: make(map[string]float64)}
		for _, col := range columns {
			if v, ok := period[col.Key].(float64); ok {
				row.Values[col.Label] = v
			}
		}
		st.Rows = append(st.Rows, row)
	}

	// FMP returns newest first; reports read oldest to newest.
	sort.Slice(st.Rows, func(i, j int) bool { return st.Rows[i].Date < st.Rows[j].Date })
	return st, nil
}
