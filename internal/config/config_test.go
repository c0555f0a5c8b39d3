package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundtracker/internal/date"
	"fundtracker/internal/fund"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, k := range []string{"PORT", "DB_PATH", "FUND_PLAN", "REPORT_CHAT_ID", "YAHOO_HOSTS", "YAHOO_RPS", "OPENAI_MODEL", "TELEGRAM_BOT_TOKEN", "WEBHOOK_PUBLIC_URL"} {
		t.Setenv(k, "")
	}
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9095", c.Port)
	assert.Equal(t, "/app/data/prices.db", c.DBPath)
	assert.Equal(t, "fund.yaml", c.PlanPath)
	assert.Equal(t, "gpt-4", c.OpenAIModel)
	assert.Equal(t, []string{"query1.finance.yahoo.com", "query2.finance.yahoo.com"}, c.YahooHosts)
	assert.Equal(t, 2.0, c.YahooRPS)
	assert.Zero(t, c.ReportChatID)
	assert.EqualError(t, c.RequireBot(), "missing env TELEGRAM_BOT_TOKEN, WEBHOOK_PUBLIC_URL")
}

func TestLoadFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("REPORT_CHAT_ID", "-100123")
	t.Setenv("YAHOO_HOSTS", " a.example , b.example,")
	t.Setenv("YAHOO_RPS", "0.5")
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("WEBHOOK_PUBLIC_URL", "https://bot.example")
	c, err := Load()
	require.NoError(t, err)
	assert.EqualValues(t, -100123, c.ReportChatID)
	assert.Equal(t, []string{"a.example", "b.example"}, c.YahooHosts)
	assert.Equal(t, 0.5, c.YahooRPS)
	assert.NoError(t, c.RequireBot())

	t.Setenv("REPORT_CHAT_ID", "abc")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("PORT", "")
	os.Unsetenv("PORT")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=8181\n"), 0o600))
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8181", c.Port)
}

const planYAML = `
cash: 2375706
benchmark: ^FTSE
created: 2020-05-18
strategy: dca10
risk_free_rate: 1.5
trades:
  - {action: buy,  ticker: GSK.L, date: 2020-05-18, qty: 397, price: 1670.20}
  - {action: sell, ticker: GSK.L, date: 2021-1-4, qty: 100, price: 1350}
`

func writePlan(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadPlan(t *testing.T) {
	p, err := LoadPlan(writePlan(t, "fund.yaml", planYAML))
	require.NoError(t, err)
	assert.Equal(t, fund.Params{
		Cash:            2375706,
		Benchmark:       "^FTSE",
		Created:         date.MustParse("2020-05-18"),
		Strategy:        fund.Staged10Day,
		RiskFreeRatePct: 1.5,
	}, p.Params)
	require.Len(t, p.Trades, 2)
	assert.Equal(t, fund.Trade{Action: fund.ActionSell, Ticker: "GSK.L", Date: date.MustParse("2021-01-04"), Qty: 100, Price: 1350}, p.Trades[1])
}

func TestLoadPlanDefaultsAndEnv(t *testing.T) {
	t.Setenv("FUND_UNTIL", "2021-06-30")
	p, err := LoadPlan(writePlan(t, "fund.json", `{"cash": 1000, "benchmark": "SPY", "created": "2021-01-04", "until": ""}`))
	require.NoError(t, err)
	assert.Equal(t, fund.LumpSum, p.Params.Strategy)
	assert.Equal(t, 2.5, p.Params.RiskFreeRatePct)
	assert.Equal(t, date.MustParse("2021-06-30"), p.Params.Until)
	assert.Empty(t, p.Trades)
}

func TestLoadPlanErrors(t *testing.T) {
	tests := map[string]string{
		"no cash":      `{"benchmark": "SPY", "created": "2021-01-04"}`,
		"no benchmark": `{"cash": 1, "created": "2021-01-04"}`,
		"bad date":     `{"cash": 1, "benchmark": "SPY", "created": "04/01/2021"}`,
		"bad strategy": `{"cash": 1, "benchmark": "SPY", "created": "2021-01-04", "strategy": "weekly"}`,
		"bad action":   `{"cash": 1, "benchmark": "SPY", "created": "2021-01-04", "trades": [{"action": "hold", "ticker": "X", "date": "2021-01-05"}]}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadPlan(writePlan(t, "fund.json", body))
			assert.Error(t, err)
		})
	}
	_, err := LoadPlan(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
