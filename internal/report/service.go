package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"fundtracker/internal/date"
	"fundtracker/internal/finance"
	"fundtracker/internal/fund"
)

// ErrNoReviewer is returned by Review when no reviewer is configured.
var ErrNoReviewer = errors.New("ai review is not configured")

// Reviewer writes commentary on the rendered metrics.
type Reviewer interface {
	Review(ctx context.Context, metricsMarkdown, summaryMarkdown string) (string, error)
}

const (
	chartCacheTTL = 10 * time.Minute
	rollTimeout   = 2 * time.Minute
)

// Service serializes access to one fund for concurrent front-ends.
type Service struct {
	mu       sync.Mutex
	f        *fund.Fund
	charts   *finance.ChartCache
	reviewer Reviewer

	// Set for a rolling fund, which is replayed up to today whenever the day changes.
	src    finance.PriceSource
	params fund.Params
	trades []fund.Trade
	today  func() date.Date
}

// ServiceOption configures a rolling Service.
type ServiceOption func(*Service)

// WithClock sets the source of today's date.
func WithClock(today func() date.Date) ServiceOption {
	return func(s *Service) { s.today = today }
}

// NewService serves a fund whose valuation date is fixed.
func NewService(f *fund.Fund, reviewer Reviewer) *Service {
	return &Service{f: f, charts: finance.NewChartCache(chartCacheTTL), reviewer: reviewer, today: date.Today}
}

// NewRollingService replays trades over params up to today. On a later day the
// fund is replayed again, with every trade accepted since, before it is used.
// params.Until is ignored.
func NewRollingService(ctx context.Context, src finance.PriceSource, params fund.Params, trades []fund.Trade, reviewer Reviewer, opts ...ServiceOption) (*Service, error) {
	s := NewService(nil, reviewer)
	s.src, s.params, s.trades = src, params, slices.Clone(trades)
	for _, o := range opts {
		o(s)
	}
	f, err := s.replay(ctx, s.today())
	if err != nil {
		return nil, err
	}
	s.f = f
	return s, nil
}

func (s *Service) replay(ctx context.Context, until date.Date) (*fund.Fund, error) {
	p := s.params
	p.Until = until
	return fund.Replay(ctx, s.src, p, s.trades)
}

// roll moves a rolling fund up to today. The caller holds mu. A failed replay
// keeps the current fund.
func (s *Service) roll(ctx context.Context) {
	if s.src == nil {
		return
	}
	today := s.today()
	if !s.f.Until().Before(today) {
		return
	}
	f, err := s.replay(ctx, today)
	if err != nil {
		log.WithError(err).WithField("until", today).Warn("fund: roll forward failed")
		return
	}
	log.WithFields(log.Fields{"from": s.f.Until(), "to": today, "trades": len(s.trades)}).Info("fund: rolled forward")
	s.f = f
}

func (s *Service) rollNow() {
	if s.src == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), rollTimeout)
	defer cancel()
	s.roll(ctx)
}

func (s *Service) record(t fund.Trade) {
	if s.src != nil {
		t.Ticker = strings.ToUpper(t.Ticker)
		s.trades = append(s.trades, t)
	}
}

func (s *Service) Buy(ctx context.Context, ticker string, on date.Date, qty, price float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roll(ctx)
	if err := s.f.Buy(ctx, ticker, on, qty, price); err != nil {
		return err
	}
	s.record(fund.Trade{Action: fund.ActionBuy, Ticker: ticker, Date: on, Qty: qty, Price: price})
	return nil
}

func (s *Service) Sell(ticker string, on date.Date, qty, price float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollNow()
	if err := s.f.Sell(ticker, on, qty, price); err != nil {
		return err
	}
	s.record(fund.Trade{Action: fund.ActionSell, Ticker: ticker, Date: on, Qty: qty, Price: price})
	return nil
}

// Until is the date the fund is valued up to.
func (s *Service) Until() date.Date {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollNow()
	return s.f.Until()
}

func (s *Service) Revision() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Revision()
}

// Chart returns the performance chart, cached per valuation date and revision.
func (s *Service) Chart() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollNow()
	key := fmt.Sprintf("fund-%s-%d", s.f.Until(), s.f.Revision())
	if img, ok := s.charts.Get(key); ok {
		return img, nil
	}
	img, err := Chart(s.f)
	if err != nil {
		return nil, err
	}
	s.charts.Set(key, img)
	return img, nil
}

func (s *Service) ValuationCSV() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollNow()
	var buf bytes.Buffer
	if err := WriteValuationCSV(&buf, s.f.Table()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Service) MetricsCSV() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollNow()
	var buf bytes.Buffer
	if err := WriteMetricsCSV(&buf, s.f.MetricsTable()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Service) MetricsMarkdown() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollNow()
	return MetricsMarkdown(s.f.MetricsTable())
}

func (s *Service) SummaryMarkdown() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollNow()
	return SummaryMarkdown(s.f.Summary())
}

// Review asks the reviewer for commentary. The fund is not locked during the call.
func (s *Service) Review(ctx context.Context) (string, error) {
	if s.reviewer == nil {
		return "", ErrNoReviewer
	}
	s.mu.Lock()
	s.roll(ctx)
	metrics := MetricsMarkdown(s.f.MetricsTable())
	summary := SummaryMarkdown(s.f.Summary())
	s.mu.Unlock()

	out, err := s.reviewer.Review(ctx, metrics, summary)
	if err != nil {
		log.WithError(err).Warn("review failed")
		return "", err
	}
	return out, nil
}
