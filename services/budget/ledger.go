package budget

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/upb/review-generator/services"
)

const dayLayout = "2006-01-02"

// Entry is the spend of one provider on one UTC day.
// Caps are configured in cents, so amounts are reported in cents as well as micros.
type Entry struct {
	Provider   string `json:"provider"`
	Date       string `json:"date"`
	Spent      Money  `json:"spent_micros"`
	Cap        Money  `json:"cap_micros"`
	SpentCents int64  `json:"spent_cents"`
	CapCents   int64  `json:"cap_cents"`
}

type ledgerKey struct {
	provider string
	date     string
}

// Ledger tracks provider spend per UTC day in memory and enforces daily caps
type Ledger struct {
	mu     sync.Mutex
	caps   map[string]Money
	spend  map[ledgerKey]Money
	now    func() time.Time
	logger *zap.Logger
}

// Option configures a Ledger
type Option func(*Ledger)

// WithClock replaces time.Now, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// NewLedger creates a ledger with daily caps given in cents. A cap <= 0 means unlimited.
func NewLedger(capsCents map[string]int64, logger *zap.Logger, opts ...Option) *Ledger {
	l := &Ledger{
		caps:   make(map[string]Money, len(capsCents)),
		spend:  make(map[ledgerKey]Money),
		now:    time.Now,
		logger: logger,
	}
	for provider, cents := range capsCents {
		if cents > 0 {
			l.caps[provider] = FromCents(cents)
		}
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) today() string {
	return l.now().UTC().Format(dayLayout)
}

// CheckBudget reports whether provider may make another billable call today
func (l *Ledger) CheckBudget(provider string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	limit, capped := l.caps[provider]
	if !capped {
		return true
	}
	return l.spend[ledgerKey{provider, l.today()}] < limit
}

// Check is CheckBudget as an error, for callers that log the skip reason
func (l *Ledger) Check(provider string) error {
	if l.CheckBudget(provider) {
		return nil
	}
	limit, _ := l.Cap(provider)
	return services.NewDomainError(services.ErrorTypeBudget,
		fmt.Sprintf("daily budget of %s spent for %s", limit, provider), services.ErrDailyBudgetExceeded).
		WithDetail("provider", provider).
		WithDetail("spent", l.Spent(provider).String())
}

// Record adds amount to today's spend for provider. Non-positive amounts are ignored.
func (l *Ledger) Record(provider string, amount Money) {
	if amount <= 0 {
		return
	}

	l.mu.Lock()
	key := ledgerKey{provider, l.today()}
	l.spend[key] += amount
	total := l.spend[key]
	limit, capped := l.caps[provider]
	l.mu.Unlock()

	if capped && total >= limit && total-amount < limit {
		l.logger.Warn("provider daily budget reached",
			zap.String("provider", provider),
			zap.String("spent", total.String()),
			zap.String("cap", limit.String()))
	}
}

// Spent returns today's spend for provider
func (l *Ledger) Spent(provider string) Money {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.spend[ledgerKey{provider, l.today()}]
}

// Cap returns the daily cap for provider; false means unlimited
func (l *Ledger) Cap(provider string) (Money, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	limit, ok := l.caps[provider]
	return limit, ok
}

// Entries returns every tracked day, newest first, then by provider
func (l *Ledger) Entries() []Entry {
	l.mu.Lock()
	entries := make([]Entry, 0, len(l.spend))
	for key, spent := range l.spend {
		limit := l.caps[key.provider]
		entries = append(entries, Entry{
			Provider:   key.provider,
			Date:       key.date,
			Spent:      spent,
			Cap:        limit,
			SpentCents: spent.Cents(),
			CapCents:   limit.Cents(),
		})
	}
	l.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date > entries[j].Date
		}
		return entries[i].Provider < entries[j].Provider
	})
	return entries
}

// CleanupOldData removes days older than the retention window and returns how many were dropped
func (l *Ledger) CleanupOldData(olderThan time.Duration) int {
	cutoff := l.now().Add(-olderThan).UTC().Format(dayLayout)

	l.mu.Lock()
	removed := 0
	for key := range l.spend {
		if key.date < cutoff {
			delete(l.spend, key)
			removed++
		}
	}
	l.mu.Unlock()

	if removed > 0 {
		l.logger.Info("cleaned up old ledger entries",
			zap.Int("entries_deleted", removed),
			zap.String("cutoff_date", cutoff))
	}
	return removed
}

// StartCleanupWorker periodically prunes old days until ctx is cancelled
func (l *Ledger) StartCleanupWorker(ctx context.Context, interval time.Duration, retention time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	l.logger.Info("started ledger cleanup worker",
		zap.Duration("interval", interval),
		zap.Duration("retention", retention))

	for {
		select {
		case <-ticker.C:
			l.CleanupOldData(retention)
		case <-ctx.Done():
			l.logger.Info("stopping ledger cleanup worker")
			return
		}
	}
}
