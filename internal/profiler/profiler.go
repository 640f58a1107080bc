// Package profiler turns raw column values into column, table and corpus
// level catalogue metadata.
//
// Every operation is synchronous and keeps no state between calls. A single
// Profiler may be shared by goroutines profiling different tables, since the
// knowledge base it reads is immutable.
package profiler

import (
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/tordrt/catalogue/internal/knowledge"
)

// TimestampLayout is used for profiled_at and report_date
const TimestampLayout = "2006-01-02T15:04:05Z"

var (
	// ErrMissingTableName is returned for a table without an identity
	ErrMissingTableName = errors.New("table has no name")

	// ErrEmptyCorpus is returned when aggregating zero table profiles
	ErrEmptyCorpus = errors.New("no tables were profiled")
)

// Profiler profiles columns and tables against a knowledge base
type Profiler struct {
	kb     *knowledge.Base
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Profiler
type Option func(*Profiler)

// WithClock sets the clock used for timestamps
func WithClock(now func() time.Time) Option {
	return func(p *Profiler) {
		p.now = now
	}
}

// WithLogger sets the logger used to report absorbed data problems
func WithLogger(l *slog.Logger) Option {
	return func(p *Profiler) {
		p.logger = l
	}
}

// New creates a profiler. A nil knowledge base means the built-in one.
func New(kb *knowledge.Base, opts ...Option) *Profiler {
	if kb == nil {
		kb = knowledge.Default()
	}
	p := &Profiler{
		kb:     kb,
		now:    time.Now,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Knowledge returns the knowledge base the profiler reads
func (p *Profiler) Knowledge() *knowledge.Base {
	return p.kb
}

func (p *Profiler) timestamp() string {
	return p.now().UTC().Format(TimestampLayout)
}

// round rounds x to the given number of decimal places. The float's exact
// decimal value decides the direction, so 4.35 (stored as 4.3499...) rounds
// down and true ties round half to even.
func round(x float64, places int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', places, 64), 64)
	if err != nil {
		return x
	}
	return r
}

// percent returns part/whole*100 rounded, or 0 when whole is zero
func percent(part, whole, places int) float64 {
	if whole == 0 {
		return 0
	}
	return round(float64(part)/float64(whole)*100, places)
}
