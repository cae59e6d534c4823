// Package enrich runs the per-row identity enrichment batch over a table of
// structured addresses.
package enrich

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/alanrrz/catchment-cli/pkg/identity"
)

// Status classifies the outcome of one row's lookup.
type Status string

const (
	// StatusSuccess means a well-formed, non-empty match list came back.
	StatusSuccess Status = "Success"
	// StatusNotFound means the address is valid but has no linked identity.
	StatusNotFound Status = "NotFound"
	// StatusAPIError means the service answered with a non-success status.
	StatusAPIError Status = "ApiError"
	// StatusException means a lower-level failure (network, timeout,
	// malformed response) prevented classification as an API error.
	StatusException Status = "Exception"
)

// Columns binds the caller-supplied CSV column names to address parts.
type Columns struct {
	Street string
	City   string
	State  string
	Zip    string
}

// Row is one enrichment outcome. Source carries the input row's original
// columns untouched so output tables round-trip.
type Row struct {
	Source map[string]string
	Name   string
	Phone  string
	Email  string
	Status Status
	Detail string
}

// Options tune batch behavior.
type Options struct {
	// Interval is the fixed minimum delay between successive requests.
	Interval time.Duration
	// AllMatches joins every match with Delimiter instead of taking the first.
	AllMatches bool
	Delimiter  string
}

// Enricher executes enrichment batches against an identity Client.
type Enricher struct {
	client  identity.Client
	limiter *rate.Limiter
	opts    Options
}

// New creates an Enricher. The throttle admits one request per configured
// interval regardless of how callers schedule rows.
func New(client identity.Client, opts Options) *Enricher {
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	if opts.Delimiter == "" {
		opts.Delimiter = "; "
	}
	return &Enricher{
		client:  client,
		limiter: rate.NewLimiter(rate.Every(opts.Interval), 1),
		opts:    opts,
	}
}

// Run looks up each input row once, in order, and returns one output row per
// input row. A failed row records its status and never blocks the batch; on
// cancellation the rows processed so far are returned and remain valid.
func (e *Enricher) Run(ctx context.Context, rows []map[string]string, cols Columns) ([]Row, error) {
	batchID := uuid.NewString()
	zap.L().Info("enrichment batch started",
		zap.String("batch_id", batchID),
		zap.Int("rows", len(rows)),
	)

	out := make([]Row, 0, len(rows))
	for i, source := range rows {
		if err := e.limiter.Wait(ctx); err != nil {
			zap.L().Warn("enrichment batch cancelled",
				zap.String("batch_id", batchID),
				zap.Int("completed", i),
			)
			return out, eris.Wrap(err, "enrich: batch cancelled")
		}

		row := e.lookupOne(ctx, source, cols)
		out = append(out, row)

		if row.Status != StatusSuccess && row.Status != StatusNotFound {
			zap.L().Debug("enrichment row failed",
				zap.String("batch_id", batchID),
				zap.Int("row", i),
				zap.String("status", string(row.Status)),
				zap.String("detail", row.Detail),
			)
		}
	}

	zap.L().Info("enrichment batch finished",
		zap.String("batch_id", batchID),
		zap.Int("rows", len(out)),
	)
	return out, nil
}

// lookupOne performs a single lookup and classifies its outcome.
func (e *Enricher) lookupOne(ctx context.Context, source map[string]string, cols Columns) Row {
	row := Row{Source: source}

	result, err := e.client.Lookup(ctx, identity.AddressInput{
		Street:  source[cols.Street],
		City:    source[cols.City],
		State:   source[cols.State],
		ZipCode: source[cols.Zip],
	})
	if err != nil {
		var se *identity.StatusError
		if eris.As(err, &se) {
			row.Status = StatusAPIError
			row.Detail = se.Detail
		} else {
			row.Status = StatusException
			row.Detail = err.Error()
		}
		return row
	}

	if len(result.Matches) == 0 {
		row.Status = StatusNotFound
		return row
	}

	row.Status = StatusSuccess
	if e.opts.AllMatches {
		row.Name, row.Phone, row.Email = joinMatches(result.Matches, e.opts.Delimiter)
	} else {
		first := result.Matches[0]
		row.Name, row.Phone, row.Email = first.Name, first.Phone, first.Email
	}
	return row
}

// joinMatches concatenates every match's fields with the delimiter, skipping
// blanks so the joined strings stay readable.
func joinMatches(matches []identity.Match, delim string) (name, phone, email string) {
	var names, phones, emails []string
	for _, m := range matches {
		if m.Name != "" {
			names = append(names, m.Name)
		}
		if m.Phone != "" {
			phones = append(phones, m.Phone)
		}
		if m.Email != "" {
			emails = append(emails, m.Email)
		}
	}
	return strings.Join(names, delim), strings.Join(phones, delim), strings.Join(emails, delim)
}
