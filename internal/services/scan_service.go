// Package services – ScanService
//
// This file implements the ScanService, which hides the reputation scanner's
// server-side asynchrony behind a single blocking call: submit the URL, then
// poll job status once per interval until the scanner reports DONE. The loop
// is an explicit state machine (submitted → polling → done | timed out |
// failed) with a hard ceiling on total wait, and it observes caller
// cancellation at every suspension point, so a disconnected client never
// leaks a background poll loop.
//
// Holding the connection open for the duration of a scan is acceptable here:
// scans are infrequent, operator-triggered actions, not a hot path.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/decoynet/go-phishsim-backend/internal/scanner"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ScanState labels a phase of the submit-then-poll lifecycle.
type ScanState string

// Lifecycle states. Submitted and Polling are transient; the other three are
// terminal for a request.
const (
	ScanSubmitted ScanState = "submitted"
	ScanPolling   ScanState = "polling"
	ScanDone      ScanState = "done"
	ScanTimedOut  ScanState = "timed_out"
	ScanFailed    ScanState = "failed"
)

var (
	// scanOutcomes counts finished scan requests by terminal state.
	scanOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "url_scan_outcomes_total",
			Help: "Total URL reputation scans by terminal state.",
		},
		[]string{"state"},
	)

	// scanPolls counts individual status polls across all scan requests.
	scanPolls = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "url_scan_polls_total",
			Help: "Total status polls issued against the reputation scanner.",
		},
	)
)

func init() {
	prometheus.MustRegister(scanOutcomes, scanPolls)
}

// ReputationScanner is the submit/poll contract of the external URL scanner.
// Implementations must honor the provided context on both calls.
type ReputationScanner interface {
	// Submit registers a URL for scanning and returns the job handle.
	Submit(ctx context.Context, url string) (string, error)
	// Status returns the current snapshot of a submitted job.
	Status(ctx context.Context, jobID string) (*scanner.JobStatus, error)
}

// ContentScanner is the contract of the email content-scanning collaborator.
type ContentScanner interface {
	// ScanEmail submits a raw message and returns the verdict verbatim.
	ScanEmail(ctx context.Context, email string) (json.RawMessage, error)
}

// ScanService coordinates URL reputation scans and delegates email content
// scans. It is safe for concurrent use.
type ScanService struct {
	// Scanner is the URL reputation collaborator.
	Scanner ReputationScanner
	// Content is the email content-scanning collaborator.
	Content ContentScanner

	// PollInterval is the pause between status polls. Values <= 0 default
	// to one second.
	PollInterval time.Duration
	// MaxWait bounds the total time spent waiting for a terminal status,
	// measured from submission. Values <= 0 default to 60 seconds.
	MaxWait time.Duration
}

// NewScanService constructs a ScanService with the default 1s/60s poll bounds.
func NewScanService(rep ReputationScanner, content ContentScanner) *ScanService {
	return &ScanService{
		Scanner:      rep,
		Content:      content,
		PollInterval: time.Second,
		MaxWait:      60 * time.Second,
	}
}

// ScanURL submits url to the reputation scanner and blocks until the job
// reaches a terminal status, returning the scanner's final payload verbatim.
//
// Failure modes map onto the stage that failed:
//   - ErrEmptyURL: no URL provided (nothing submitted).
//   - ErrScanSubmission: the submit call failed.
//   - ErrScanPoll: a status poll failed; polls are not retried.
//   - ErrScanTimeout: no terminal status within MaxWait.
//   - ctx.Err(): the caller cancelled; polling stops promptly.
func (s *ScanService) ScanURL(ctx context.Context, url string) (json.RawMessage, error) {
	tr := otel.Tracer("services/ScanService")
	ctx, span := tr.Start(ctx, "ScanURL")
	defer span.End()

	url = strings.TrimSpace(url)
	if url == "" {
		return nil, ErrEmptyURL
	}

	interval := s.PollInterval
	if interval <= 0 {
		interval = time.Second
	}
	maxWait := s.MaxWait
	if maxWait <= 0 {
		maxWait = 60 * time.Second
	}

	// The deadline covers the whole submit-and-poll exchange, including a
	// status call that hangs mid-flight.
	ctx, cancel := context.WithTimeout(ctx, maxWait)
	defer cancel()

	// Each lifecycle transition is recorded on the span, so a trace shows
	// where a scan ended up: submitted, polling, then done, timed_out or failed.
	markState(span, ScanSubmitted)
	jobID, err := s.Scanner.Submit(ctx, url)
	if err != nil {
		markState(span, ScanFailed)
		scanOutcomes.WithLabelValues(string(ScanFailed)).Inc()
		return nil, fmt.Errorf("%w: %v", ErrScanSubmission, err)
	}
	span.SetAttributes(attribute.String("scan.job_id", jobID))

	markState(span, ScanPolling)
	polls := 0
	for {
		status, err := s.Scanner.Status(ctx, jobID)
		polls++
		scanPolls.Inc()
		if err != nil {
			state := s.finishAbnormally(ctx, jobID, polls)
			markState(span, state)
			if state == ScanTimedOut {
				return nil, ErrScanTimeout
			}
			if cerr := contextError(ctx); cerr != nil {
				return nil, cerr
			}
			return nil, fmt.Errorf("%w: %v", ErrScanPoll, err)
		}

		if status.Terminal() {
			markState(span, ScanDone)
			scanOutcomes.WithLabelValues(string(ScanDone)).Inc()
			log.Debug().
				Str("job_id", jobID).
				Int("polls", polls).
				Msg("url scan finished")
			return status.Payload, nil
		}

		// Still pending: wait out the interval, or stop on deadline/cancel.
		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			state := s.finishAbnormally(ctx, jobID, polls)
			markState(span, state)
			if state == ScanTimedOut {
				return nil, ErrScanTimeout
			}
			return nil, context.Cause(ctx)
		case <-timer.C:
		}
	}
}

// markState stamps the current lifecycle state onto the request span.
func markState(span trace.Span, state ScanState) {
	span.SetAttributes(attribute.String("scan.state", string(state)))
}

// finishAbnormally records the terminal state for a poll loop that did not
// reach DONE and returns it. A deadline hit is a timeout; anything else
// (caller cancellation, transport failure) is a plain failure.
func (s *ScanService) finishAbnormally(ctx context.Context, jobID string, polls int) ScanState {
	state := ScanFailed
	if ctx.Err() == context.DeadlineExceeded {
		state = ScanTimedOut
	}
	scanOutcomes.WithLabelValues(string(state)).Inc()
	log.Warn().
		Str("job_id", jobID).
		Int("polls", polls).
		Str("state", string(state)).
		Msg("url scan did not complete")
	return state
}

// contextError returns the caller-facing error for a finished context, or nil
// when the context is still live.
func contextError(ctx context.Context) error {
	if ctx.Err() == nil {
		return nil
	}
	if ctx.Err() == context.DeadlineExceeded {
		return ErrScanTimeout
	}
	return context.Cause(ctx)
}

// ScanEmail forwards a raw message to the content-scanning collaborator and
// returns its verdict verbatim.
func (s *ScanService) ScanEmail(ctx context.Context, email string) (json.RawMessage, error) {
	tr := otel.Tracer("services/ScanService")
	ctx, span := tr.Start(ctx, "ScanEmail")
	defer span.End()

	if strings.TrimSpace(email) == "" {
		return nil, ErrEmptyContent
	}
	verdict, err := s.Content.ScanEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("content scan: %w", err)
	}
	return verdict, nil
}
