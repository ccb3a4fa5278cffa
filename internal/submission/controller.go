// Package submission sends a completed form to the qualification service and
// turns whatever happens into a QualificationResult. Callers never see a
// transport error: they get a result, possibly with Error set, or one of the
// refusal errors below when nothing was sent.
package submission

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"go-qualifier/internal/form"
	"go-qualifier/internal/metrics"
	"go-qualifier/internal/models"
	"go-qualifier/internal/qualifier"
)

var (
	// ErrIncomplete means the form cannot be submitted yet.
	ErrIncomplete = errors.New("qualification request is incomplete")
	// ErrInFlight means another submission has not settled yet.
	ErrInFlight = errors.New("a qualification request is already in progress")
)

const fallbackErrorMessage = "unknown error while contacting the qualification service"

// Qualifier is the external qualification service.
type Qualifier interface {
	Qualify(ctx context.Context, req models.QualificationRequest) (models.QualificationResult, error)
}

// Progress is told when a submission starts waiting on the service and
// when its result is ready.
type Progress interface {
	Started()
	Settled(result models.QualificationResult)
}

// ProgressFuncs adapts plain functions to Progress. Nil fields are skipped.
type ProgressFuncs struct {
	OnStarted func()
	OnSettled func(models.QualificationResult)
}

func (p ProgressFuncs) Started() {
	if p.OnStarted != nil {
		p.OnStarted()
	}
}

func (p ProgressFuncs) Settled(r models.QualificationResult) {
	if p.OnSettled != nil {
		p.OnSettled(r)
	}
}

type Controller struct {
	qualifier Qualifier
	logger    zerolog.Logger
	recorder  metrics.Recorder
	now       func() time.Time

	inFlight atomic.Bool
}

type Option func(*Controller)

func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

func WithRecorder(r metrics.Recorder) Option {
	return func(c *Controller) {
		if r != nil {
			c.recorder = r
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func NewController(q Qualifier, opts ...Option) *Controller {
	c := &Controller{
		qualifier: q,
		logger:    zerolog.Nop(),
		recorder:  metrics.Nop{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) InFlight() bool {
	return c.inFlight.Load()
}

// Submit sends the form's active request and waits for the outcome. It
// returns ErrIncomplete or ErrInFlight without contacting the service;
// otherwise the error is always nil and the result carries any failure.
func (c *Controller) Submit(ctx context.Context, f *form.Form, p Progress) (models.QualificationResult, error) {
	return c.SubmitWithID(ctx, uuid.NewString(), f, p)
}

// SubmitWithID is Submit with a caller-chosen submission ID.
func (c *Controller) SubmitWithID(ctx context.Context, id string, f *form.Form, p Progress) (models.QualificationResult, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return models.QualificationResult{}, ErrInFlight
	}
	defer c.inFlight.Store(false)

	req, ok := f.Request()
	if !ok {
		return models.QualificationResult{}, ErrIncomplete
	}
	if p == nil {
		p = ProgressFuncs{}
	}

	mode := f.Mode().String()
	log := c.logger.With().Str("submission_id", id).Str("mode", mode).Logger()

	log.Info().Str("person", req.Person()).Msg("submission started")
	c.recorder.SubmissionStarted(mode)
	p.Started()

	start := c.now()
	res, err := c.qualifier.Qualify(ctx, req)
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = classify(err)
		res = models.FailedResult(req.Person(), failureMessage(err), c.now())
		log.Warn().Err(err).Str("outcome", outcome).Msg("qualification failed")
	}
	elapsed := c.now().Sub(start)

	c.recorder.SubmissionSettled(mode, outcome, elapsed)
	log.Info().
		Str("outcome", outcome).
		Float64("score", res.QualificationScore).
		Dur("latency", elapsed).
		Msg("submission settled")
	p.Settled(res)

	return res, nil
}

func classify(err error) string {
	var se *qualifier.StatusError
	if errors.As(err, &se) {
		return metrics.OutcomeServiceError
	}
	return metrics.OutcomeTransportError
}

func failureMessage(err error) string {
	var se *qualifier.StatusError
	if errors.As(err, &se) {
		return fmt.Sprintf("qualification service returned HTTP %d", se.StatusCode)
	}

	var ue *url.Error
	if errors.As(err, &ue) && ue.Err != nil {
		err = ue.Err
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallbackErrorMessage
}
