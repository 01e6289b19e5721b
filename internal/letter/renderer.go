package letter

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"swissshield/internal/directory"
	"swissshield/internal/letter/pdf"
	dErrors "swissshield/pkg/domain-errors"
	"swissshield/pkg/requestcontext"
)

// Renderer turns a submission and a resolved address into a PDF.
// It holds no per-request state and is safe for concurrent use.
type Renderer struct {
	policy      LanguagePolicy
	payrollPage bool
	clock       func() time.Time
	location    *time.Location
	logger      *slog.Logger
	tracer      trace.Tracer
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithClock pins the dateline clock. Without it the request time from the
// context is used.
func WithClock(clock func() time.Time) Option {
	return func(r *Renderer) {
		r.clock = clock
	}
}

// WithPayrollPage toggles the employer notification page.
func WithPayrollPage(enabled bool) Option {
	return func(r *Renderer) {
		r.payrollPage = enabled
	}
}

// WithLocation sets the time zone the dateline is printed in.
func WithLocation(loc *time.Location) Option {
	return func(r *Renderer) {
		if loc != nil {
			r.location = loc
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// NewRenderer builds a renderer for the given language policy.
// A nil policy writes German letters.
func NewRenderer(policy LanguagePolicy, opts ...Option) *Renderer {
	if policy == nil {
		policy = GermanOnly{}
	}
	r := &Renderer{
		policy:      policy,
		payrollPage: true,
		location:    zurich(),
		tracer:      otel.Tracer("swissshield/letter"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render composes the letter and draws it. It either returns the complete
// document or a CodeInternal error; there is no partial output.
func (r *Renderer) Render(ctx context.Context, sub Submission, addr directory.AddressEntry) ([]byte, error) {
	ctx, span := r.tracer.Start(ctx, "letter.Render", trace.WithAttributes(
		attribute.String("canton", string(sub.Canton)),
		attribute.String("confession", string(sub.Confession)),
		attribute.String("recipient_id", addr.ID),
	))
	defer span.End()

	doc := r.Compose(sub, addr, r.now(ctx))
	span.SetAttributes(
		attribute.String("language", doc.Language),
		attribute.Int("pages", len(doc.Pages)),
	)

	out, err := pdf.Render(ctx, doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		if r.logger != nil {
			r.logger.ErrorContext(ctx, "letter render failed",
				"request_id", requestcontext.RequestID(ctx),
				"canton", sub.Canton,
				"error", err,
			)
		}
		if ctx.Err() != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "letter rendering cancelled")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to render letter")
	}
	return out, nil
}

func (r *Renderer) now(ctx context.Context) time.Time {
	var t time.Time
	if r.clock != nil {
		t = r.clock()
	} else {
		t = requestcontext.Now(ctx)
	}
	return t.In(r.location)
}

func zurich() *time.Location {
	loc, err := time.LoadLocation("Europe/Zurich")
	if err != nil {
		return time.Local
	}
	return loc
}
