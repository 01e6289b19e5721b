// Package order runs the purchase flow: address preview, checkout with the
// payment provider, and delivery of the rendered letter once paid. No order
// data is stored locally; the payment session metadata is the record.
package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"swissshield/internal/directory"
	"swissshield/internal/letter"
	"swissshield/internal/order/metrics"
	"swissshield/internal/payment"
	"swissshield/pkg/domain"
	dErrors "swissshield/pkg/domain-errors"
	"swissshield/pkg/email"
	"swissshield/pkg/platform/audit"
	"swissshield/pkg/platform/sentinel"
	"swissshield/pkg/requestcontext"
)

// Resolver finds the church office for an order.
type Resolver interface {
	Resolve(canton domain.Canton, zip string, confession domain.Confession) directory.MatchResult
	Cantons() []domain.Canton
}

// Renderer produces the letter PDF.
type Renderer interface {
	Render(ctx context.Context, sub letter.Submission, addr directory.AddressEntry) ([]byte, error)
}

// Tokens issues and checks download links.
type Tokens interface {
	Issue(sessionID string) (string, error)
	SessionID(token string) (string, error)
}

// AuditPublisher records order events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	directory Resolver
	renderer  Renderer
	gateway   payment.Gateway
	tokens    Tokens
	baseURL   string

	logger  *slog.Logger
	metrics *metrics.Metrics
	auditor AuditPublisher
	tracer  trace.Tracer
	now     func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithClock sets the clock used for download filenames. Without it the
// request time is used.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithBaseURL sets the public origin used for redirect and download links.
func WithBaseURL(base string) Option {
	return func(s *Service) {
		s.baseURL = strings.TrimRight(base, "/")
	}
}

func NewService(dir Resolver, renderer Renderer, gateway payment.Gateway, tokens Tokens, opts ...Option) *Service {
	s := &Service{
		directory: dir,
		renderer:  renderer,
		gateway:   gateway,
		tokens:    tokens,
		baseURL:   "http://localhost:8080",
		logger:    slog.New(slog.DiscardHandler),
		tracer:    otel.Tracer("swissshield/order"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Coverage lists the cantons the directory routes and the confessions offered.
func (s *Service) Coverage() Coverage {
	return Coverage{
		Cantons:     s.directory.Cantons(),
		Confessions: domain.Confessions(),
	}
}

// Preview resolves the recipient shown while the form is being filled in.
func (s *Service) Preview(ctx context.Context, canton, zip, confession string) (directory.MatchResult, error) {
	if canton == "" || zip == "" {
		return directory.MatchResult{}, dErrors.New(dErrors.CodeValidation, "canton and zip are required")
	}
	c, err := domain.ParseConfession(confession)
	if err != nil {
		return directory.MatchResult{}, dErrors.Wrap(err, dErrors.CodeValidation, "invalid confession")
	}
	match := s.directory.Resolve(domain.Canton(canton), zip, c)
	s.metrics.IncrementMatch(string(match.Kind))
	return match, nil
}

// StartCheckout validates the form, checks the canton is routable and opens
// a payment session carrying the order in its metadata.
func (s *Service) StartCheckout(ctx context.Context, sub letter.Submission) (*Checkout, error) {
	ctx, span := s.tracer.Start(ctx, "order.StartCheckout", trace.WithAttributes(
		attribute.String("canton", string(sub.Canton)),
	))
	defer span.End()

	sub.Email = email.Normalize(sub.Email)
	if err := ValidateSubmission(sub); err != nil {
		s.metrics.IncrementCheckout(string(sub.Canton), "rejected")
		return nil, err
	}

	match := s.directory.Resolve(sub.Canton, sub.Zip, sub.Confession)
	s.metrics.IncrementMatch(string(match.Kind))
	if !match.Found() {
		s.metrics.IncrementCheckout(string(sub.Canton), "rejected")
		s.emit(ctx, audit.EventCheckoutRejected, audit.Event{
			Canton:     string(sub.Canton),
			Confession: string(sub.Confession),
			MatchKind:  string(match.Kind),
			Reason:     "unsupported_canton",
			EmailHash:  audit.HashEmail(sub.Email),
		})
		return nil, dErrors.New(dErrors.CodeUnsupportedJurisdiction, "Canton not supported yet")
	}

	orderID := domain.NewOrderID()
	md := payment.EncodeOrder(sub, match.Address.ID)
	md[payment.KeyOrderID] = orderID.String()

	sess, err := s.gateway.CreateSession(ctx, payment.SessionRequest{
		Email:      sub.Email,
		Metadata:   md,
		SuccessURL: s.baseURL + "/success?session_id=" + payment.SessionIDPlaceholder,
		CancelURL:  s.baseURL + "/?cancelled=true",
	})
	if err != nil {
		s.metrics.IncrementCheckout(string(sub.Canton), "failed")
		s.logger.ErrorContext(ctx, "failed to create checkout session",
			"request_id", requestcontext.RequestID(ctx),
			"order_id", orderID.String(),
			"error", err,
		)
		span.RecordError(err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "Failed to create checkout session")
	}

	s.metrics.IncrementCheckout(string(sub.Canton), "started")
	s.emit(ctx, audit.EventCheckoutStarted, audit.Event{
		SessionID:   sess.ID,
		Canton:      string(sub.Canton),
		Confession:  string(sub.Confession),
		MatchKind:   string(match.Kind),
		RecipientID: match.Address.ID,
		EmailHash:   audit.HashEmail(sub.Email),
	})
	s.logger.InfoContext(ctx, "checkout started",
		"request_id", requestcontext.RequestID(ctx),
		"order_id", orderID.String(),
		"session_id", sess.ID,
		"canton", sub.Canton,
		"match", match.Kind,
	)

	return &Checkout{
		OrderID:   orderID,
		SessionID: sess.ID,
		URL:       sess.URL,
		MatchKind: match.Kind,
	}, nil
}

// OrderInfo returns what the success page shows for a paid session.
func (s *Service) OrderInfo(ctx context.Context, sessionID string) (*OrderInfo, error) {
	sess, err := s.paidSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	md := sess.Metadata
	match := s.directory.Resolve(
		domain.Canton(md[payment.KeyCanton]),
		md[payment.KeyZip],
		domain.Confession(md[payment.KeyConfession]),
	)

	token, err := s.tokens.Issue(sess.ID)
	if err != nil {
		return nil, err
	}
	return &OrderInfo{
		SessionID: sess.ID,
		Recipient: recipientFrom(match.Address),
		Summary: Summary{
			Canton:       md[payment.KeyCanton],
			Confession:   md[payment.KeyConfession],
			CustomerName: md[payment.KeyFullName],
		},
		DownloadToken: token,
		DownloadURL:   s.baseURL + "/api/download?token=" + url.QueryEscape(token),
	}, nil
}

// Deliver renders the letter for a paid session.
func (s *Service) Deliver(ctx context.Context, sessionID string) (*Delivery, error) {
	ctx, span := s.tracer.Start(ctx, "order.Deliver")
	defer span.End()

	sess, err := s.paidSession(ctx, sessionID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodePaymentRequired) {
			s.emit(ctx, audit.EventDownloadDenied, audit.Event{SessionID: sessionID, Reason: "payment_required"})
		}
		return nil, err
	}

	sub, _, err := payment.DecodeOrder(sess.Metadata)
	if err != nil {
		s.logger.WarnContext(ctx, "paid session carries unusable order metadata",
			"request_id", requestcontext.RequestID(ctx),
			"session_id", sess.ID,
			"error", err,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "Address not found")
	}
	span.SetAttributes(attribute.String("canton", string(sub.Canton)))

	match := s.directory.Resolve(sub.Canton, sub.Zip, sub.Confession)
	if !match.Found() {
		return nil, dErrors.New(dErrors.CodeNotFound, "Address not found")
	}

	start := time.Now()
	pdf, err := s.renderer.Render(ctx, sub, *match.Address)
	s.metrics.ObserveRender(time.Since(start))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.metrics.IncrementDelivery(string(sub.Canton), string(sub.Confession))
	s.emit(ctx, audit.EventLetterDelivered, audit.Event{
		SessionID:   sess.ID,
		Canton:      string(sub.Canton),
		Confession:  string(sub.Confession),
		MatchKind:   string(match.Kind),
		RecipientID: match.Address.ID,
		EmailHash:   audit.HashEmail(sub.Email),
	})

	return &Delivery{
		Filename:  Filename(sub.Canton, s.clock(ctx)),
		PDF:       pdf,
		Canton:    sub.Canton,
		MatchKind: match.Kind,
	}, nil
}

// DeliverWithToken checks a download link and delivers its session.
func (s *Service) DeliverWithToken(ctx context.Context, token string) (*Delivery, error) {
	sessionID, err := s.tokens.SessionID(token)
	if err != nil {
		s.emit(ctx, audit.EventDownloadDenied, audit.Event{Reason: "invalid_token"})
		return nil, err
	}
	return s.Deliver(ctx, sessionID)
}

// Filename is the attachment name of a delivered letter.
func Filename(canton domain.Canton, at time.Time) string {
	return fmt.Sprintf("kirchenaustritt-%s-%d.pdf", canton, at.UnixMilli())
}

func (s *Service) clock(ctx context.Context) time.Time {
	if s.now != nil {
		return s.now()
	}
	return requestcontext.Now(ctx)
}

func (s *Service) paidSession(ctx context.Context, sessionID string) (*payment.Session, error) {
	if sessionID == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "Missing session_id")
	}
	sess, err := s.gateway.GetSession(ctx, sessionID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "Session not found")
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch checkout session",
			"request_id", requestcontext.RequestID(ctx),
			"session_id", sessionID,
			"error", err,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to fetch checkout session")
	}
	if !sess.IsPaid() {
		return nil, dErrors.New(dErrors.CodePaymentRequired, "Payment not completed")
	}
	return sess, nil
}

// emit never fails the caller; audit problems are only logged.
func (s *Service) emit(ctx context.Context, action audit.AuditEvent, event audit.Event) {
	if s.auditor == nil {
		return
	}
	event.Action = string(action)
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"request_id", requestcontext.RequestID(ctx),
			"action", event.Action,
			"error", err,
		)
	}
}
