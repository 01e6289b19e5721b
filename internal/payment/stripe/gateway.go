// Package stripe implements payment.Gateway with Stripe Checkout.
package stripe

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"swissshield/internal/payment"
	"swissshield/pkg/platform/sentinel"
)

// SessionAPI is the subset of the Stripe checkout session client in use.
type SessionAPI interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	Get(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// Gateway creates one-off payment sessions for a single letter.
type Gateway struct {
	sessions    SessionAPI
	priceID     string
	amountCents int64
	currency    string
	productName string
}

type Option func(*Gateway)

// WithPriceID bills a configured Stripe price instead of inline price data.
func WithPriceID(id string) Option {
	return func(g *Gateway) {
		g.priceID = id
	}
}

// WithAmount sets the inline price used when no price ID is configured.
func WithAmount(cents int64, currency string) Option {
	return func(g *Gateway) {
		g.amountCents = cents
		g.currency = currency
	}
}

// WithSessionAPI replaces the Stripe client, for tests.
func WithSessionAPI(api SessionAPI) Option {
	return func(g *Gateway) {
		g.sessions = api
	}
}

// New builds a gateway authenticated with secretKey.
func New(secretKey string, opts ...Option) *Gateway {
	sc := &client.API{}
	sc.Init(secretKey, nil)
	g := &Gateway{
		sessions:    sc.CheckoutSessions,
		amountCents: 990,
		currency:    "chf",
		productName: "Kirchenaustritt – Austrittsschreiben (PDF)",
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gateway) CreateSession(ctx context.Context, req payment.SessionRequest) (*payment.Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:                stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:          stripe.String(req.SuccessURL),
		CancelURL:           stripe.String(req.CancelURL),
		AllowPromotionCodes: stripe.Bool(true),
		LineItems:           []*stripe.CheckoutSessionLineItemParams{g.lineItem()},
	}
	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	params.Context = ctx

	s, err := g.sessions.New(params)
	if err != nil {
		return nil, translate(err, "create checkout session")
	}
	return toSession(s), nil
}

func (g *Gateway) GetSession(ctx context.Context, id string) (*payment.Session, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := g.sessions.Get(id, params)
	if err != nil {
		return nil, translate(err, "get checkout session")
	}
	return toSession(s), nil
}

func (g *Gateway) lineItem() *stripe.CheckoutSessionLineItemParams {
	if g.priceID != "" {
		return &stripe.CheckoutSessionLineItemParams{
			Price:    stripe.String(g.priceID),
			Quantity: stripe.Int64(1),
		}
	}
	return &stripe.CheckoutSessionLineItemParams{
		Quantity: stripe.Int64(1),
		PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripe.String(g.currency),
			UnitAmount: stripe.Int64(g.amountCents),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String(g.productName),
			},
		},
	}
}

func toSession(s *stripe.CheckoutSession) *payment.Session {
	out := &payment.Session{
		ID:       s.ID,
		URL:      s.URL,
		Status:   payment.Status(s.PaymentStatus),
		Email:    s.CustomerEmail,
		Metadata: s.Metadata,
	}
	if s.CustomerDetails != nil && s.CustomerDetails.Email != "" {
		out.Email = s.CustomerDetails.Email
	}
	if out.Status == "" {
		out.Status = payment.StatusUnpaid
	}
	return out
}

func translate(err error, op string) error {
	var se *stripe.Error
	if errors.As(err, &se) && (se.HTTPStatusCode == http.StatusNotFound || se.Code == stripe.ErrorCodeResourceMissing) {
		return fmt.Errorf("%s: %w", op, sentinel.ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %w", op, sentinel.ErrUnavailable, err)
}
