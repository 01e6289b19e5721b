package order

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/mock/gomock"

	"swissshield/internal/directory"
	"swissshield/internal/downloadtoken"
	"swissshield/internal/letter"
	"swissshield/internal/payment"
	"swissshield/internal/payment/mocks"
	"swissshield/pkg/domain"
	dErrors "swissshield/pkg/domain-errors"
	"swissshield/pkg/platform/audit"
	"swissshield/pkg/platform/audit/publisher"
	auditmemory "swissshield/pkg/platform/audit/store/memory"
	"swissshield/pkg/platform/sentinel"
)

var fixedNow = time.Date(2026, 10, 19, 10, 30, 0, 0, time.UTC)

type ServiceSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	gateway *mocks.MockGateway
	audit   *auditmemory.InMemoryStore
	tokens  *downloadtoken.Service
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.gateway = mocks.NewMockGateway(s.ctrl)
	s.audit = auditmemory.NewInMemoryStore()
	s.tokens = downloadtoken.New("test-key", downloadtoken.WithClock(func() time.Time { return fixedNow }))

	dir, err := directory.Load(directory.VariantGerman)
	s.Require().NoError(err)
	renderer := letter.NewRenderer(letter.GermanOnly{}, letter.WithClock(func() time.Time { return fixedNow }))

	s.service = NewService(dir, renderer, s.gateway, s.tokens,
		WithBaseURL("https://swissshield.test/"),
		WithClock(func() time.Time { return fixedNow }),
		WithAuditPublisher(publisher.NewPublisher(s.audit)),
		WithTracer(noop.NewTracerProvider().Tracer("order-test")),
	)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func submission() letter.Submission {
	return letter.Submission{
		Canton:       "ZH",
		Zip:          "8000",
		Confession:   domain.ConfessionCatholic,
		FullName:     "Anna Muster",
		DateOfBirth:  "1990-05-14",
		AddressLine1: "Bahnhofstrasse 1",
		PostalCity:   "8001 Zürich",
		Email:        "anna@EXAMPLE.ch",
	}
}

func paidSession(id string, sub letter.Submission) *payment.Session {
	return &payment.Session{
		ID:       id,
		Status:   payment.StatusPaid,
		Metadata: payment.EncodeOrder(sub, "zh-8000-cath"),
	}
}

func (s *ServiceSuite) actions() []string {
	events, err := s.audit.ListAll(context.Background())
	s.Require().NoError(err)
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Action)
	}
	return out
}

func (s *ServiceSuite) TestPreview() {
	ctx := context.Background()

	match, err := s.service.Preview(ctx, "ZH", "8000", "catholic")
	s.Require().NoError(err)
	s.Equal(directory.MatchExact, match.Kind)

	match, err = s.service.Preview(ctx, "ZH", "8400", "reformed")
	s.Require().NoError(err)
	s.Equal(directory.MatchFallback, match.Kind)

	match, err = s.service.Preview(ctx, "TI", "6900", "catholic")
	s.Require().NoError(err)
	s.Equal(directory.MatchNotFound, match.Kind)

	_, err = s.service.Preview(ctx, "ZH", "8000", "jedi")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.service.Preview(ctx, "", "8000", "catholic")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestStartCheckout() {
	var got payment.SessionRequest
	s.gateway.EXPECT().CreateSession(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req payment.SessionRequest) (*payment.Session, error) {
			got = req
			return &payment.Session{ID: "cs_1", URL: "https://pay.test/cs_1", Status: payment.StatusUnpaid}, nil
		})

	checkout, err := s.service.StartCheckout(context.Background(), submission())
	s.Require().NoError(err)

	s.Equal("cs_1", checkout.SessionID)
	s.Equal("https://pay.test/cs_1", checkout.URL)
	s.Equal(directory.MatchExact, checkout.MatchKind)
	s.False(checkout.OrderID.IsNil())

	s.Equal("anna@example.ch", got.Email)
	s.Equal("https://swissshield.test/success?session_id={CHECKOUT_SESSION_ID}", got.SuccessURL)
	s.Equal("https://swissshield.test/?cancelled=true", got.CancelURL)
	s.Equal("zh-8000-cath", got.Metadata[payment.KeyRecipientID])
	s.Equal(checkout.OrderID.String(), got.Metadata[payment.KeyOrderID])
	s.Equal("Anna Muster", got.Metadata[payment.KeyFullName])

	s.Equal([]string{string(audit.EventCheckoutStarted)}, s.actions())
	events, _ := s.audit.ListBySession(context.Background(), "cs_1")
	s.Require().Len(events, 1)
	s.Equal(audit.HashEmail("anna@example.ch"), events[0].EmailHash)
	s.Equal(audit.CategoryOperations, events[0].Category)
}

func (s *ServiceSuite) TestStartCheckoutValidation() {
	cases := map[string]func(*letter.Submission){
		"missing name":      func(sub *letter.Submission) { sub.FullName = "" },
		"missing dob":       func(sub *letter.Submission) { sub.DateOfBirth = "" },
		"missing city":      func(sub *letter.Submission) { sub.PostalCity = "" },
		"bad email":         func(sub *letter.Submission) { sub.Email = "anna@example" },
		"unknown religion":  func(sub *letter.Submission) { sub.Confession = "jedi" },
		"oversized address": func(sub *letter.Submission) { sub.AddressLine2 = strings.Repeat("x", 501) },
		"unprintable name":  func(sub *letter.Submission) { sub.FullName = "山田 太郎" },
		"emoji in city":     func(sub *letter.Submission) { sub.PostalCity = "8001 Zürich \U0001F3D4" },
	}
	for name, mutate := range cases {
		s.Run(name, func() {
			sub := submission()
			mutate(&sub)
			_, err := s.service.StartCheckout(context.Background(), sub)
			s.True(dErrors.HasCode(err, dErrors.CodeValidation), "got %v", err)
		})
	}
	s.Empty(s.actions())
}

func (s *ServiceSuite) TestStartCheckoutAcceptsNamesBeyondLatin1() {
	var got payment.SessionRequest
	s.gateway.EXPECT().CreateSession(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req payment.SessionRequest) (*payment.Session, error) {
			got = req
			return &payment.Session{ID: "cs_pl", URL: "https://pay.test/cs_pl", Status: payment.StatusUnpaid}, nil
		})

	sub := submission()
	sub.FullName = "Łukasz Żółć"
	_, err := s.service.StartCheckout(context.Background(), sub)
	s.Require().NoError(err)
	s.Equal("Łukasz Żółć", got.Metadata[payment.KeyFullName])
}

func (s *ServiceSuite) TestStartCheckoutUnsupportedCanton() {
	sub := submission()
	sub.Canton = "TI"
	sub.Zip = "6900"

	_, err := s.service.StartCheckout(context.Background(), sub)
	s.True(dErrors.HasCode(err, dErrors.CodeUnsupportedJurisdiction))
	s.Equal("Canton not supported yet", err.Error())
	s.Equal([]string{string(audit.EventCheckoutRejected)}, s.actions())
}

func (s *ServiceSuite) TestStartCheckoutGatewayFailure() {
	s.gateway.EXPECT().CreateSession(gomock.Any(), gomock.Any()).Return(nil, sentinel.ErrUnavailable)

	_, err := s.service.StartCheckout(context.Background(), submission())
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	s.Empty(s.actions())
}

func (s *ServiceSuite) TestOrderInfo() {
	s.gateway.EXPECT().GetSession(gomock.Any(), "cs_paid").Return(paidSession("cs_paid", submission()), nil)

	info, err := s.service.OrderInfo(context.Background(), "cs_paid")
	s.Require().NoError(err)

	s.Require().NotNil(info.Recipient)
	s.Equal("Katholisch Stadt Zürich", info.Recipient.Name)
	s.Equal("Werdgässchen 26", info.Recipient.Address)
	s.Equal("8004", info.Recipient.Postal)
	s.Equal(Summary{Canton: "ZH", Confession: "catholic", CustomerName: "Anna Muster"}, info.Summary)

	sessionID, err := s.tokens.SessionID(info.DownloadToken)
	s.Require().NoError(err)
	s.Equal("cs_paid", sessionID)
	s.True(strings.HasPrefix(info.DownloadURL, "https://swissshield.test/api/download?token="))
}

func (s *ServiceSuite) TestOrderInfoUnresolvableRecipient() {
	sub := submission()
	sub.Canton = "TI"
	s.gateway.EXPECT().GetSession(gomock.Any(), "cs_ti").Return(paidSession("cs_ti", sub), nil)

	info, err := s.service.OrderInfo(context.Background(), "cs_ti")
	s.Require().NoError(err)
	s.Nil(info.Recipient)
	s.Equal("TI", info.Summary.Canton)
}

func (s *ServiceSuite) TestSessionErrors() {
	ctx := context.Background()

	_, err := s.service.OrderInfo(ctx, "")
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))

	s.gateway.EXPECT().GetSession(gomock.Any(), "cs_unpaid").
		Return(&payment.Session{ID: "cs_unpaid", Status: payment.StatusUnpaid}, nil)
	_, err = s.service.OrderInfo(ctx, "cs_unpaid")
	s.True(dErrors.HasCode(err, dErrors.CodePaymentRequired))

	s.gateway.EXPECT().GetSession(gomock.Any(), "cs_gone").Return(nil, sentinel.ErrNotFound)
	_, err = s.service.OrderInfo(ctx, "cs_gone")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	s.gateway.EXPECT().GetSession(gomock.Any(), "cs_err").Return(nil, errors.New("boom"))
	_, err = s.service.OrderInfo(ctx, "cs_err")
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ServiceSuite) TestDeliver() {
	s.gateway.EXPECT().GetSession(gomock.Any(), "cs_paid").Return(paidSession("cs_paid", submission()), nil)

	d, err := s.service.Deliver(context.Background(), "cs_paid")
	s.Require().NoError(err)

	s.Equal("kirchenaustritt-ZH-1792405800000.pdf", d.Filename)
	s.True(bytes.HasPrefix(d.PDF, []byte("%PDF-")))
	s.Equal(directory.MatchExact, d.MatchKind)

	events, _ := s.audit.ListBySession(context.Background(), "cs_paid")
	s.Require().Len(events, 1)
	s.Equal(string(audit.EventLetterDelivered), events[0].Action)
	s.Equal(audit.CategoryCompliance, events[0].Category)
	s.Equal("zh-8000-cath", events[0].RecipientID)
}

func (s *ServiceSuite) TestDeliverUnpaidIsAudited() {
	s.gateway.EXPECT().GetSession(gomock.Any(), "cs_unpaid").
		Return(&payment.Session{ID: "cs_unpaid", Status: payment.StatusUnpaid}, nil)

	_, err := s.service.Deliver(context.Background(), "cs_unpaid")
	s.True(dErrors.HasCode(err, dErrors.CodePaymentRequired))
	s.Equal([]string{string(audit.EventDownloadDenied)}, s.actions())
}

func (s *ServiceSuite) TestDeliverAddressNotFound() {
	sub := submission()
	sub.Canton = "TI"
	s.gateway.EXPECT().GetSession(gomock.Any(), "cs_ti").Return(paidSession("cs_ti", sub), nil)

	_, err := s.service.Deliver(context.Background(), "cs_ti")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	s.Equal("Address not found", err.Error())
}

func (s *ServiceSuite) TestDeliverWithToken() {
	token, err := s.tokens.Issue("cs_paid")
	s.Require().NoError(err)
	s.gateway.EXPECT().GetSession(gomock.Any(), "cs_paid").Return(paidSession("cs_paid", submission()), nil)

	d, err := s.service.DeliverWithToken(context.Background(), token)
	s.Require().NoError(err)
	s.NotEmpty(d.PDF)

	_, err = s.service.DeliverWithToken(context.Background(), "forged")
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	s.Contains(s.actions(), string(audit.EventDownloadDenied))
}

func (s *ServiceSuite) TestCoverage() {
	c := s.service.Coverage()
	s.ElementsMatch([]domain.Canton{"ZH", "BS", "BE", "ZG"}, c.Cantons)
	s.Equal(domain.Confessions(), c.Confessions)
}

func TestFilename(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	if got := Filename("BS", at); got != "kirchenaustritt-BS-1700000000123.pdf" {
		t.Fatalf("unexpected filename %q", got)
	}
}
