package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"swissshield/internal/directory"
	"swissshield/internal/downloadtoken"
	"swissshield/internal/letter"
	"swissshield/internal/order"
	"swissshield/internal/payment"
	"swissshield/internal/payment/mocks"
	"swissshield/pkg/platform/audit/publisher"
	"swissshield/pkg/platform/audit/store/memory"
	"swissshield/pkg/testutil"
)

var fixedNow = time.Date(2026, 10, 19, 10, 30, 0, 0, time.UTC)

type fixture struct {
	router  chi.Router
	gateway *mocks.MockGateway
	tokens  *downloadtoken.Service
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	gateway := mocks.NewMockGateway(ctrl)
	tokens := downloadtoken.New("test-key", downloadtoken.WithClock(func() time.Time { return fixedNow }))

	dir, err := directory.Load(directory.VariantGerman)
	require.NoError(t, err)
	clock := func() time.Time { return fixedNow }
	svc := order.NewService(dir, letter.NewRenderer(letter.GermanOnly{}, letter.WithClock(clock)), gateway, tokens,
		order.WithClock(clock),
		order.WithBaseURL("https://swissshield.test"),
	)

	r := chi.NewRouter()
	New(svc, slog.New(slog.NewTextHandler(io.Discard, nil)), opts...).Register(r)
	return &fixture{router: r, gateway: gateway, tokens: tokens}
}

func validForm() CheckoutRequest {
	return CheckoutRequest{
		Canton:       "zh",
		Zip:          "8000",
		Confession:   "catholic",
		FullName:     " Anna Muster ",
		DateOfBirth:  "1990-05-14",
		AddressLine1: "Bahnhofstrasse 1",
		PostalCity:   "8001 Zürich",
		Email:        "anna@example.ch",
	}
}

func paid(id string) *payment.Session {
	sub := letter.Submission{
		Canton: "ZH", Zip: "8000", Confession: "catholic", FullName: "Anna Muster",
		DateOfBirth: "1990-05-14", AddressLine1: "Bahnhofstrasse 1", PostalCity: "8001 Zürich",
		Email: "anna@example.ch",
	}
	return &payment.Session{ID: id, Status: payment.StatusPaid, Metadata: payment.EncodeOrder(sub, "zh-8000-cath")}
}

func TestAddressPreview(t *testing.T) {
	f := newFixture(t)

	testutil.Given(t, "a zip with its own office", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodGet, "/api/address?canton=ZH&zip=8000&confession=catholic", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		resp := testutil.UnmarshalResponse[PreviewResponse](t, rr)
		assert.True(t, resp.Found)
		assert.Equal(t, "exact", resp.Match)
		require.NotNil(t, resp.Address)
		assert.Equal(t, "zh-8000-cath", resp.Address.ID)
	})

	testutil.Given(t, "an unsupported canton", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodGet, "/api/address?canton=TI&zip=6900&confession=reformed", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		resp := testutil.UnmarshalResponse[PreviewResponse](t, rr)
		assert.False(t, resp.Found)
		assert.Nil(t, resp.Address)
		assert.Equal(t, directory.NotFoundMessage, resp.Message)
	})

	testutil.Given(t, "an unknown confession", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodGet, "/api/address?canton=ZH&zip=8000&confession=other", nil))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
	})
}

func TestCantons(t *testing.T) {
	f := newFixture(t)
	rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodGet, "/api/cantons", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	resp := testutil.UnmarshalResponse[CoverageResponse](t, rr)
	assert.Contains(t, resp.Cantons, Choice{Code: "ZH", Name: "Zürich"})
	assert.Len(t, resp.Confessions, 2)
}

func TestCheckout(t *testing.T) {
	f := newFixture(t)
	f.gateway.EXPECT().CreateSession(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req payment.SessionRequest) (*payment.Session, error) {
			assert.Equal(t, "ZH", req.Metadata[payment.KeyCanton])
			assert.Equal(t, "Anna Muster", req.Metadata[payment.KeyFullName])
			return &payment.Session{ID: "cs_1", URL: "https://pay.test/cs_1"}, nil
		})

	rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/api/checkout", validForm()))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	resp := testutil.UnmarshalResponse[CheckoutResponse](t, rr)
	assert.Equal(t, "cs_1", resp.SessionID)
	assert.Equal(t, "https://pay.test/cs_1", resp.URL)
	assert.NotEmpty(t, resp.OrderID)
}

func TestCheckoutRejections(t *testing.T) {
	f := newFixture(t)

	missing := validForm()
	missing.DateOfBirth = ""
	badEmail := validForm()
	badEmail.Email = "anna"
	unsupported := validForm()
	unsupported.Canton = "TI"

	cases := []struct {
		name   string
		req    *http.Request
		status int
		code   string
	}{
		{"missing field", testutil.NewJSONRequest(t, http.MethodPost, "/api/checkout", missing), http.StatusBadRequest, "validation_error"},
		{"bad email", testutil.NewJSONRequest(t, http.MethodPost, "/api/checkout", badEmail), http.StatusBadRequest, "validation_error"},
		{"unsupported canton", testutil.NewJSONRequest(t, http.MethodPost, "/api/checkout", unsupported), http.StatusBadRequest, "unsupported_jurisdiction"},
		{"malformed json", testutil.NewRequestWithBody(t, http.MethodPost, "/api/checkout", "{"), http.StatusBadRequest, "bad_request"},
		{"empty body", testutil.NewRequestWithBody(t, http.MethodPost, "/api/checkout", ""), http.StatusBadRequest, "bad_request"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := testutil.DoRequest(f.router, tc.req)
			testutil.AssertStatusAndError(t, rr, tc.status, tc.code)
		})
	}
}

func TestCheckoutLimiterIsApplied(t *testing.T) {
	deny := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})
	}
	f := newFixture(t, WithCheckoutLimiter(deny))

	rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/api/checkout", validForm()))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)

	rr = testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodGet, "/api/cantons", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestOrderInfo(t *testing.T) {
	f := newFixture(t)
	f.gateway.EXPECT().GetSession(gomock.Any(), "cs_paid").Return(paid("cs_paid"), nil)
	f.gateway.EXPECT().GetSession(gomock.Any(), "cs_open").Return(&payment.Session{ID: "cs_open", Status: payment.StatusUnpaid}, nil)

	rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodGet, "/api/order-info?session_id=cs_paid", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	resp := testutil.UnmarshalResponse[OrderInfoResponse](t, rr)
	require.NotNil(t, resp.Recipient)
	assert.Equal(t, "Katholisch Stadt Zürich", resp.Recipient.Name)
	assert.Equal(t, "Anna Muster", resp.OrderInfo.CustomerName)
	assert.NotEmpty(t, resp.DownloadToken)

	rr = testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodGet, "/api/order-info?session_id=cs_open", nil))
	testutil.AssertStatusAndError(t, rr, http.StatusPaymentRequired, "payment_required")

	rr = testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodGet, "/api/order-info", nil))
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
}

func TestDownload(t *testing.T) {
	f := newFixture(t)
	f.gateway.EXPECT().GetSession(gomock.Any(), "cs_paid").Return(paid("cs_paid"), nil).Times(2)

	testutil.When(t, "downloading by session id", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodGet, "/api/download?session_id=cs_paid", nil))
		testutil.AssertPDFAttachment(t, rr, "kirchenaustritt-ZH-1792405800000.pdf")
		assert.Equal(t, rr.Header().Get("Content-Length"), strconv.Itoa(rr.Body.Len()))
	})

	testutil.When(t, "downloading by token", func(t *testing.T) {
		token, err := f.tokens.Issue("cs_paid")
		require.NoError(t, err)
		rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodGet, "/api/download?token="+url.QueryEscape(token), nil))
		testutil.AssertPDFAttachment(t, rr, "kirchenaustritt-ZH-1792405800000.pdf")
	})

	testutil.Then(t, "a forged token is unauthorized", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodGet, "/api/download?token=forged", nil))
		testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
	})
}

func TestDownloadUsesRequestTimeWithoutClock(t *testing.T) {
	ctrl := gomock.NewController(t)
	gateway := mocks.NewMockGateway(ctrl)
	gateway.EXPECT().GetSession(gomock.Any(), "cs_paid").Return(paid("cs_paid"), nil)

	dir, err := directory.Load(directory.VariantGerman)
	require.NoError(t, err)
	store := memory.NewInMemoryStore()
	svc := order.NewService(dir, letter.NewRenderer(letter.GermanOnly{}), gateway,
		downloadtoken.New("test-key"),
		order.WithAuditPublisher(publisher.NewPublisher(store)),
	)
	r := chi.NewRouter()
	New(svc, slog.New(slog.DiscardHandler)).Register(r)

	requestTime := time.Date(2026, 11, 2, 8, 0, 0, 0, time.UTC)
	req := testutil.NewJSONRequest(t, http.MethodGet, "/api/download?session_id=cs_paid", nil)
	req = testutil.WithClient(req, "203.0.113.7", "Mozilla/5.0")
	req = testutil.WithRequestID(req, "req-42")
	req = testutil.WithRequestTime(req, requestTime)

	rr := testutil.DoRequest(r, req)
	testutil.AssertPDFAttachment(t, rr, "kirchenaustritt-ZH-"+strconv.FormatInt(requestTime.UnixMilli(), 10)+".pdf")

	events, err := store.ListBySession(t.Context(), "cs_paid")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "letter_delivered", events[0].Action)
	assert.Equal(t, "req-42", events[0].RequestID)
	assert.Equal(t, requestTime, events[0].Timestamp)
}

func TestDownloadGatewayFailureIsInternal(t *testing.T) {
	f := newFixture(t)
	f.gateway.EXPECT().GetSession(gomock.Any(), "cs_x").Return(nil, io.ErrUnexpectedEOF)

	rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodGet, "/api/download?session_id=cs_x", nil))
	testutil.AssertStatusAndError(t, rr, http.StatusInternalServerError, "internal_error")
	assert.NotContains(t, rr.Body.String(), "unexpected EOF")
}
