package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"swissshield/internal/directory"
	"swissshield/internal/letter"
	"swissshield/internal/order"
	dErrors "swissshield/pkg/domain-errors"
	"swissshield/pkg/platform/httputil"
	"swissshield/pkg/requestcontext"
)

// Service is the order flow as seen by HTTP.
type Service interface {
	Coverage() order.Coverage
	Preview(ctx context.Context, canton, zip, confession string) (directory.MatchResult, error)
	StartCheckout(ctx context.Context, sub letter.Submission) (*order.Checkout, error)
	OrderInfo(ctx context.Context, sessionID string) (*order.OrderInfo, error)
	Deliver(ctx context.Context, sessionID string) (*order.Delivery, error)
	DeliverWithToken(ctx context.Context, token string) (*order.Delivery, error)
}

type Middleware = func(http.Handler) http.Handler

// Handler serves the public order API.
type Handler struct {
	service         Service
	logger          *slog.Logger
	checkoutLimiter Middleware
	downloadLimiter Middleware
}

type Option func(*Handler)

// WithCheckoutLimiter guards POST /api/checkout.
func WithCheckoutLimiter(mw Middleware) Option {
	return func(h *Handler) {
		h.checkoutLimiter = mw
	}
}

// WithDownloadLimiter guards GET /api/download.
func WithDownloadLimiter(mw Middleware) Option {
	return func(h *Handler) {
		h.downloadLimiter = mw
	}
}

func New(service Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{service: service, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/api/address", h.HandleAddress)
	r.Get("/api/cantons", h.HandleCantons)
	r.With(orNoop(h.checkoutLimiter)).Post("/api/checkout", h.HandleCheckout)
	r.Get("/api/order-info", h.HandleOrderInfo)
	r.With(orNoop(h.downloadLimiter)).Get("/api/download", h.HandleDownload)
}

func (h *Handler) HandleAddress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	match, err := h.service.Preview(ctx, q.Get("canton"), q.Get("zip"), q.Get("confession"))
	if err != nil {
		h.writeError(ctx, w, err, "failed to resolve address")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPreviewResponse(match))
}

func (h *Handler) HandleCantons(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, toCoverageResponse(h.service.Coverage()))
}

func (h *Handler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CheckoutRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	checkout, err := h.service.StartCheckout(ctx, req.Submission())
	if err != nil {
		h.writeError(ctx, w, err, "Failed to create checkout session")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &CheckoutResponse{
		OrderID:   checkout.OrderID.String(),
		SessionID: checkout.SessionID,
		URL:       checkout.URL,
	})
}

func (h *Handler) HandleOrderInfo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	info, err := h.service.OrderInfo(ctx, r.URL.Query().Get("session_id"))
	if err != nil {
		h.writeError(ctx, w, err, "Failed to fetch order info")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toOrderInfoResponse(info))
}

// HandleDownload accepts either a signed token or the raw session ID
// the success redirect carries.
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var (
		d   *order.Delivery
		err error
	)
	if token := q.Get("token"); token != "" {
		d, err = h.service.DeliverWithToken(ctx, token)
	} else {
		d, err = h.service.Deliver(ctx, q.Get("session_id"))
	}
	if err != nil {
		h.writeError(ctx, w, err, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", d.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(d.PDF)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(d.PDF); err != nil {
		h.logger.WarnContext(ctx, "failed to write pdf response",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
}

// writeError passes client errors through and hides everything else
// behind fallback.
func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error, fallback string) {
	requestID := requestcontext.RequestID(ctx)
	if de, ok := dErrors.As(err); ok && dErrors.ToHTTPStatus(de.Code) < http.StatusInternalServerError {
		h.logger.WarnContext(ctx, "order request rejected",
			"request_id", requestID,
			"code", de.Code,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	h.logger.ErrorContext(ctx, fallback,
		"request_id", requestID,
		"error", err,
	)
	if dErrors.HasCode(err, dErrors.CodeTimeout) {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, fallback))
}

func orNoop(mw Middleware) Middleware {
	if mw == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return mw
}
