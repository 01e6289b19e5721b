package devpay

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	dErrors "swissshield/pkg/domain-errors"
	"swissshield/pkg/platform/httputil"
	"swissshield/pkg/platform/sentinel"
	"swissshield/pkg/requestcontext"
)

// PayPath completes a dev checkout.
const PayPath = "/dev/pay"

type Handler struct {
	gateway *Gateway
	logger  *slog.Logger
}

func NewHandler(gateway *Gateway, logger *slog.Logger) *Handler {
	return &Handler{gateway: gateway, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get(PayPath, h.HandlePay)
}

// HandlePay marks the session paid and redirects to its success URL.
func (h *Handler) HandlePay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.URL.Query().Get("session_id")
	if id == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "session_id is required"))
		return
	}
	next, err := h.gateway.MarkPaid(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "Session not found"))
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to mark dev session paid",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to complete payment"))
		return
	}
	h.logger.InfoContext(ctx, "dev session paid",
		"session_id", id,
		"request_id", requestcontext.RequestID(ctx),
	)
	http.Redirect(w, r, next, http.StatusSeeOther)
}
