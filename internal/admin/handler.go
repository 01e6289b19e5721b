package admin

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	dErrors "swissshield/pkg/domain-errors"
	"swissshield/pkg/platform/httputil"
	adminmw "swissshield/pkg/platform/middleware/admin"
	"swissshield/pkg/requestcontext"
)

type Handler struct {
	service   *Service
	logger    *slog.Logger
	tokenHash []byte
}

// NewHandler guards every route with the bcrypt hash of the operator token.
func NewHandler(service *Service, tokenHash []byte, logger *slog.Logger) *Handler {
	return &Handler{service: service, tokenHash: tokenHash, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(adminmw.RequireAdminToken(h.tokenHash, h.logger))
		r.Get("/directory", h.HandleListDirectory)
		r.Get("/audit", h.HandleAuditTrail)
	})
}

// HandleListDirectory serves GET /admin/directory[?canton=ZH].
func (h *Handler) HandleListDirectory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	info, entries, err := h.service.ListDirectory(ctx, r.URL.Query().Get("canton"))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list directory",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toDirectoryListResponse(info, entries))
}

// HandleAuditTrail serves GET /admin/audit[?session_id=...|action=...][&limit=N].
func (h *Handler) HandleAuditTrail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "limit must be a number"))
			return
		}
		limit = n
	}

	records, err := h.service.AuditTrail(ctx, AuditQuery{
		SessionID: q.Get("session_id"),
		Action:    q.Get("action"),
		Limit:     limit,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "failed to read audit trail",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAuditListResponse(records))
}
