// internal/app/features/notifications/handler.go

// Package notifications serves the in-app notification inbox. Listing and
// read-marking only; notifications are written by the subsystems that emit
// them.
package notifications

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apierrors "github.com/obakengmog/fyndfluencer/internal/app/features/errors"
	notificationstore "github.com/obakengmog/fyndfluencer/internal/app/store/notifications"
	"github.com/obakengmog/fyndfluencer/internal/app/system/auth"
	"github.com/obakengmog/fyndfluencer/internal/app/system/timeouts"
)

const defaultListLimit = 20

// Handler serves the notification inbox endpoints.
type Handler struct {
	Notifications *notificationstore.Store
	ErrLog        *apierrors.ErrorLogger
	Log           *zap.Logger
}

// NewHandler constructs the notifications handler.
func NewHandler(store *notificationstore.Store, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Notifications: store, ErrLog: errLog, Log: logger}
}

// HandleList returns the caller's notifications, newest first, with the
// unread count alongside. An optional limit query parameter caps the page.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	su, _ := auth.CurrentUser(r)

	limit := int64(defaultListLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			apierrors.WriteError(w, http.StatusBadRequest, apierrors.CodeBadRequest,
				"limit must be a positive integer")
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	notes, err := h.Notifications.ListByUser(ctx, su.ID, limit)
	if err != nil {
		h.ErrLog.LogDBError(w, r, "list notifications", err)
		return
	}
	unread, err := h.Notifications.CountUnread(ctx, su.ID)
	if err != nil {
		h.ErrLog.LogDBError(w, r, "count unread notifications", err)
		return
	}

	apierrors.WriteJSON(w, http.StatusOK, map[string]any{
		"notifications": notes,
		"unread":        unread,
	})
}

// HandleMarkRead marks one notification read. The store scopes the write to
// the caller, so another user's notification answers 404 like a missing one.
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	su, _ := auth.CurrentUser(r)
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Notifications.MarkRead(ctx, su.ID, id); err != nil {
		if errors.Is(err, notificationstore.ErrNotFound) {
			apierrors.NotFound(w, "notification not found")
			return
		}
		h.ErrLog.LogDBError(w, r, "mark notification read", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleMarkAllRead marks every unread notification of the caller read and
// returns how many were affected.
func (h *Handler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	su, _ := auth.CurrentUser(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	n, err := h.Notifications.MarkAllRead(ctx, su.ID)
	if err != nil {
		h.ErrLog.LogDBError(w, r, "mark all notifications read", err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, map[string]int64{"updated": n})
}
