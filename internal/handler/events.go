// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/olegiv/yapicms/internal/model"
	"github.com/olegiv/yapicms/internal/store"
)

// ListEvents returns audit log entries, newest first, optionally filtered by
// level. Admin only.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r)

	level := r.URL.Query().Get("level")
	switch level {
	case "", model.EventLevelInfo, model.EventLevelWarning, model.EventLevelError:
	default:
		WriteBadRequest(w, "Unknown event level", nil)
		return
	}

	events, err := h.store.ListEvents(r.Context(), store.ListEventsParams{
		Level:  level,
		Limit:  int64(perPage),
		Offset: int64((page - 1) * perPage),
	})
	if err != nil {
		h.writeInternalError(w, "Failed to list events", err)
		return
	}
	total, err := h.store.CountEvents(r.Context(), level)
	if err != nil {
		h.writeInternalError(w, "Failed to list events", err)
		return
	}
	if events == nil {
		events = []model.Event{}
	}
	WriteSuccess(w, events, paginationMeta(total, page, perPage))
}
