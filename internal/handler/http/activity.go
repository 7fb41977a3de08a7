package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/opsbase/itvault/internal/logger"
	"github.com/opsbase/itvault/internal/store"
	"github.com/opsbase/itvault/internal/utils"
)

// listActivity serves the activity view. Filters come in as query
// parameters: user_id, action, since, until (RFC 3339), limit.
func (h *Handler) listActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	filter, err := activityFilterFromQuery(r)
	if err != nil {
		log.Err(err).Msg("invalid activity filter")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entries, err := h.activity.List(ctx, filter)
	if err != nil {
		log.Err(err).Msg("unexpected error occurred during activity listing")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]any{"entries": entries}, http.StatusOK)
}

func activityFilterFromQuery(r *http.Request) (store.ActivityFilter, error) {
	var filter store.ActivityFilter
	query := r.URL.Query()

	if raw := query.Get("user_id"); raw != "" {
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return store.ActivityFilter{}, err
		}
		filter.UserID = &userID
	}

	filter.Action = query.Get("action")

	if raw := query.Get("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return store.ActivityFilter{}, err
		}
		filter.Since = since
	}

	if raw := query.Get("until"); raw != "" {
		until, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return store.ActivityFilter{}, err
		}
		filter.Until = until
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return store.ActivityFilter{}, err
		}
		filter.Limit = limit
	}

	return filter, nil
}
