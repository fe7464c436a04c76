package web

import (
	"errors"
	"net/http"

	"planning/internal/application/orchestrators"
	"planning/internal/domain/dayfilter"
)

// daysView is the JSON state of the day filter.
type daysView struct {
	Days   dayfilter.State `json:"days"`
	Notice string          `json:"notice,omitempty"`
}

func handleGetDays(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, daysView{Days: readDays(r)})
}

// handleToggleDay flips one day and rewrites the cookie.
// Rejections leave the cookie untouched and return the current state with a notice.
func handleToggleDay(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Day string `json:"day"`
	}
	if err := strictDecode(w, r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, noticeError{Error: "invalid_body"})
		return
	}

	current := readDays(r)
	next, err := orchestrators.ExecuteToggleDay(orchestrators.ToggleDayInput{State: current, Day: body.Day})
	switch {
	case errors.Is(err, dayfilter.ErrLastVisibleDay):
		writeJSON(w, http.StatusConflict, daysView{Days: current, Notice: dayfilter.LastDayNotice})
		return
	case errors.Is(err, dayfilter.ErrUnknownDay):
		writeJSON(w, http.StatusBadRequest, noticeError{Error: err.Error()})
		return
	case err != nil:
		internalError(w, err)
		return
	}

	if err := writeDays(w, next); err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, daysView{Days: next})
}
