package web

import (
	"net/http"

	"planning/internal/application/orchestrators"
	"planning/internal/application/projections"
	"planning/internal/domain/cart"
	"planning/internal/domain/dayfilter"
)

// daysCookieName holds the signed day filter map.
const daysCookieName = "planning_days"

// planningPage is the data passed to planning.html.
type planningPage struct {
	View     projections.PlanningView
	MaxItems int
}

// readDays decodes the day filter cookie. A missing or tampered cookie yields the default.
func readDays(r *http.Request) dayfilter.State {
	c, err := r.Cookie(daysCookieName)
	if err != nil {
		return dayfilter.Default()
	}
	var m map[string]bool
	if err := dayCookies.Decode(daysCookieName, c.Value, &m); err != nil {
		return dayfilter.Default()
	}
	return dayfilter.Decode(m)
}

// writeDays persists the day filter as a signed cookie.
func writeDays(w http.ResponseWriter, s dayfilter.State) error {
	encoded, err := dayCookies.Encode(daysCookieName, map[string]bool(s))
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     daysCookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// handlePlanning renders the weekly schedule.
// A page load starts a fresh selection: the visitor's cart is emptied.
func handlePlanning(w http.ResponseWriter, r *http.Request) {
	token, ok := visitorToken(w, r)
	if !ok {
		return
	}
	if _, err := orchestrators.ExecuteClearCart(r.Context(), token, orchestrators.CartDeps{Carts: visitors}); err != nil {
		internalError(w, err)
		return
	}

	view, err := projections.QueryGetPlanning(r.Context(), projections.GetPlanningDeps{
		Source:     app.Source,
		Settings:   app.Settings,
		HeaderRows: app.HeaderRows,
		Now:        timeNow,
	}, projections.GetPlanningQuery{Days: readDays(r)})
	if err != nil {
		internalError(w, err)
		return
	}

	renderTemplate(w, r, "planning.html", planningPage{View: view, MaxItems: cart.MaxItems})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}
