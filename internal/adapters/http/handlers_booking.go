package web

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"planning/internal/application/orchestrators"
	"planning/internal/domain/booking"
	"planning/internal/domain/cart"
)

// Endpoint response messages.
const (
	msgBookingRecorded    = "Réservation envoyée avec succès"
	msgMissingData        = "Données manquantes"
	msgInvalidData        = "Données invalides"
	msgUnauthorized       = "Requête non autorisée"
	msgAppendFailed       = "Erreur lors de l'ajout des données"
	msgNotificationFailed = "Erreur lors de l'envoi des notifications"
	msgEmptySelection     = "Veuillez sélectionner au moins un cours"
)

// envelope is the submission endpoint response.
type envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// submitResponse is the visitor-facing outcome of a submit.
type submitResponse struct {
	Notice  string        `json:"notice"`
	Effects []cart.Effect `json:"effects,omitempty"`
	Cart    *cartView     `json:"cart,omitempty"`
}

// handleSubmitBooking sends the visitor's cart and the modal form to the booking endpoint.
func handleSubmitBooking(w http.ResponseWriter, r *http.Request) {
	token, ok := visitorToken(w, r)
	if !ok {
		return
	}
	var body struct {
		Form map[string]string `json:"form"`
	}
	if err := strictDecode(w, r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, noticeError{Error: "invalid_body", Notice: msgInvalidData})
		return
	}

	res, err := orchestrators.ExecuteSubmitBooking(r.Context(), orchestrators.SubmitBookingInput{
		Visitor: token,
		Form:    body.Form,
	}, orchestrators.SubmitBookingDeps{Carts: visitors, Endpoint: app.Endpoint})
	switch {
	case errors.Is(err, orchestrators.ErrNoCart):
		writeJSON(w, http.StatusUnauthorized, noticeError{Error: "visitor_expired"})
		return
	case errors.Is(err, orchestrators.ErrSubmitDisabled):
		c, _ := visitors.Cart(token)
		notice := msgEmptySelection
		if check := c.ValidateAgeCompatibility(); !check.Valid {
			notice = check.Message
		}
		writeJSON(w, http.StatusConflict, noticeError{Error: err.Error(), Notice: notice})
		return
	case errors.Is(err, orchestrators.ErrSubmissionFailed):
		writeJSON(w, http.StatusBadGateway, noticeError{Error: "submission_failed", Notice: res.Notice})
		return
	case err != nil:
		internalError(w, err)
		return
	}

	c, _ := visitors.Cart(token)
	view := newCartView(c, nil)
	writeJSON(w, http.StatusOK, submitResponse{Notice: res.Notice, Effects: res.Effects, Cart: &view})
}

// decodeBookingRequest reads a JSON body or urlencoded `courses` and `form` fields.
// The second return value is the nonce sent by urlencoded clients.
func decodeBookingRequest(w http.ResponseWriter, r *http.Request) (booking.Request, string, error) {
	var req booking.Request
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			booking.Request
			Action string `json:"action"`
			Nonce  string `json:"nonce"`
		}
		if err := strictDecode(w, r, &body); err != nil {
			return req, "", err
		}
		return body.Request, body.Nonce, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return req, "", err
	}
	courses, form := r.PostForm.Get("courses"), r.PostForm.Get("form")
	if courses == "" || form == "" {
		return req, "", errMissingData
	}
	if err := json.Unmarshal([]byte(courses), &req.Courses); err != nil {
		return req, "", err
	}
	if err := json.Unmarshal([]byte(form), &req.Form); err != nil {
		return req, "", err
	}
	return req, r.PostForm.Get("nonce"), nil
}

var errMissingData = errors.New("courses or form field missing")

// handleRecordBooking is the submission endpoint: sheet rows, local log and notifications.
func handleRecordBooking(w http.ResponseWriter, r *http.Request) {
	req, nonce, err := decodeBookingRequest(w, r)
	if errors.Is(err, errMissingData) {
		writeJSON(w, http.StatusBadRequest, envelope{Data: msgMissingData})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Data: msgInvalidData})
		return
	}
	if app.BookingNonce != "" && subtle.ConstantTimeCompare([]byte(nonce), []byte(app.BookingNonce)) != 1 {
		slog.Warn("booking_nonce_rejected")
		writeJSON(w, http.StatusForbidden, envelope{Data: msgUnauthorized})
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Data: msgInvalidData})
		return
	}

	rec, err := orchestrators.ExecuteRecordBooking(r.Context(), req, app.Recorder)
	switch {
	case errors.Is(err, orchestrators.ErrNotificationFailed):
		writeJSON(w, http.StatusBadGateway, envelope{Data: msgNotificationFailed})
		return
	case err != nil:
		slog.Error("booking_record_failed", "error", err)
		writeJSON(w, http.StatusBadGateway, envelope{Data: msgAppendFailed})
		return
	}

	slog.Info("booking_endpoint_accepted", "booking_id", rec.ID, "courses", len(req.Courses))
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: msgBookingRecorded})
}
