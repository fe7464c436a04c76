package web

import (
	"errors"
	"net/http"
	"strconv"

	"planning/internal/adapters/http/middleware"
	"planning/internal/application/orchestrators"
	"planning/internal/domain/cart"
)

// cartItemView is one line of the cart panel.
type cartItemView struct {
	Index int       `json:"index"`
	Label string    `json:"label"`
	Key   string    `json:"key"`
	Item  cart.Item `json:"item"`
}

// cartView is the JSON state of a visitor's cart.
type cartView struct {
	Items         []cartItemView `json:"items"`
	Count         int            `json:"count"`
	Max           int            `json:"max"`
	SubmitEnabled bool           `json:"submit_enabled"`
	AgeCheck      cart.AgeCheck  `json:"age_check"`
	Effects       []cart.Effect  `json:"effects,omitempty"`
}

func newCartView(c cart.Cart, effects []cart.Effect) cartView {
	v := cartView{
		Items:         make([]cartItemView, 0, c.Len()),
		Count:         c.Len(),
		Max:           cart.MaxItems,
		SubmitEnabled: c.SubmitEnabled(),
		AgeCheck:      c.ValidateAgeCompatibility(),
		Effects:       effects,
	}
	for i, it := range c.Items() {
		v.Items = append(v.Items, cartItemView{Index: i, Label: it.Label(), Key: it.Key().String(), Item: it})
	}
	return v
}

// writeCartError maps a cart command error to a JSON response.
// Domain rejections are 409 with the visitor notice; nothing changed.
func writeCartError(w http.ResponseWriter, err error) {
	if errors.Is(err, middleware.ErrUnknownVisitor) {
		writeJSON(w, http.StatusUnauthorized, noticeError{Error: "visitor_expired"})
		return
	}
	if notice := cart.Notice(err); notice != "" {
		writeJSON(w, http.StatusConflict, noticeError{Error: err.Error(), Notice: notice})
		return
	}
	internalError(w, err)
}

func handleGetCart(w http.ResponseWriter, r *http.Request) {
	token, ok := visitorToken(w, r)
	if !ok {
		return
	}
	c, _ := visitors.Cart(token)
	writeJSON(w, http.StatusOK, newCartView(c, nil))
}

// handleAddToCart adds the JSON cart item carried by a cell's data-course attribute.
func handleAddToCart(w http.ResponseWriter, r *http.Request) {
	token, ok := visitorToken(w, r)
	if !ok {
		return
	}
	var item cart.Item
	if err := strictDecode(w, r, &item); err != nil {
		writeJSON(w, http.StatusBadRequest, noticeError{Error: "invalid_item"})
		return
	}
	if err := item.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, noticeError{Error: err.Error()})
		return
	}

	res, err := orchestrators.ExecuteAddToCart(r.Context(), orchestrators.AddToCartInput{Visitor: token, Item: item}, orchestrators.CartDeps{Carts: visitors})
	if err != nil {
		writeCartError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartView(res.Cart, res.Effects))
}

func handleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	token, ok := visitorToken(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, noticeError{Error: "invalid_index"})
		return
	}

	res, err := orchestrators.ExecuteRemoveFromCart(r.Context(), orchestrators.RemoveFromCartInput{Visitor: token, Index: index}, orchestrators.CartDeps{Carts: visitors})
	if err != nil {
		writeCartError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartView(res.Cart, res.Effects))
}

func handleClearCart(w http.ResponseWriter, r *http.Request) {
	token, ok := visitorToken(w, r)
	if !ok {
		return
	}
	res, err := orchestrators.ExecuteClearCart(r.Context(), token, orchestrators.CartDeps{Carts: visitors})
	if err != nil {
		writeCartError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartView(res.Cart, res.Effects))
}
