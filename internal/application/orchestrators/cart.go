package orchestrators

import (
	"context"
	"log/slog"

	"planning/internal/domain/cart"
)

// CartStoreForOrchestrator holds one cart per visitor.
// UpdateCart must apply fn atomically and store its result only when fn returns nil.
type CartStoreForOrchestrator interface {
	Cart(token string) (cart.Cart, bool)
	UpdateCart(token string, fn func(cart.Cart) (cart.Cart, error)) error
}

// CartDeps holds dependencies for the cart commands.
type CartDeps struct {
	Carts CartStoreForOrchestrator
}

// CartResult is the state after a cart command and what changed.
type CartResult struct {
	Cart    cart.Cart
	Effects []cart.Effect
}

// AddToCartInput carries one course selection.
type AddToCartInput struct {
	Visitor string
	Item    cart.Item
}

// ExecuteAddToCart adds a course to the visitor's cart.
// PRE: input.Visitor names a live visitor
// POST: On rejection the stored cart is unchanged and the error is a cart domain error
func ExecuteAddToCart(_ context.Context, input AddToCartInput, deps CartDeps) (CartResult, error) {
	var res CartResult
	err := deps.Carts.UpdateCart(input.Visitor, func(c cart.Cart) (cart.Cart, error) {
		next, effects, err := c.Add(input.Item)
		if err != nil {
			return c, err
		}
		res = CartResult{Cart: next, Effects: effects}
		return next, nil
	})
	if err != nil {
		slog.Info("cart_add_rejected", "key", input.Item.Key().String(), "reason", err.Error())
		return CartResult{}, err
	}
	slog.Debug("cart_item_added", "key", input.Item.Key().String(), "count", res.Cart.Len())
	return res, nil
}

// RemoveFromCartInput names a cart position.
type RemoveFromCartInput struct {
	Visitor string
	Index   int
}

// ExecuteRemoveFromCart removes the item at input.Index.
// PRE: input.Visitor names a live visitor
// POST: Only the removed key is unmarked
func ExecuteRemoveFromCart(_ context.Context, input RemoveFromCartInput, deps CartDeps) (CartResult, error) {
	var res CartResult
	err := deps.Carts.UpdateCart(input.Visitor, func(c cart.Cart) (cart.Cart, error) {
		next, effects, err := c.Remove(input.Index)
		if err != nil {
			return c, err
		}
		res = CartResult{Cart: next, Effects: effects}
		return next, nil
	})
	if err != nil {
		return CartResult{}, err
	}
	return res, nil
}

// ExecuteClearCart empties the visitor's cart unconditionally.
// POST: Cart is empty; effects carry a zero count and unmark all
func ExecuteClearCart(_ context.Context, visitor string, deps CartDeps) (CartResult, error) {
	var res CartResult
	err := deps.Carts.UpdateCart(visitor, func(c cart.Cart) (cart.Cart, error) {
		next, effects := c.Clear()
		res = CartResult{Cart: next, Effects: effects}
		return next, nil
	})
	if err != nil {
		return CartResult{}, err
	}
	return res, nil
}
