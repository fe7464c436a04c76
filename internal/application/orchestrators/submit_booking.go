package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"planning/internal/domain/booking"
	"planning/internal/domain/cart"
)

// Domain errors
var (
	ErrSubmissionFailed = errors.New("booking submission failed")
	ErrSubmitDisabled   = errors.New("cart is empty or mixes age categories")
	ErrNoCart           = errors.New("visitor has no cart")
)

// BookingEndpoint accepts one booking request.
type BookingEndpoint interface {
	Submit(ctx context.Context, req booking.Request) error
}

// SubmitBookingInput carries the visitor and the filled booking form.
type SubmitBookingInput struct {
	Visitor string
	Form    map[string]string
}

// SubmitBookingDeps holds dependencies for ExecuteSubmitBooking.
type SubmitBookingDeps struct {
	Carts    CartStoreForOrchestrator
	Endpoint BookingEndpoint
}

// SubmitBookingResult reports the outcome shown to the visitor.
type SubmitBookingResult struct {
	Request booking.Request
	Effects []cart.Effect
	Notice  string
}

// ExecuteSubmitBooking sends the visitor's cart to the booking endpoint once.
// PRE: input.Visitor names a live visitor
// POST: On success the cart is empty and the panel and modal close;
// on failure the cart is unchanged and the error wraps ErrSubmissionFailed
func ExecuteSubmitBooking(ctx context.Context, input SubmitBookingInput, deps SubmitBookingDeps) (SubmitBookingResult, error) {
	snapshot, ok := deps.Carts.Cart(input.Visitor)
	if !ok {
		return SubmitBookingResult{}, ErrNoCart
	}
	if !snapshot.SubmitEnabled() {
		return SubmitBookingResult{}, ErrSubmitDisabled
	}

	req := booking.Request{Courses: snapshot.Items(), Form: input.Form}
	if err := deps.Endpoint.Submit(ctx, req); err != nil {
		slog.Warn("booking_submission_failed", "courses", len(req.Courses), "error", err)
		return SubmitBookingResult{Request: req, Notice: booking.FailureNotice},
			fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}

	res, err := ExecuteClearCart(ctx, input.Visitor, CartDeps{Carts: deps.Carts})
	if err != nil {
		return SubmitBookingResult{}, fmt.Errorf("clear cart after submission: %w", err)
	}
	effects := append(res.Effects,
		cart.Effect{Kind: cart.EffectCloseModal},
		cart.Effect{Kind: cart.EffectClosePanel},
	)

	slog.Info("booking_submission_succeeded", "courses", len(req.Courses))
	return SubmitBookingResult{Request: req, Effects: effects, Notice: booking.SuccessNotice}, nil
}
