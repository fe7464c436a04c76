package orchestrators

import (
	"context"
	"errors"
	"sync"

	emailAdapter "planning/internal/adapters/email"
	"planning/internal/domain/booking"
	"planning/internal/domain/cart"
	"planning/internal/domain/settings"
)

var errNoVisitor = errors.New("no visitor")

// memCarts implements CartStoreForOrchestrator.
type memCarts struct {
	mu    sync.Mutex
	carts map[string]cart.Cart
}

func newMemCarts(visitors ...string) *memCarts {
	m := &memCarts{carts: make(map[string]cart.Cart)}
	for _, v := range visitors {
		m.carts[v] = cart.Cart{}
	}
	return m
}

func (m *memCarts) Cart(token string) (cart.Cart, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carts[token]
	return c, ok
}

func (m *memCarts) UpdateCart(token string, fn func(cart.Cart) (cart.Cart, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carts[token]
	if !ok {
		return errNoVisitor
	}
	next, err := fn(c)
	if err != nil {
		return err
	}
	m.carts[token] = next
	return nil
}

// fakeEndpoint implements BookingEndpoint.
type fakeEndpoint struct {
	calls []booking.Request
	err   error
}

func (f *fakeEndpoint) Submit(_ context.Context, req booking.Request) error {
	f.calls = append(f.calls, req)
	return f.err
}

// fakeSettings implements SettingsStoreForOrchestrator.
type fakeSettings struct {
	value   settings.Settings
	seeded  bool
	saves   int
	loadErr error
}

func (f *fakeSettings) Load(context.Context) (settings.Settings, error) {
	return f.value, f.loadErr
}

func (f *fakeSettings) Save(_ context.Context, v settings.Settings) error {
	f.value = v
	f.seeded = true
	f.saves++
	return nil
}

func (f *fakeSettings) IsSeeded(context.Context) (bool, error) {
	return f.seeded, nil
}

// fakeRows implements RowAppender; failAt >= 0 fails that call.
type fakeRows struct {
	rows   [][]string
	failAt int
}

func (f *fakeRows) AppendRow(_ context.Context, row []string) error {
	if f.failAt >= 0 && len(f.rows) == f.failAt {
		return errors.New("sheets unavailable")
	}
	f.rows = append(f.rows, row)
	return nil
}

// fakeBookings implements BookingStoreForOrchestrator.
type fakeBookings struct {
	saved []booking.Record
}

func (f *fakeBookings) Save(_ context.Context, r booking.Record) error {
	f.saved = append(f.saved, r)
	return nil
}

// failingSender rejects every send.
type failingSender struct{}

func (failingSender) Send(context.Context, emailAdapter.SendRequest) (emailAdapter.SendResult, error) {
	return emailAdapter.SendResult{}, errors.New("smtp down")
}

func (failingSender) SendBatch(context.Context, []emailAdapter.SendRequest) ([]emailAdapter.SendResult, error) {
	return nil, errors.New("smtp down")
}
