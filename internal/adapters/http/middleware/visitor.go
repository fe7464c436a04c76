package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"planning/internal/domain/cart"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const visitorContextKey contextKey = "visitor"

// VisitorCookieName holds the opaque visitor token.
const VisitorCookieName = "planning_visitor"

// DefaultVisitorTTL is how long an idle visitor keeps its cart.
const DefaultVisitorTTL = 2 * time.Hour

// DefaultMaxVisitors bounds the number of carts held in memory.
const DefaultMaxVisitors = 10000

// ErrUnknownVisitor is returned when a token has no live visitor.
var ErrUnknownVisitor = errors.New("unknown or expired visitor")

// visitorState is one anonymous browser session.
type visitorState struct {
	cart     cart.Cart
	lastSeen time.Time
}

// VisitorStore keeps each visitor's cart in memory.
// Carts are never written to disk; a restart empties them.
type VisitorStore struct {
	mu       sync.Mutex
	visitors map[string]*visitorState
	ttl      time.Duration
	limit    int
	now      func() time.Time
}

// NewVisitorStore creates an in-memory visitor store holding at most limit visitors.
// PRE: ttl > 0, or 0 for DefaultVisitorTTL; limit > 0, or 0 for DefaultMaxVisitors
func NewVisitorStore(ttl time.Duration, limit int) *VisitorStore {
	if ttl <= 0 {
		ttl = DefaultVisitorTTL
	}
	if limit <= 0 {
		limit = DefaultMaxVisitors
	}
	return &VisitorStore{
		visitors: make(map[string]*visitorState),
		ttl:      ttl,
		limit:    limit,
		now:      time.Now,
	}
}

// Create registers a visitor with an empty cart and returns its token.
// A full store first drops expired visitors, then the least recently seen one.
// POST: Cart(token) returns an empty cart; Len() <= limit
func (vs *VisitorStore) Create() (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	vs.mu.Lock()
	defer vs.mu.Unlock()
	if len(vs.visitors) >= vs.limit && vs.sweepLocked() == 0 {
		vs.evictOldest()
	}
	vs.visitors[token] = &visitorState{lastSeen: vs.now()}
	return token, nil
}

// evictOldest drops the least recently seen visitor. Caller holds mu.
func (vs *VisitorStore) evictOldest() {
	oldest := ""
	var seen time.Time
	for token, v := range vs.visitors {
		if oldest == "" || v.lastSeen.Before(seen) {
			oldest, seen = token, v.lastSeen
		}
	}
	if oldest != "" {
		delete(vs.visitors, oldest)
		slog.Warn("visitor_evicted", "limit", vs.limit, "idle", vs.now().Sub(seen).String())
	}
}

// lookup returns the live visitor for token. Caller holds mu.
func (vs *VisitorStore) lookup(token string) (*visitorState, bool) {
	v, ok := vs.visitors[token]
	if !ok {
		return nil, false
	}
	if vs.now().Sub(v.lastSeen) > vs.ttl {
		delete(vs.visitors, token)
		return nil, false
	}
	v.lastSeen = vs.now()
	return v, true
}

// Exists reports whether token names a live visitor.
func (vs *VisitorStore) Exists(token string) bool {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	_, ok := vs.lookup(token)
	return ok
}

// Cart returns a snapshot of the visitor's cart.
// PRE: token is non-empty
// POST: Returns false if the visitor is unknown or expired
func (vs *VisitorStore) Cart(token string) (cart.Cart, bool) {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	v, ok := vs.lookup(token)
	if !ok {
		return cart.Cart{}, false
	}
	return v.cart, true
}

// UpdateCart applies fn to the visitor's cart atomically.
// The new cart is stored only when fn returns nil.
// PRE: token names a live visitor
// POST: On error the stored cart is unchanged
func (vs *VisitorStore) UpdateCart(token string, fn func(cart.Cart) (cart.Cart, error)) error {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	v, ok := vs.lookup(token)
	if !ok {
		return ErrUnknownVisitor
	}
	next, err := fn(v.cart)
	if err != nil {
		return err
	}
	v.cart = next
	return nil
}

// Len returns the number of live and not yet swept visitors.
func (vs *VisitorStore) Len() int {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return len(vs.visitors)
}

// Sweep drops expired visitors.
func (vs *VisitorStore) Sweep() int {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return vs.sweepLocked()
}

func (vs *VisitorStore) sweepLocked() int {
	n := 0
	for token, v := range vs.visitors {
		if vs.now().Sub(v.lastSeen) > vs.ttl {
			delete(vs.visitors, token)
			n++
		}
	}
	return n
}

// StartSweeper runs Sweep every interval until ctx is done.
func (vs *VisitorStore) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := vs.Sweep(); n > 0 {
					slog.Debug("visitors_swept", "count", n)
				}
			}
		}
	}()
}

// VisitorConfig configures the Visitors middleware.
// Only requests whose path equals one of Paths or starts with one of Prefixes
// get a visitor; every other request passes through without one.
type VisitorConfig struct {
	Store    *VisitorStore
	Secure   bool
	Paths    []string
	Prefixes []string
}

func (c VisitorConfig) wants(path string) bool {
	for _, p := range c.Paths {
		if path == p {
			return true
		}
	}
	for _, p := range c.Prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Visitors returns middleware that attaches a visitor token to matching requests.
// A matching request without a live visitor cookie gets a new visitor and cookie.
func Visitors(cfg VisitorConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.wants(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			token := ""
			if c, err := r.Cookie(VisitorCookieName); err == nil && cfg.Store.Exists(c.Value) {
				token = c.Value
			}
			if token == "" {
				t, err := cfg.Store.Create()
				if err != nil {
					slog.Error("visitor_create_failed", "error", err)
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
					return
				}
				token = t
				setVisitorCookie(w, token, cfg.Secure)
			}
			next.ServeHTTP(w, r.WithContext(ContextWithVisitor(r.Context(), token)))
		})
	}
}

// VisitorFromContext returns the visitor token set by Visitors.
func VisitorFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(visitorContextKey).(string)
	return token, ok && token != ""
}

// ContextWithVisitor returns a context carrying token.
func ContextWithVisitor(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, visitorContextKey, token)
}

func setVisitorCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     VisitorCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
