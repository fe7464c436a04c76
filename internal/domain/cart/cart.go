package cart

import (
	"errors"
	"fmt"
	"strings"

	"planning/internal/domain/course"
)

// MaxItems is the number of trial courses a visitor may select at once.
const MaxItems = 3

// Domain errors
var (
	ErrCartFull        = errors.New("cart already holds the maximum number of courses")
	ErrDuplicateItem   = errors.New("course is already in the cart")
	ErrIndexOutOfRange = errors.New("cart index out of range")
	ErrEmptyTitle      = errors.New("cart item title cannot be empty")
	ErrEmptyDay        = errors.New("cart item day cannot be empty")
)

// AgeMismatchError rejects an item whose age category is absent from the cart.
type AgeMismatchError struct {
	Existing course.AgeCategory
	New      course.AgeCategory
}

// Error implements error.
func (e *AgeMismatchError) Error() string {
	return fmt.Sprintf("age category %s conflicts with %s already in the cart", e.New, e.Existing)
}

// Item is one selected course. JSON keys match the submission payload.
type Item struct {
	Title   string `json:"title"`
	Time    string `json:"time"`
	Day     string `json:"day"`
	Teacher string `json:"teacher"`
}

// Key is the identity of a cart item: exact string equality on title, day and time.
type Key struct {
	Title string
	Day   string
	Time  string
}

// String renders the key the way the page tags a selectable cell.
func (k Key) String() string {
	return k.Title + "|" + k.Day + "|" + k.Time
}

// Key returns the item's identity.
func (i Item) Key() Key {
	return Key{Title: i.Title, Day: i.Day, Time: i.Time}
}

// Age resolves the item's age category from its raw course text.
func (i Item) Age() course.AgeCategory {
	return course.ParseAgeCategory(i.Title)
}

// Label returns the item's display title.
func (i Item) Label() string {
	return course.ExtractTitle(i.Title)
}

// Validate checks if the Item has valid data.
// PRE: Item struct is populated
// POST: Returns nil if valid, error otherwise
func (i Item) Validate() error {
	if strings.TrimSpace(i.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(i.Day) == "" {
		return ErrEmptyDay
	}
	return nil
}

// EffectKind names an observable consequence of a cart command.
type EffectKind string

// Effect kinds
const (
	EffectCountChanged EffectKind = "count_changed"
	EffectOpenPanel    EffectKind = "open_panel"
	EffectClosePanel   EffectKind = "close_panel"
	EffectMark         EffectKind = "mark_selected"
	EffectUnmark       EffectKind = "unmark_selected"
	EffectUnmarkAll    EffectKind = "unmark_all"
	EffectCloseModal   EffectKind = "close_modal"
)

// Effect describes what observers should reflect after a command.
// Count is set for EffectCountChanged, Key for EffectMark and EffectUnmark.
type Effect struct {
	Kind  EffectKind `json:"kind"`
	Count int        `json:"count"`
	Key   string     `json:"key,omitempty"`
}

// Cart is an ordered selection of at most MaxItems courses.
// Methods never mutate the receiver; they return the next state.
type Cart struct {
	items []Item
}

// New builds a cart from items without validation. Used to restore snapshots.
func New(items ...Item) Cart {
	return Cart{items: append([]Item(nil), items...)}
}

// Items returns a copy of the items in selection order.
func (c Cart) Items() []Item {
	return append([]Item(nil), c.items...)
}

// Len returns the number of items.
func (c Cart) Len() int {
	return len(c.items)
}

// IsEmpty reports whether the cart holds no item.
func (c Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Contains reports whether an item with key k is selected.
func (c Cart) Contains(k Key) bool {
	for _, it := range c.items {
		if it.Key() == k {
			return true
		}
	}
	return false
}

// Add appends item.
// PRE: item passed Validate
// POST: On success the cart grows by one and effects are count, open panel, mark;
// on rejection the returned cart equals c and no effect is emitted
func (c Cart) Add(item Item) (Cart, []Effect, error) {
	if len(c.items) >= MaxItems {
		return c, nil, ErrCartFull
	}
	if c.Contains(item.Key()) {
		return c, nil, ErrDuplicateItem
	}
	if age := item.Age(); age != course.AgeNone {
		existing := c.ageCategories()
		if len(existing) > 0 && !containsAge(existing, age) {
			return c, nil, &AgeMismatchError{Existing: existing[0], New: age}
		}
	}

	next := Cart{items: append(c.Items(), item)}
	return next, []Effect{
		{Kind: EffectCountChanged, Count: next.Len()},
		{Kind: EffectOpenPanel},
		{Kind: EffectMark, Key: item.Key().String()},
	}, nil
}

// Remove deletes the item at index, keeping the others in order.
// POST: Only the removed item's key is unmarked
func (c Cart) Remove(index int) (Cart, []Effect, error) {
	if index < 0 || index >= len(c.items) {
		return c, nil, fmt.Errorf("remove %d of %d: %w", index, len(c.items), ErrIndexOutOfRange)
	}
	removed := c.items[index]
	items := make([]Item, 0, len(c.items)-1)
	items = append(items, c.items[:index]...)
	items = append(items, c.items[index+1:]...)

	next := Cart{items: items}
	return next, []Effect{
		{Kind: EffectCountChanged, Count: next.Len()},
		{Kind: EffectUnmark, Key: removed.Key().String()},
	}, nil
}

// Clear empties the cart unconditionally.
func (c Cart) Clear() (Cart, []Effect) {
	return Cart{}, []Effect{
		{Kind: EffectCountChanged, Count: 0},
		{Kind: EffectUnmarkAll},
	}
}

// AgeCheck is the outcome of ValidateAgeCompatibility.
type AgeCheck struct {
	Valid      bool                 `json:"valid"`
	Categories []course.AgeCategory `json:"categories"`
	Message    string               `json:"message,omitempty"`
}

// ValidateAgeCompatibility recomputes the age invariant over the current items.
// Items without a category never conflict.
// POST: Categories is deduplicated in first-seen order; Message names all of them when invalid
func (c Cart) ValidateAgeCompatibility() AgeCheck {
	cats := c.ageCategories()
	check := AgeCheck{Valid: len(cats) <= 1, Categories: cats}
	if !check.Valid {
		names := make([]string, len(cats))
		for i, a := range cats {
			names[i] = string(a)
		}
		check.Message = fmt.Sprintf("Vous ne pouvez pas mélanger différentes catégories d'âge (%s) dans votre sélection.", strings.Join(names, ", "))
	}
	return check
}

// SubmitEnabled reports whether the booking form may be submitted.
func (c Cart) SubmitEnabled() bool {
	return !c.IsEmpty() && c.ValidateAgeCompatibility().Valid
}

func (c Cart) ageCategories() []course.AgeCategory {
	var out []course.AgeCategory
	for _, it := range c.items {
		a := it.Age()
		if a == course.AgeNone || containsAge(out, a) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func containsAge(list []course.AgeCategory, a course.AgeCategory) bool {
	for _, x := range list {
		if x == a {
			return true
		}
	}
	return false
}
