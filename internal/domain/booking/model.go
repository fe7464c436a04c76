package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"planning/internal/domain/cart"
	"planning/internal/domain/course"
)

// Field labels read from the booking form.
const (
	FieldNom       = "Nom"
	FieldPrenom    = "Prénom"
	FieldBirthDate = "Date de naissance"
)

// emailKeys and phoneKeys are tried in order; the first present key wins.
var (
	emailKeys = []string{"email", "Email", "E-mail"}
	phoneKeys = []string{"Téléphone", "Télephone", "telephone", "Tel", "tel", "TEL", "Phone", "phone"}
)

// SheetColumns is the width of one booking row in the spreadsheet (A..S).
const SheetColumns = 19

// Visitor-facing outcome messages.
const (
	SuccessNotice = "Votre réservation a été envoyée avec succès !"
	FailureNotice = "Une erreur est survenue lors de l'envoi de votre réservation."
)

// Domain errors
var (
	ErrNoCourses      = errors.New("booking must contain at least one course")
	ErrTooManyCourses = errors.New("booking exceeds the maximum number of courses")
	ErrEmptyForm      = errors.New("booking form is empty")
	ErrNoEmail        = errors.New("booking form has no email address")
)

// Request is the payload sent to the submission endpoint.
type Request struct {
	Courses []cart.Item       `json:"courses"`
	Form    map[string]string `json:"form"`
}

// Validate checks if the Request has valid data.
// PRE: Request struct is populated
// POST: Returns nil if valid, error otherwise
func (r *Request) Validate() error {
	if len(r.Courses) == 0 {
		return ErrNoCourses
	}
	if len(r.Courses) > cart.MaxItems {
		return ErrTooManyCourses
	}
	for i, c := range r.Courses {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("course %d: %w", i, err)
		}
	}
	if len(r.Form) == 0 {
		return ErrEmptyForm
	}
	if r.Email() == "" {
		return ErrNoEmail
	}
	return nil
}

// Email returns the visitor's address from the first email-like form key.
func (r *Request) Email() string {
	return firstOf(r.Form, emailKeys)
}

// Phone returns the visitor's phone from the first phone-like form key.
func (r *Request) Phone() string {
	return firstOf(r.Form, phoneKeys)
}

// FirstName returns the "Prénom" field.
func (r *Request) FirstName() string {
	return r.Form[FieldPrenom]
}

// LastName returns the "Nom" field.
func (r *Request) LastName() string {
	return r.Form[FieldNom]
}

func firstOf(form map[string]string, keys []string) string {
	for _, k := range keys {
		if v, ok := form[k]; ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// SheetRow builds the spreadsheet row recording one booked course.
// Unused columns stay empty so the school's manual columns line up.
// POST: len(row) == SheetColumns
func (r *Request) SheetRow(item cart.Item, today time.Time) []string {
	row := make([]string, SheetColumns)
	row[1] = r.LastName()
	row[2] = r.FirstName()
	row[4] = course.OfficialLabel(item.Title)
	row[7] = r.Form[FieldBirthDate]
	row[9] = r.Email()
	row[10] = r.Phone()
	row[16] = today.Format("2006-01-02")
	return row
}

// SheetRows returns one row per course, in cart order.
func (r *Request) SheetRows(today time.Time) [][]string {
	rows := make([][]string, 0, len(r.Courses))
	for _, c := range r.Courses {
		rows = append(rows, r.SheetRow(c, today))
	}
	return rows
}

// Labels returns the official label of every course, in cart order.
func (r *Request) Labels() []string {
	out := make([]string, len(r.Courses))
	for i, c := range r.Courses {
		out[i] = course.OfficialLabel(c.Title)
	}
	return out
}

// Record is a booking as kept in the local booking log.
type Record struct {
	ID        string
	Request   Request
	CreatedAt time.Time
}

// Validate checks if the Record has valid data.
// PRE: Record struct is populated
// POST: Returns nil if valid, error otherwise
func (r *Record) Validate() error {
	if r.ID == "" {
		return errors.New("booking ID is required")
	}
	if r.CreatedAt.IsZero() {
		return errors.New("created_at must be set")
	}
	return r.Request.Validate()
}
