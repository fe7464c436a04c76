package booking

import (
	"sort"
	"strings"
	"time"

	"planning/internal/domain/course"
)

// Email subjects.
const (
	AdminSubject  = "Nouvelle réservation de cours d'essai"
	ClientSubject = "Confirmation de votre demande de cours d'essai"
	TestSubject   = "Test de notification - Planning Danse"
	TestBody      = "Ceci est un email de test pour vérifier la configuration des notifications.\n\n" +
		"Si vous recevez cet email, la configuration est correcte."
)

// Template placeholders.
const (
	PlaceholderPrenom = "{prenom}"
	PlaceholderNom    = "{nom}"
	PlaceholderCours  = "{liste_cours}"
	PlaceholderDate   = "{date}"
)

// Message is a composed notification. Body is markdown.
type Message struct {
	Subject string
	Body    string
}

// CourseList renders the courses as a nested markdown list.
func (r *Request) CourseList() string {
	var b strings.Builder
	for _, c := range r.Courses {
		b.WriteString("* " + course.OfficialLabel(c.Title) + "\n")
		b.WriteString("   * le " + strings.ToLower(c.Day) + "\n")
		if c.Time != "" {
			b.WriteString("   * " + c.Time + "\n")
		}
		if c.Teacher != "" {
			b.WriteString("   * avec " + c.Teacher + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// AdminMessage lists the courses and every form field for the school.
// Form fields are sorted by key so the message is stable.
func (r *Request) AdminMessage() Message {
	var b strings.Builder
	b.WriteString(AdminSubject + "\n\n")
	b.WriteString("Cours sélectionnés :\n\n")
	b.WriteString(r.CourseList())
	b.WriteString("Informations du client :\n\n")

	keys := make([]string, 0, len(r.Form))
	for k := range r.Form {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString("* " + k + " : " + r.Form[k] + "\n")
	}
	return Message{Subject: AdminSubject, Body: b.String()}
}

// ClientMessage fills tmpl for the visitor, or falls back to the default
// confirmation when tmpl is blank.
func (r *Request) ClientMessage(tmpl, school string, today time.Time) Message {
	if strings.TrimSpace(tmpl) == "" {
		return Message{Subject: r.clientSubject(school), Body: r.defaultClientBody(school)}
	}
	body := strings.NewReplacer(
		PlaceholderPrenom, r.FirstName(),
		PlaceholderNom, r.LastName(),
		PlaceholderCours, r.CourseList(),
		PlaceholderDate, today.Format("02/01/2006"),
	).Replace(tmpl)
	return Message{Subject: r.clientSubject(school), Body: body}
}

func (r *Request) clientSubject(school string) string {
	if school == "" {
		return ClientSubject
	}
	return ClientSubject + " - " + school
}

func (r *Request) defaultClientBody(school string) string {
	var b strings.Builder
	b.WriteString("Bonjour " + r.FirstName() + ",\n\n")
	b.WriteString("Nous avons bien reçu votre demande de cours d'essai pour :\n\n")
	b.WriteString(r.CourseList())
	b.WriteString("Nous reviendrons vers vous rapidement pour confirmer votre réservation.\n\n")
	b.WriteString("À bientôt,\n\n")
	if school != "" {
		b.WriteString("L'équipe " + school)
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}
