package settings

import (
	"planning/internal/domain/course"
	"planning/internal/domain/teacher"
)

// Default schedule hours.
const (
	DefaultStartTime       = "10:00"
	DefaultEndTime         = "22:15"
	DefaultNoSpectacleText = "Cours non concerné par le spectacle"
)

// DefaultCategories returns the course families seeded on first start.
func DefaultCategories() []course.Category {
	return []course.Category{
		{Slug: "modern-jazz", Name: "Modern Jazz", Background: "#dd4b5c", Text: "#ffffff"},
		{Slug: "classique", Name: "Classique", Background: "#ffa431", Text: "#ffffff"},
		{Slug: "contemporain", Name: "Contemporain", Background: "#2c9ec3", Text: "#ffffff"},
		{Slug: "barre", Name: "Barre", Background: "#ae3770", Text: "#ffffff"},
		{Slug: "eveil", Name: "Eveil", Background: "#2fc275", Text: "#ffffff"},
		{Slug: "initiation", Name: "Initiation", Background: "#2fc275", Text: "#ffffff"},
		{Slug: "strech", Name: "Strech", Background: "#ae3770", Text: "#ffffff"},
		{Slug: "scene", Name: "Scène", Background: "#142636", Text: "#ffffff"},
		{Slug: "training", Name: "Training", Background: "#ffb366", Text: "#ffffff"},
		{Slug: "creation", Name: "Création", Background: "#142636", Text: "#ffffff"},
	}
}

// DefaultFormFields returns the booking modal inputs seeded on first start.
func DefaultFormFields() []FormField {
	return []FormField{
		{Type: FieldText, Label: "Nom", Required: true, Placeholder: "Votre nom"},
		{Type: FieldText, Label: "Prénom", Required: true, Placeholder: "Votre prénom"},
		{Type: FieldEmail, Label: "Email", Required: true, Placeholder: "votre@email.com"},
		{Type: FieldTel, Label: "Téléphone", Required: true, Placeholder: "06 12 34 56 78"},
		{Type: FieldDate, Label: "Date de naissance", Required: true},
	}
}

// DefaultRibbon returns the "COMPLET" ribbon colours.
func DefaultRibbon() Ribbon {
	return Ribbon{Background: "#EC365B", Text: "#ffffff", Corners: "#BE2D4A"}
}

// Defaults returns a complete settings aggregate with an empty roster and a closed booking window.
func Defaults() Settings {
	return Settings{
		Categories:      DefaultCategories(),
		Teachers:        []teacher.Teacher{},
		NoSpectacleText: DefaultNoSpectacleText,
		TeacherStyle:    teacher.StylePhoto,
		FormFields:      DefaultFormFields(),
		Ribbon:          DefaultRibbon(),
		StartTime:       DefaultStartTime,
		EndTime:         DefaultEndTime,
	}
}
