package cart

import (
	"errors"
	"fmt"
)

// Notice returns the visitor-facing message for a cart rejection, or "" for other errors.
func Notice(err error) string {
	var mismatch *AgeMismatchError
	switch {
	case errors.Is(err, ErrCartFull):
		return fmt.Sprintf("Vous ne pouvez sélectionner que %d cours maximum", MaxItems)
	case errors.Is(err, ErrDuplicateItem):
		return "Ce cours est déjà dans votre sélection"
	case errors.As(err, &mismatch):
		return "Vous ne pouvez pas mélanger des cours de différentes catégories d'âge.\n" +
			"Vous avez déjà sélectionné un cours pour " + string(mismatch.Existing) + "."
	case errors.Is(err, ErrIndexOutOfRange):
		return "Ce cours n'est plus dans votre sélection"
	}
	return ""
}
