package domain

import (
	"fmt"
	"strings"
)

// Category is the worker's employment category. It selects the special
// deduction and the contribution schedule.
type Category string

const (
	// CategoryAutonomous is a self-employed worker (autónomo) paying a flat contribution scale.
	CategoryAutonomous Category = "autonomous"
	// CategoryDependent is a salaried worker (relación de dependencia).
	CategoryDependent Category = "dependent"
)

// Validate reports ErrInvalidCategory for anything but the two known categories.
func (c Category) Validate() error {
	switch c {
	case CategoryAutonomous, CategoryDependent:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidCategory, string(c))
	}
}

// ParseCategory accepts the canonical names and their Spanish equivalents.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "autonomous", "autonomo", "autónomo":
		return CategoryAutonomous, nil
	case "dependent", "relacion_de_dependencia", "relación de dependencia", "rel_dep":
		return CategoryDependent, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
}
