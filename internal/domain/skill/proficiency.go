package skill

import (
	"errors"
	"strings"
)

var ErrInvalidProficiency = errors.New("invalid proficiency level")

var ProficiencyLevels = []string{"Beginner", "Intermediate", "Advanced", "Expert"}

// NormalizeProficiency maps a case-insensitive level to its display form.
// Empty input defaults to Beginner.
func NormalizeProficiency(raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return ProficiencyLevels[0], nil
	}
	for _, l := range ProficiencyLevels {
		if strings.EqualFold(l, v) {
			return l, nil
		}
	}
	return "", ErrInvalidProficiency
}
