package cardgen

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	maxFrontLen = 500
	maxBackLen  = 2000
)

// StructuralValidator checks that the deck has cards and every card has
// a non-empty front and back within length limits.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(cards []Draft) *ValidationError {
	if len(cards) == 0 {
		return &ValidationError{Validator: v.Name(), Message: "cards list is empty"}
	}
	for i, c := range cards {
		if strings.TrimSpace(c.Front) == "" {
			return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("card %d: front is empty", i+1)}
		}
		if strings.TrimSpace(c.Back) == "" {
			return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("card %d: back is empty", i+1)}
		}
		if utf8.RuneCountInString(c.Front) > maxFrontLen {
			return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("card %d: front exceeds %d characters", i+1, maxFrontLen)}
		}
		if utf8.RuneCountInString(c.Back) > maxBackLen {
			return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("card %d: back exceeds %d characters", i+1, maxBackLen)}
		}
	}
	return nil
}
