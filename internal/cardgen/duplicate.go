package cardgen

import (
	"strings"

	"github.com/samber/lo"
)

// DuplicateValidator rejects decks of several cards that all ask the
// same thing.
type DuplicateValidator struct{}

func (v *DuplicateValidator) Name() string { return "duplicate" }

func (v *DuplicateValidator) Validate(cards []Draft) *ValidationError {
	if len(cards) < 2 {
		return nil
	}
	fronts := lo.Uniq(lo.Map(cards, func(c Draft, _ int) string { return normalize(c.Front) }))
	if len(fronts) == 1 {
		return &ValidationError{Validator: v.Name(), Message: "every card repeats the same front"}
	}
	return nil
}

// dedupe drops cards whose front and back both repeat an earlier card.
func dedupe(cards []Draft) []Draft {
	return lo.UniqBy(cards, func(c Draft) string {
		return normalize(c.Front) + "\x00" + normalize(c.Back)
	})
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
