package deck

import (
	"encoding/json"
	"time"

	"github.com/samber/lo"
)

// Deck is a named, timestamped collection of cards. A deck owns its cards.
type Deck struct {
	ID        string
	Name      string
	Cards     []Card
	CreatedAt time.Time
}

// Clone returns a deep copy of d.
func (d Deck) Clone() Deck {
	out := d
	out.Cards = make([]Card, len(d.Cards))
	for i, c := range d.Cards {
		out.Cards[i] = c.Clone()
	}
	return out
}

// Merge returns a copy of d where every card whose ID appears in updated is
// replaced by the updated version. Deck order is preserved; updated cards
// unknown to the deck are ignored.
func (d Deck) Merge(updated []Card) Deck {
	byID := lo.KeyBy(updated, func(c Card) string { return c.ID })
	out := d
	out.Cards = make([]Card, len(d.Cards))
	for i, orig := range d.Cards {
		if u, ok := byID[orig.ID]; ok {
			out.Cards[i] = u.Clone()
			continue
		}
		out.Cards[i] = orig.Clone()
	}
	return out
}

type deckJSON struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Cards     []Card `json:"cards"`
	CreatedAt int64  `json:"createdAt"`
}

func (d Deck) MarshalJSON() ([]byte, error) {
	cards := d.Cards
	if cards == nil {
		cards = []Card{}
	}
	return json.Marshal(deckJSON{
		ID:        d.ID,
		Name:      d.Name,
		Cards:     cards,
		CreatedAt: toMillis(d.CreatedAt),
	})
}

func (d *Deck) UnmarshalJSON(data []byte) error {
	var raw deckJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*d = Deck{
		ID:        raw.ID,
		Name:      raw.Name,
		Cards:     raw.Cards,
		CreatedAt: fromMillis(raw.CreatedAt),
	}
	return nil
}

// Library is the ordered collection of decks, newest first.
type Library []Deck

// Find returns the deck with the given ID.
func (l Library) Find(id string) (Deck, bool) {
	for _, d := range l {
		if d.ID == id {
			return d, true
		}
	}
	return Deck{}, false
}

// Prepend returns a new library with d at the front.
func (l Library) Prepend(d Deck) Library {
	out := make(Library, 0, len(l)+1)
	out = append(out, d)
	return append(out, l...)
}

// Replace returns a new library with the deck matching d.ID swapped for d.
// The second result is false if no deck matched.
func (l Library) Replace(d Deck) (Library, bool) {
	out := make(Library, len(l))
	found := false
	for i, existing := range l {
		if existing.ID == d.ID {
			out[i] = d
			found = true
			continue
		}
		out[i] = existing
	}
	return out, found
}

// Remove returns a new library without the deck with the given ID.
func (l Library) Remove(id string) (Library, bool) {
	out := make(Library, 0, len(l))
	found := false
	for _, d := range l {
		if d.ID == id {
			found = true
			continue
		}
		out = append(out, d)
	}
	return out, found
}

// CardCount returns the total number of cards across all decks.
func (l Library) CardCount() int {
	n := 0
	for _, d := range l {
		n += len(d.Cards)
	}
	return n
}
