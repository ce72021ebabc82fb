package cardgen

import "github.com/abhisek/flashai/internal/llm"

// DeckSchema defines the JSON schema for generated flashcard decks.
var DeckSchema = &llm.Schema{
	Name:        "flashcard-deck",
	Description: "A set of question/answer flashcards covering the supplied material",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"cards": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"front": map[string]any{
							"type":        "string",
							"description": "A question, concept or term",
						},
						"back": map[string]any{
							"type":        "string",
							"description": "A concise definition, answer or explanation",
						},
					},
					"required":             []any{"front", "back"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"cards"},
		"additionalProperties": false,
	},
}
