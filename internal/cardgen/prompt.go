package cardgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/flashai/internal/llm"
)

const systemPrompt = "You are an expert tutor. Create a set of flashcards from the provided text, images, or documents. " +
	"Focus on key terms, definitions, dates, and core concepts. " +
	"The 'front' should be a question, concept, or term. " +
	"The 'back' should be a concise definition, answer, or explanation."

const instruction = "Create comprehensive flashcards for the following content. Return a strictly valid JSON object."

// buildMessage assembles the single user message for input. Text files are
// inlined into the content, images and PDFs become attachments. The names
// of files that were skipped are returned alongside.
func buildMessage(input Input) (msg llm.Message, skipped []string) {
	var b strings.Builder
	b.WriteString(instruction)

	if strings.TrimSpace(input.Text) != "" {
		fmt.Fprintf(&b, "\n\nContext Note: %s", input.Text)
	}

	msg = llm.UserMessage("")
	for _, f := range input.Files {
		switch Classify(f.MIMEType) {
		case KindInline:
			msg.Attachments = append(msg.Attachments, llm.Attachment{
				MIMEType: baseMIME(f.MIMEType),
				Data:     f.Data,
			})
		case KindText:
			fmt.Fprintf(&b, "\n\nFile Content (%s):\n%s", f.Name, string(f.Data))
		default:
			skipped = append(skipped, f.Name)
		}
	}
	msg.Content = b.String()
	return msg, skipped
}

// hasMaterial reports whether input carries anything to generate from.
func hasMaterial(input Input) bool {
	if strings.TrimSpace(input.Text) != "" {
		return true
	}
	for _, f := range input.Files {
		if Classify(f.MIMEType) != KindIgnored && len(f.Data) > 0 {
			return true
		}
	}
	return false
}
