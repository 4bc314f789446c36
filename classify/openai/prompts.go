package openai

import (
	"fmt"
	"strings"

	"github.com/poiesic/newswire/core"
)

const classificationPromptTemplate = `Classify the given article text into exactly one category.

Allowed categories: %s.

Respond with the single category word and nothing else. No punctuation, no
explanation, no preamble. If the text fits none of the categories, respond
with General.

Example:
Input: "The central bank raised interest rates again this quarter."
Output: Finance

Example:
Input: "A recipe for sourdough bread passed down three generations."
Output: General`

// buildSystemPrompt creates the system prompt with the label set embedded.
func buildSystemPrompt() string {
	labels := make([]string, 0, len(core.Categories)+1)
	for _, c := range core.Categories {
		labels = append(labels, string(c))
	}
	labels = append(labels, string(core.CategoryGeneral))
	return fmt.Sprintf(classificationPromptTemplate, strings.Join(labels, ", "))
}
