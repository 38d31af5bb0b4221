package ai

import "strings"

const categoryPrompt = `You sort groceries for a home fridge inventory.

Rules:

* Pick exactly one category for the product name you are given.
* Answer with the category slug wrapped in dollar signs, for example $dairy$.
* Use only slugs from the list below. If nothing fits, answer $other$.
* Product names may be in any language (often Russian or English).
* No explanations, no extra text.`

// BuildCategoryPrompt lists the allowed slugs after the fixed instructions.
func BuildCategoryPrompt(slugs []string) string {
	parts := []string{categoryPrompt, "Allowed slugs: " + strings.Join(slugs, ", ")}
	return strings.Join(parts, "\n\n")
}
