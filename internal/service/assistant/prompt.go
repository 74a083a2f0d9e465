package assistant

import (
	"fmt"
	"strings"

	"waygen/internal/models"
)

const notSpecified = "Not specified"

const (
	profileInstruction = "Please provide personalized career guidance based on the user's profile " +
		"and use the available tools (CareerDocs and WebSearch) to get accurate, up-to-date information."
	plainInstruction = "Please provide career guidance using the available tools " +
		"(CareerDocs and WebSearch) to get accurate, up-to-date information."
)

// BuildPrompt composes the final prompt sent to the reasoning agent.
// With a profile, every field appears under a fixed label and missing
// fields render as "Not specified"; without one, the prompt is just the
// verbatim question plus the tool-grounding instruction. Pure and
// deterministic.
func BuildPrompt(userText string, profile *models.Profile) string {
	var b strings.Builder
	if profile != nil {
		b.WriteString("User profile:\n")
		fmt.Fprintf(&b, "Country: %s\n", orNotSpecified(profile.Country))
		fmt.Fprintf(&b, "Education: %s\n", orNotSpecified(profile.Education))
		fmt.Fprintf(&b, "Interest: %s\n", orNotSpecified(profile.Interest))
		fmt.Fprintf(&b, "Budget: %s\n", orNotSpecified(profile.Budget))
		fmt.Fprintf(&b, "Time Available: %s\n", orNotSpecified(profile.TimeAvailable))
		b.WriteString("\n")
		fmt.Fprintf(&b, "Question: %s\n\n", userText)
		b.WriteString(profileInstruction)
		return b.String()
	}
	fmt.Fprintf(&b, "Question: %s\n\n", userText)
	b.WriteString(plainInstruction)
	return b.String()
}

func orNotSpecified(value string) string {
	if strings.TrimSpace(value) == "" {
		return notSpecified
	}
	return value
}
