package assistant

import (
	"strings"
	"testing"

	"waygen/internal/models"
)

func TestBuildPromptWithFullProfile(t *testing.T) {
	profile := &models.Profile{
		Country:       "Germany",
		Education:     "Bachelor's",
		Interest:      "Machine Learning",
		Budget:        "10000 EUR",
		TimeAvailable: "2 years",
	}
	got := BuildPrompt("Which master's program fits me?", profile)

	want := "User profile:\n" +
		"Country: Germany\n" +
		"Education: Bachelor's\n" +
		"Interest: Machine Learning\n" +
		"Budget: 10000 EUR\n" +
		"Time Available: 2 years\n" +
		"\n" +
		"Question: Which master's program fits me?\n\n" +
		profileInstruction
	if got != want {
		t.Fatalf("unexpected prompt:\n%q\nwant:\n%q", got, want)
	}
}

func TestBuildPromptFillsMissingFields(t *testing.T) {
	profile := &models.Profile{Interest: "Design"}
	got := BuildPrompt("hi", profile)

	for _, line := range []string{
		"Country: Not specified",
		"Education: Not specified",
		"Interest: Design",
		"Budget: Not specified",
		"Time Available: Not specified",
	} {
		if !strings.Contains(got, line+"\n") {
			t.Fatalf("prompt missing %q:\n%s", line, got)
		}
	}
}

func TestBuildPromptWithoutProfile(t *testing.T) {
	got := BuildPrompt("What careers suit an economics degree?", nil)

	want := "Question: What careers suit an economics degree?\n\n" + plainInstruction
	if got != want {
		t.Fatalf("unexpected prompt:\n%q\nwant:\n%q", got, want)
	}
	if strings.Contains(got, "User profile:") {
		t.Fatalf("profile block must be omitted: %q", got)
	}
}

func TestBuildPromptIsDeterministic(t *testing.T) {
	profile := &models.Profile{Country: "India", Interest: "Finance"}
	first := BuildPrompt("hi", profile)
	second := BuildPrompt("hi", profile)
	if first != second {
		t.Fatalf("prompt not deterministic:\n%q\n%q", first, second)
	}
}
