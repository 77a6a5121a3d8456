package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AnupriyaSaxena28/Verify-AI/internal/models"
)

func sampleEvidence() models.Evidence {
	return models.Evidence{Items: []models.EvidenceItem{
		{Title: "Fact check: moon", SourceURL: "https://a.example/1", Snippet: "It happened."},
		{Title: "Archive", SourceURL: "https://b.example/2", Snippet: "Footage restored."},
	}}
}

func TestTextPrompt(t *testing.T) {
	prompt := TextPrompt("The moon landing was staged", sampleEvidence())

	assert.Contains(t, prompt, `Claim: "The moon landing was staged"`)
	assert.Contains(t, prompt, "RECENT SEARCH RESULTS:")
	assert.Contains(t, prompt, "\n1. Fact check: moon\n   Source: https://a.example/1\n   Snippet: It happened.\n")
	assert.Contains(t, prompt, "\n2. Archive\n")

	for _, label := range TextLabels {
		assert.Contains(t, prompt, "\n"+label+":", label)
	}
}

func TestTextPrompt_NoEvidence(t *testing.T) {
	prompt := TextPrompt("claim", models.Evidence{})

	assert.NotContains(t, prompt, "SEARCH RESULTS")
	assert.Contains(t, prompt, "VERDICT: [TRUE/FALSE/UNCERTAIN]")
}

func TestURLPrompt(t *testing.T) {
	evidence := sampleEvidence()
	evidence.PageText = strings.Repeat("x", MaxPromptPageRunes+100)

	prompt := URLPrompt("https://news.example/a", "news.example", evidence)

	assert.Contains(t, prompt, "URL: https://news.example/a\nDomain: news.example\n")
	assert.Contains(t, prompt, "Content:\n"+strings.Repeat("x", MaxPromptPageRunes)+"\n")
	assert.NotContains(t, prompt, strings.Repeat("x", MaxPromptPageRunes+1))
	assert.Contains(t, prompt, "RELATED SEARCH RESULTS:")

	for _, label := range URLLabels {
		assert.Contains(t, prompt, "\n"+label+":", label)
	}
}

func TestURLPrompt_ContentUnavailable(t *testing.T) {
	prompt := URLPrompt("https://news.example/a", "news.example", models.Evidence{})

	assert.Contains(t, prompt, "Domain: news.example\nContent unavailable\n")
	assert.NotContains(t, prompt, "RELATED SEARCH RESULTS:")
}

func TestImagePrompt(t *testing.T) {
	prompt := ImagePrompt()

	for _, label := range ImageLabels {
		assert.Contains(t, prompt, "\n"+label+":", label)
	}
	assert.Contains(t, prompt, "AI generation artifacts")
}
