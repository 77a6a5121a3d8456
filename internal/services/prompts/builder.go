package prompts

import (
	"fmt"
	"strings"

	"github.com/AnupriyaSaxena28/Verify-AI/internal/models"
)

const (
	textEvidenceHeader = "RECENT SEARCH RESULTS:"
	urlEvidenceHeader  = "RELATED SEARCH RESULTS:"

	// MaxPromptPageRunes caps how much page text is embedded in a URL prompt
	MaxPromptPageRunes = 4000

	contentUnavailable = "Content unavailable"
)

const textTemplate = `Analyze this claim for factual accuracy. Use the search results provided to verify the claim.

Claim: "%s"
%s

Based on the search results and your knowledge, provide analysis in this EXACT format:

VERDICT: [TRUE/FALSE/UNCERTAIN]
CONFIDENCE: [HIGH/MEDIUM/LOW]
EXPLANATION: [Your detailed analysis citing specific sources from search results]
KEY POINTS:
- [First key point with source]
- [Second key point with source]
- [Third key point]`

const urlTemplate = `Analyze this news article for credibility and accuracy. Use the search results to verify claims and check reputation.

URL: %s
Domain: %s
%s
%s

Based on the search results and your knowledge, provide analysis in this EXACT format:

VERDICT: [TRUSTWORTHY/SUSPICIOUS/UNCERTAIN]
DOMAIN_SCORE: [0-100]
REPUTATION: [EXCELLENT/GOOD/MODERATE/POOR/UNKNOWN]
KNOWN_MISINFORMATION: [YES/NO]
FINDINGS:
- [First finding citing specific sources]
- [Second finding with verification]
- [Third finding]`

const imagePrompt = `You are an expert image forensics analyst. Analyze this image and determine if it appears to be authentic or manipulated.

Provide your analysis in EXACTLY this format:

VERDICT: [AUTHENTIC/MANIPULATED/UNCERTAIN]

CONFIDENCE: [HIGH/MEDIUM/LOW]

EXPLANATION:
[Your detailed explanation of why you reached this verdict]

FINDINGS:
- [First specific finding or red flag]
- [Second specific finding]
- [Additional findings as needed]

Be thorough and look for signs of:
- AI generation artifacts
- Photo manipulation (cloning, warping, filtering)
- Inconsistent lighting or shadows
- Unnatural textures or patterns
- Metadata inconsistencies
- Digital alterations`

// TextPrompt builds the claim analysis prompt
func TextPrompt(content string, evidence models.Evidence) string {
	return fmt.Sprintf(textTemplate, content, FormatEvidence(textEvidenceHeader, evidence.Items))
}

// URLPrompt builds the article credibility prompt. Page text comes from
// evidence.PageText and is capped at MaxPromptPageRunes.
func URLPrompt(pageURL, domain string, evidence models.Evidence) string {
	content := contentUnavailable
	if page := strings.TrimSpace(evidence.PageText); page != "" {
		content = "Content:\n" + truncate(page, MaxPromptPageRunes)
	}
	return fmt.Sprintf(urlTemplate, pageURL, domain, content, FormatEvidence(urlEvidenceHeader, evidence.Items))
}

// ImagePrompt returns the image forensics instruction text
func ImagePrompt() string {
	return imagePrompt
}

// FormatEvidence renders search hits as numbered blocks under header.
// No items renders as the empty string.
func FormatEvidence(header string, items []models.EvidenceItem) string {
	if len(items) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(header)
	b.WriteString("\n")
	for i, item := range items {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, item.Title)
		fmt.Fprintf(&b, "   Source: %s\n", item.SourceURL)
		fmt.Fprintf(&b, "   Snippet: %s\n", item.Snippet)
	}
	return b.String()
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
