package parser

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/AnupriyaSaxena28/Verify-AI/internal/models"
	"github.com/AnupriyaSaxena28/Verify-AI/internal/services/prompts"
)

// Placeholders used when a list section yields no entries
const (
	PlaceholderTextKeyPoints = "Analysis completed based on available information"
	PlaceholderImageFindings = "Analysis completed based on available information"
	PlaceholderURLFindings   = "Domain analysis completed"

	// FallbackExplanation is used when neither an explanation nor any raw text exists
	FallbackExplanation = "Analysis completed."
)

// Defaults and derived values for URL results
const (
	DefaultDomainScore = 50

	// AIProbabilityKnownMisinformation and AIProbabilityDefault form a fixed
	// two-value heuristic keyed on the known-misinformation flag. It is not a
	// model signal.
	AIProbabilityKnownMisinformation = 80
	AIProbabilityDefault             = 30
)

var leadingDigits = regexp.MustCompile(`^-?\d+`)

// ParseText extracts a text verdict. Timestamp is left for the caller to set.
func ParseText(raw string) (models.TextResult, []Anomaly) {
	var anomalies []Anomaly

	result := models.TextResult{
		Verdict:    parseEnum(raw, prompts.LabelVerdict, models.ParseTextVerdict, &anomalies),
		Confidence: parseEnum(raw, prompts.LabelConfidence, models.ParseConfidence, &anomalies),
	}

	result.Explanation = explanation(raw, prompts.TextLabels, &anomalies)
	result.KeyPoints = list(raw, prompts.LabelKeyPoints, prompts.TextLabels, PlaceholderTextKeyPoints, &anomalies)

	return result, anomalies
}

// ParseImage extracts an image forensics verdict. Timestamp is left for the caller to set.
func ParseImage(raw string) (models.ImageResult, []Anomaly) {
	var anomalies []Anomaly

	result := models.ImageResult{
		Verdict:    parseEnum(raw, prompts.LabelVerdict, models.ParseImageVerdict, &anomalies),
		Confidence: parseEnum(raw, prompts.LabelConfidence, models.ParseConfidence, &anomalies),
	}

	result.Explanation = explanation(raw, prompts.ImageLabels, &anomalies)
	result.Findings = list(raw, prompts.LabelFindings, prompts.ImageLabels, PlaceholderImageFindings, &anomalies)

	return result, anomalies
}

// ParseURL extracts an article credibility verdict for domain
func ParseURL(raw, domain string) (models.URLResult, []Anomaly) {
	var anomalies []Anomaly

	verdict := parseEnum(raw, prompts.LabelVerdict, models.ParseURLVerdict, &anomalies)
	score := domainScore(raw, &anomalies)
	reputation := parseEnum(raw, prompts.LabelReputation, models.ParseReputation, &anomalies)
	misinformation := knownMisinformation(raw, &anomalies)

	aiProbability := AIProbabilityDefault
	if misinformation {
		aiProbability = AIProbabilityKnownMisinformation
	}

	result := models.URLResult{
		Verdict:           verdict,
		DomainCredibility: score,
		ContentAnalysis: models.ContentAnalysis{
			AIProbability:    aiProbability,
			CredibilityScore: score,
		},
		Findings: list(raw, prompts.LabelFindings, prompts.URLLabels, PlaceholderURLFindings, &anomalies),
		SourceInfo: models.SourceInfo{
			Domain:                 domain,
			Reputation:             reputation,
			KnownForMisinformation: misinformation,
		},
	}

	return result, anomalies
}

// parseEnum reads a scalar label and maps it through parse, which supplies
// the default when the token is not a legal value
func parseEnum[T any](raw, label string, parse func(string) (T, bool), anomalies *[]Anomaly) T {
	value, found := scalar(raw, label)
	parsed, ok := parse(value)
	switch {
	case !found:
		*anomalies = append(*anomalies, Anomaly{Field: label, Reason: reasonMissing})
	case !ok:
		*anomalies = append(*anomalies, Anomaly{Field: label, Value: value, Reason: reasonInvalid})
	}
	return parsed
}

func domainScore(raw string, anomalies *[]Anomaly) int {
	label := prompts.LabelDomainScore

	value, found := scalar(raw, label)
	if !found {
		*anomalies = append(*anomalies, Anomaly{Field: label, Reason: reasonMissing})
		return DefaultDomainScore
	}

	digits := leadingDigits.FindString(value)
	score, err := strconv.Atoi(digits)
	if errors.Is(err, strconv.ErrRange) {
		// Atoi saturates to the nearest bound on overflow
		err = nil
	}
	if err != nil {
		*anomalies = append(*anomalies, Anomaly{Field: label, Value: value, Reason: reasonInvalid})
		return DefaultDomainScore
	}

	switch {
	case score < 0:
		*anomalies = append(*anomalies, Anomaly{Field: label, Value: value, Reason: reasonClamped})
		return 0
	case score > 100:
		*anomalies = append(*anomalies, Anomaly{Field: label, Value: value, Reason: reasonClamped})
		return 100
	}
	return score
}

func knownMisinformation(raw string, anomalies *[]Anomaly) bool {
	label := prompts.LabelKnownMisinformation

	value, found := scalar(raw, label)
	if !found {
		*anomalies = append(*anomalies, Anomaly{Field: label, Reason: reasonMissing})
		return false
	}

	switch strings.ToUpper(value) {
	case "YES":
		return true
	case "NO":
		return false
	}
	*anomalies = append(*anomalies, Anomaly{Field: label, Value: value, Reason: reasonInvalid})
	return false
}

// explanation returns the EXPLANATION section, the trimmed raw text when the
// section is absent or empty, or FallbackExplanation when raw is blank
func explanation(raw string, labels []string, anomalies *[]Anomaly) string {
	label := prompts.LabelExplanation

	text, found := section(raw, label, labels)
	if text = strings.TrimSpace(strings.Trim(text, "*")); text != "" {
		return text
	}

	reason := reasonEmpty
	if !found {
		reason = reasonMissing
	}
	*anomalies = append(*anomalies, Anomaly{Field: label, Reason: reason})

	if trimmed := strings.TrimSpace(raw); trimmed != "" {
		return trimmed
	}
	return FallbackExplanation
}

// list returns the bullet entries of a section, or a single placeholder
func list(raw, label string, labels []string, placeholder string, anomalies *[]Anomaly) []string {
	text, found := section(raw, label, labels)
	if items := bullets(text); len(items) > 0 {
		return items
	}

	reason := reasonEmpty
	if !found {
		reason = reasonMissing
	}
	*anomalies = append(*anomalies, Anomaly{Field: label, Reason: reason})

	return []string{placeholder}
}
