package models

import (
	"strings"
	"time"
)

// ContentType identifies which pipeline handles a verification request
type ContentType string

const (
	ContentTypeText  ContentType = "text"
	ContentTypeURL   ContentType = "url"
	ContentTypeImage ContentType = "image"
)

// Valid reports whether the content type is one of the known kinds
func (c ContentType) Valid() bool {
	switch c {
	case ContentTypeText, ContentTypeURL, ContentTypeImage:
		return true
	}
	return false
}

// VerificationRequest is the raw user input for a single verification call.
// Exactly one payload field is populated, selected by Type.
type VerificationRequest struct {
	Type ContentType

	Text string // ContentTypeText
	URL  string // ContentTypeURL

	// ContentTypeImage. ImageDataURI keeps the original data URI so it can be
	// forwarded to the model gateway without re-encoding.
	ImageData    []byte
	ImageMIME    string
	ImageDataURI string
}

// NewTextRequest creates a text verification request
func NewTextRequest(content string) VerificationRequest {
	return VerificationRequest{Type: ContentTypeText, Text: content}
}

// NewURLRequest creates a URL verification request
func NewURLRequest(rawURL string) VerificationRequest {
	return VerificationRequest{Type: ContentTypeURL, URL: rawURL}
}

// NewImageRequest creates an image verification request from a base64 data URI
func NewImageRequest(dataURI string) VerificationRequest {
	return VerificationRequest{Type: ContentTypeImage, ImageDataURI: dataURI}
}

// MaxEvidenceItems caps the number of search results embedded in a prompt
const MaxEvidenceItems = 5

// EvidenceItem is a single search hit used to ground a prompt
type EvidenceItem struct {
	Title     string `json:"title"`
	SourceURL string `json:"sourceUrl"`
	Snippet   string `json:"snippet"`
}

// Evidence is the best-effort grounding material gathered for one request.
// The zero value (no items, no page text) is valid and means "no grounding".
type Evidence struct {
	Items    []EvidenceItem `json:"items"`
	PageText string         `json:"pageText,omitempty"`
}

// IsEmpty reports whether no grounding material was gathered
func (e Evidence) IsEmpty() bool {
	return len(e.Items) == 0 && strings.TrimSpace(e.PageText) == ""
}

// RawModelResponse is the opaque text returned by a model gateway
type RawModelResponse string

// ModelInvocation is everything a gateway needs for a single-turn call
type ModelInvocation struct {
	Prompt string

	// Image is set for multimodal invocations only
	ImageDataURI string
	ImageMIME    string
}

// HasImage reports whether the invocation carries an inline image part
func (m ModelInvocation) HasImage() bool {
	return m.ImageDataURI != ""
}

// TextVerdict is the verdict vocabulary for free-text claims
type TextVerdict string

const (
	TextVerdictTrue      TextVerdict = "TRUE"
	TextVerdictFalse     TextVerdict = "FALSE"
	TextVerdictUncertain TextVerdict = "UNCERTAIN"
)

// ParseTextVerdict maps a model token to a TextVerdict, defaulting to UNCERTAIN
func ParseTextVerdict(s string) (TextVerdict, bool) {
	switch v := TextVerdict(strings.ToUpper(strings.TrimSpace(s))); v {
	case TextVerdictTrue, TextVerdictFalse, TextVerdictUncertain:
		return v, true
	}
	return TextVerdictUncertain, false
}

// Confidence is shared by the text and image pipelines
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// ParseConfidence maps a model token to a Confidence, defaulting to MEDIUM
func ParseConfidence(s string) (Confidence, bool) {
	switch c := Confidence(strings.ToUpper(strings.TrimSpace(s))); c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return c, true
	}
	return ConfidenceMedium, false
}

// ImageVerdict is the verdict vocabulary for image forensics
type ImageVerdict string

const (
	ImageVerdictAuthentic   ImageVerdict = "AUTHENTIC"
	ImageVerdictManipulated ImageVerdict = "MANIPULATED"
	ImageVerdictUncertain   ImageVerdict = "UNCERTAIN"
)

// ParseImageVerdict maps a model token to an ImageVerdict, defaulting to UNCERTAIN
func ParseImageVerdict(s string) (ImageVerdict, bool) {
	switch v := ImageVerdict(strings.ToUpper(strings.TrimSpace(s))); v {
	case ImageVerdictAuthentic, ImageVerdictManipulated, ImageVerdictUncertain:
		return v, true
	}
	return ImageVerdictUncertain, false
}

// URLVerdict is the persisted verdict vocabulary for URLs. It differs from
// the labels the model is asked to produce; see ParseURLVerdict.
type URLVerdict string

const (
	URLVerdictLikelyReal URLVerdict = "likely_real"
	URLVerdictLikelyFake URLVerdict = "likely_fake"
	URLVerdictUncertain  URLVerdict = "uncertain"
)

// Provider-facing URL verdict labels
const (
	URLLabelTrustworthy = "TRUSTWORTHY"
	URLLabelSuspicious  = "SUSPICIOUS"
	URLLabelUncertain   = "UNCERTAIN"
)

// ParseURLVerdict translates a provider label into the persisted vocabulary.
// TRUSTWORTHY -> likely_real, SUSPICIOUS -> likely_fake, anything else -> uncertain.
func ParseURLVerdict(label string) (URLVerdict, bool) {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case URLLabelTrustworthy:
		return URLVerdictLikelyReal, true
	case URLLabelSuspicious:
		return URLVerdictLikelyFake, true
	case URLLabelUncertain:
		return URLVerdictUncertain, true
	}
	return URLVerdictUncertain, false
}

// Reputation is the model's assessment of a domain
type Reputation string

const (
	ReputationExcellent Reputation = "EXCELLENT"
	ReputationGood      Reputation = "GOOD"
	ReputationModerate  Reputation = "MODERATE"
	ReputationPoor      Reputation = "POOR"
	ReputationUnknown   Reputation = "UNKNOWN"
)

// ParseReputation maps a model token to a Reputation, defaulting to UNKNOWN
func ParseReputation(s string) (Reputation, bool) {
	switch r := Reputation(strings.ToUpper(strings.TrimSpace(s))); r {
	case ReputationExcellent, ReputationGood, ReputationModerate, ReputationPoor, ReputationUnknown:
		return r, true
	}
	return ReputationUnknown, false
}

// TextResult is the verdict for a free-text claim
type TextResult struct {
	Verdict     TextVerdict `json:"verdict"`
	Confidence  Confidence  `json:"confidence"`
	Explanation string      `json:"explanation"`
	KeyPoints   []string    `json:"keyPoints"`
	Timestamp   time.Time   `json:"timestamp"`
}

// ContentAnalysis holds the derived scores of a URL verification
type ContentAnalysis struct {
	AIProbability    int `json:"aiProbability"`
	CredibilityScore int `json:"credibilityScore"`
}

// SourceInfo describes the publishing domain of a URL
type SourceInfo struct {
	Domain                 string     `json:"domain"`
	Reputation             Reputation `json:"reputation"`
	KnownForMisinformation bool       `json:"knownForMisinformation"`
}

// URLResult is the verdict for a news article URL
type URLResult struct {
	Verdict           URLVerdict      `json:"verdict"`
	DomainCredibility int             `json:"domainCredibility"`
	ContentAnalysis   ContentAnalysis `json:"contentAnalysis"`
	Findings          []string        `json:"findings"`
	SourceInfo        SourceInfo      `json:"sourceInfo"`
}

// ImageResult is the verdict for an uploaded image
type ImageResult struct {
	Verdict     ImageVerdict `json:"verdict"`
	Confidence  Confidence   `json:"confidence"`
	Explanation string       `json:"explanation"`
	Findings    []string     `json:"findings"`
	Timestamp   time.Time    `json:"timestamp"`
}
