// Package prompts renders the fixed-format instruction blocks sent to the
// model gateways. The output labels defined here are the contract the
// response parser reads back.
package prompts

// Output labels the model is instructed to echo
const (
	LabelVerdict             = "VERDICT"
	LabelConfidence          = "CONFIDENCE"
	LabelExplanation         = "EXPLANATION"
	LabelKeyPoints           = "KEY POINTS"
	LabelFindings            = "FINDINGS"
	LabelDomainScore         = "DOMAIN_SCORE"
	LabelReputation          = "REPUTATION"
	LabelKnownMisinformation = "KNOWN_MISINFORMATION"
)

// TextLabels are the labels of a text verification response, in prompt order
var TextLabels = []string{LabelVerdict, LabelConfidence, LabelExplanation, LabelKeyPoints}

// URLLabels are the labels of a URL verification response, in prompt order
var URLLabels = []string{LabelVerdict, LabelDomainScore, LabelReputation, LabelKnownMisinformation, LabelFindings}

// ImageLabels are the labels of an image verification response, in prompt order
var ImageLabels = []string{LabelVerdict, LabelConfidence, LabelExplanation, LabelFindings}
