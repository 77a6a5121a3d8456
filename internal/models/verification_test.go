package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURLVerdict(t *testing.T) {
	tests := []struct {
		label string
		want  URLVerdict
		ok    bool
	}{
		{"TRUSTWORTHY", URLVerdictLikelyReal, true},
		{"trustworthy", URLVerdictLikelyReal, true},
		{"SUSPICIOUS", URLVerdictLikelyFake, true},
		{" Suspicious ", URLVerdictLikelyFake, true},
		{"UNCERTAIN", URLVerdictUncertain, true},
		{"FAKE", URLVerdictUncertain, false},
		{"", URLVerdictUncertain, false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := ParseURLVerdict(tt.label)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestParseEnumsDefault(t *testing.T) {
	v, ok := ParseTextVerdict("maybe")
	assert.False(t, ok)
	assert.Equal(t, TextVerdictUncertain, v)

	c, ok := ParseConfidence("very high")
	assert.False(t, ok)
	assert.Equal(t, ConfidenceMedium, c)

	iv, ok := ParseImageVerdict("fake")
	assert.False(t, ok)
	assert.Equal(t, ImageVerdictUncertain, iv)

	r, ok := ParseReputation("stellar")
	assert.False(t, ok)
	assert.Equal(t, ReputationUnknown, r)

	r, ok = ParseReputation("good")
	assert.True(t, ok)
	assert.Equal(t, ReputationGood, r)
}

func TestResultWireRoundTrip(t *testing.T) {
	ts := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

	t.Run("text", func(t *testing.T) {
		for _, verdict := range []TextVerdict{TextVerdictTrue, TextVerdictFalse, TextVerdictUncertain} {
			for _, conf := range []Confidence{ConfidenceHigh, ConfidenceMedium, ConfidenceLow} {
				in := TextResult{Verdict: verdict, Confidence: conf, Explanation: "x", KeyPoints: []string{"a", "b"}, Timestamp: ts}
				data, err := json.Marshal(in)
				require.NoError(t, err)
				var out TextResult
				require.NoError(t, json.Unmarshal(data, &out))
				assert.Equal(t, in, out)
			}
		}
	})

	t.Run("url", func(t *testing.T) {
		reputations := []Reputation{ReputationExcellent, ReputationGood, ReputationModerate, ReputationPoor, ReputationUnknown}
		for _, verdict := range []URLVerdict{URLVerdictLikelyReal, URLVerdictLikelyFake, URLVerdictUncertain} {
			for _, rep := range reputations {
				in := URLResult{
					Verdict:           verdict,
					DomainCredibility: 72,
					ContentAnalysis:   ContentAnalysis{AIProbability: 30, CredibilityScore: 72},
					Findings:          []string{"one"},
					SourceInfo:        SourceInfo{Domain: "example.com", Reputation: rep, KnownForMisinformation: true},
				}
				data, err := json.Marshal(in)
				require.NoError(t, err)
				var out URLResult
				require.NoError(t, json.Unmarshal(data, &out))
				assert.Equal(t, in, out)
			}
		}
	})

	t.Run("image", func(t *testing.T) {
		for _, verdict := range []ImageVerdict{ImageVerdictAuthentic, ImageVerdictManipulated, ImageVerdictUncertain} {
			in := ImageResult{Verdict: verdict, Confidence: ConfidenceLow, Explanation: "y", Findings: []string{"f"}, Timestamp: ts}
			data, err := json.Marshal(in)
			require.NoError(t, err)
			var out ImageResult
			require.NoError(t, json.Unmarshal(data, &out))
			assert.Equal(t, in, out)
		}
	})
}

func TestURLResultWireFieldNames(t *testing.T) {
	data, err := json.Marshal(URLResult{Verdict: URLVerdictLikelyFake})
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "likely_fake", raw["verdict"])
	assert.Contains(t, raw, "domainCredibility")
	assert.Contains(t, raw, "contentAnalysis")
	assert.Contains(t, raw, "sourceInfo")

	analysis := raw["contentAnalysis"].(map[string]interface{})
	assert.Contains(t, analysis, "aiProbability")
	assert.Contains(t, analysis, "credibilityScore")
}

func TestEvidenceIsEmpty(t *testing.T) {
	assert.True(t, Evidence{}.IsEmpty())
	assert.True(t, Evidence{PageText: "   "}.IsEmpty())
	assert.False(t, Evidence{Items: []EvidenceItem{{Title: "t"}}}.IsEmpty())
}
