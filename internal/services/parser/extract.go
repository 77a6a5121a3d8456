// Package parser turns the semi-structured text returned by a model into
// fully populated verification results. Every function here is total: any
// input, including the empty string, yields a complete result. Fields that
// could not be read are reported as anomalies and take documented defaults.
package parser

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// Anomaly records a field that was missing or unreadable in a model response
type Anomaly struct {
	Field  string
	Value  string
	Reason string
}

func (a Anomaly) String() string {
	if a.Value == "" {
		return fmt.Sprintf("%s: %s", a.Field, a.Reason)
	}
	return fmt.Sprintf("%s: %s (%q)", a.Field, a.Reason, a.Value)
}

const (
	reasonMissing = "label not found"
	reasonInvalid = "value not recognised"
	reasonClamped = "value out of range"
	reasonEmpty   = "section empty"
)

var (
	patternMu    sync.Mutex
	patternCache = map[string]*regexp.Regexp{}
)

// compile caches patterns by source; the label vocabulary is small and fixed
func compile(expr string) *regexp.Regexp {
	patternMu.Lock()
	defer patternMu.Unlock()

	if re, ok := patternCache[expr]; ok {
		return re
	}
	re := regexp.MustCompile(expr)
	patternCache[expr] = re
	return re
}

// labelExpr matches a label with flexible inner whitespace
func labelExpr(label string) string {
	return strings.Join(strings.Fields(regexp.QuoteMeta(label)), `\s+`)
}

// scalar returns the first token following "LABEL:" with markdown and
// bracket decoration stripped. found is false when the label is absent.
func scalar(raw, label string) (value string, found bool) {
	re := compile(`(?i)` + labelExpr(label) + `\s*\**\s*:\s*(.*)`)
	m := re.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}

	captured := strings.TrimLeft(m[1], " \t*[_")
	fields := strings.Fields(captured)
	if len(fields) == 0 {
		return "", true
	}
	return strings.Trim(fields[0], "[]*_.,;"), true
}

// section returns the text between "LABEL:" and the next of the given
// terminator labels, or end of text. found is false when the label is absent.
func section(raw, label string, terminators []string) (text string, found bool) {
	start := compile(`(?i)` + labelExpr(label) + `\s*\**\s*:`)
	loc := start.FindStringIndex(raw)
	if loc == nil {
		return "", false
	}
	rest := raw[loc[1]:]

	others := make([]string, 0, len(terminators))
	for _, t := range terminators {
		if t != label {
			others = append(others, labelExpr(t))
		}
	}
	if len(others) > 0 {
		end := compile(`(?i)\**\s*(?:` + strings.Join(others, "|") + `)\s*\**\s*:`)
		if e := end.FindStringIndex(rest); e != nil {
			rest = rest[:e[0]]
		}
	}

	return strings.TrimSpace(rest), true
}

// bullets splits a section into list entries. Lines starting with "- " or
// "* " become entries; everything else is ignored.
func bullets(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		var item string
		switch {
		case strings.HasPrefix(line, "- "):
			item = line[2:]
		case strings.HasPrefix(line, "* "):
			item = line[2:]
		default:
			continue
		}
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
