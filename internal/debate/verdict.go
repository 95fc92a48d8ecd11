package debate

import (
	"strings"
	"unicode"
)

// Verdict is the structured triple extracted from raw judge text.
type Verdict struct {
	Winner      Winner
	Reason      string
	FinalAnswer string
}

// verdictLabels in their expected order. The parser tolerates missing or
// reordered labels.
var verdictLabels = []string{"winner", "reason", "final"}

// ParseVerdict extracts a Verdict from raw judge output. The text is
// expected, but not guaranteed, to contain "Winner:", "Reason:" and
// "Final:" labels.
//
// Each field runs from its label to the start of the next matched label in
// the text, so a field value containing a label word followed by a colon
// will be cut short there; the colon requirement keeps ordinary prose from
// triggering a cut. When Final is missing or empty, the entire trimmed
// input becomes the final answer so a malformed response still yields a
// usable result.
func ParseVerdict(raw string) Verdict {
	// Locate the first occurrence of each "<label>:". The scan is
	// case-insensitive over the raw bytes, so every offset is valid for
	// slicing raw directly.
	starts := make(map[string]int, len(verdictLabels))
	var positions []int
	for _, label := range verdictLabels {
		idx := indexFold(raw, label+":")
		starts[label] = idx
		if idx >= 0 {
			positions = append(positions, idx)
		}
	}

	field := func(label string) string {
		start := starts[label]
		if start < 0 {
			return ""
		}
		valueStart := start + len(label) + 1
		end := len(raw)
		for _, pos := range positions {
			if pos >= valueStart && pos < end {
				end = pos
			}
		}
		return strings.TrimSpace(raw[valueStart:end])
	}

	v := Verdict{
		Winner:      resolveWinner(field("winner")),
		Reason:      field("reason"),
		FinalAnswer: field("final"),
	}
	if v.FinalAnswer == "" {
		v.FinalAnswer = strings.TrimSpace(raw)
	}
	return v
}

// indexFold returns the byte offset of the first case-insensitive
// occurrence of pattern in s, or -1 when absent. Unlike locating in a
// lowercased copy, the offset is always valid in s itself; ToLower can
// change byte lengths outside ASCII.
func indexFold(s, pattern string) int {
	n := len(pattern)
	for i := 0; i+n <= len(s); i++ {
		if strings.EqualFold(s[i:i+n], pattern) {
			return i
		}
	}
	return -1
}

// resolveWinner maps the raw winner field to a canonical Winner. The tie
// check runs before side detection, and a field mentioning both sides or
// neither resolves to Unknown. That ordering is a deliberate tie-break,
// not an error path. Sides are matched as standalone word tokens, so
// prose like "debater" never counts as a mention of either side.
func resolveWinner(field string) Winner {
	lower := strings.ToLower(field)
	if strings.Contains(lower, "tie") {
		return WinnerTie
	}

	var hasA, hasB bool
	for _, tok := range strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		switch tok {
		case "a":
			hasA = true
		case "b":
			hasB = true
		}
	}

	switch {
	case hasB && !hasA:
		return WinnerB
	case hasA && !hasB:
		return WinnerA
	default:
		return WinnerUnknown
	}
}

// WinnerLabel renders a Winner using the display names bound to each side
// for this run, so the verdict names the actual backend that produced the
// winning argument.
func WinnerLabel(w Winner, displayA, displayB string) string {
	switch w {
	case WinnerA:
		return "A (" + displayA + ")"
	case WinnerB:
		return "B (" + displayB + ")"
	case WinnerTie:
		return "Tie"
	default:
		return "Unknown"
	}
}
