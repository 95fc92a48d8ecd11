package memory

import (
	"sort"
	"strings"
	"unicode"
)

// tokenize lowercases the text and splits it into alphanumeric tokens.
func tokenize(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, tok := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		tokens[tok] = struct{}{}
	}
	return tokens
}

// similarity scores a document against a query using token overlap
// (Jaccard index). The score is 0 when the two share no tokens and 1 when
// their token sets are identical. Deterministic by construction, which
// keeps retrieval reproducible across stores and in tests.
func similarity(queryTokens map[string]struct{}, doc string) float64 {
	docTokens := tokenize(doc)
	if len(queryTokens) == 0 || len(docTokens) == 0 {
		return 0
	}

	overlap := 0
	for tok := range queryTokens {
		if _, ok := docTokens[tok]; ok {
			overlap++
		}
	}
	if overlap == 0 {
		return 0
	}

	union := len(queryTokens) + len(docTokens) - overlap
	return float64(overlap) / float64(union)
}

// rankRecords returns the documents of up to k records with a nonzero
// similarity to the query, best match first. Ties break on record ID so
// the ordering is stable regardless of the store's iteration order.
func rankRecords(query string, records []Record, k int) []string {
	if k <= 0 {
		return nil
	}

	queryTokens := tokenize(query)

	type scored struct {
		rec   Record
		score float64
	}
	candidates := make([]scored, 0, len(records))
	for _, rec := range records {
		s := similarity(queryTokens, rec.Document())
		if s > 0 {
			candidates = append(candidates, scored{rec: rec, score: s})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].rec.ID < candidates[j].rec.ID
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}

	docs := make([]string, 0, len(candidates))
	for _, c := range candidates {
		docs = append(docs, c.rec.Document())
	}
	return docs
}
