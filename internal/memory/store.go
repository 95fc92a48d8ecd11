package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Record is a compact, independently-identified fact about a completed
// debate. It is the only thing that crosses the persistence boundary;
// run state itself is never persisted.
type Record struct {
	ID          string `json:"id"`
	Question    string `json:"question"`
	Winner      string `json:"winner"`
	FinalAnswer string `json:"final_answer"`
}

// NewRecord creates a Record with a fresh unique identifier.
func NewRecord(question, winner, finalAnswer string) Record {
	return Record{
		ID:          uuid.NewString(),
		Question:    strings.TrimSpace(question),
		Winner:      winner,
		FinalAnswer: strings.TrimSpace(finalAnswer),
	}
}

// Empty reports whether the record carries nothing worth remembering.
// Records without a question or without a final answer are not stored.
func (r Record) Empty() bool {
	return r.Question == "" || r.FinalAnswer == ""
}

// Document renders the record as the snippet text returned by retrieval.
func (r Record) Document() string {
	return fmt.Sprintf("Question: %s\nWinner: %s\nFinal answer:\n%s",
		r.Question, r.Winner, r.FinalAnswer)
}

// Store is the debate memory persistence boundary.
//
// Retrieve returns up to k snippet documents ranked by similarity to the
// query. It never returns an error: any backend failure degrades to an
// empty result, because the debate proceeds fine without historical
// grounding. Save is write-once append-only; concurrent saves from
// unrelated runs are safe because every record carries its own id.
type Store interface {
	// Retrieve returns the documents of up to k records most similar to
	// the query, best match first. Failures yield an empty slice.
	Retrieve(ctx context.Context, query string, k int) []string

	// Save persists the record. Empty records (see Record.Empty) are
	// silently dropped. Callers treat errors as advisory: a failed
	// write never fails the run that produced it.
	Save(ctx context.Context, rec Record) error

	// Close releases any resources held by the store.
	Close() error
}
