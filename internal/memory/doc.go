// Package memory stores compact records of completed debates and retrieves
// the most similar past debates for a new question.
//
// Memory is a best-effort enrichment, not a correctness requirement: Retrieve
// never surfaces backend failures to the pipeline (it degrades to an empty
// result), and a failed Save must not invalidate a completed debate.
//
// Two backing stores are provided: FileStore keeps one JSON document per
// record under a base directory, and RedisStore keeps records in redis
// hashes. Both rank candidates with the same deterministic token-overlap
// scorer, so retrieval behaves identically across stores and in tests.
package memory
