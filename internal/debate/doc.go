// Package debate implements the arena's debate orchestration pipeline.
//
// A debate run puts two debater backends and one judge backend through a
// fixed seven-stage sequence:
//
//	MemoryLoad -> Opening -> Rebuttal(1) -> Rebuttal(2) -> Judgment ->
//	MemoryStore -> Assemble
//
// Stages execute strictly in order because each reads fields only earlier
// stages could have populated. Within the Opening and Rebuttal stages the
// two debater calls are dispatched concurrently; each writes back into its
// own run-state field, so completion order never matters.
//
// # Usage
//
//	sess := debate.NewSession(cfg, router, store)
//	result, err := sess.Run(ctx, "Should we use gRPC or REST?", 0.6, debate.ModelSelection{
//		DebaterA: "openai",
//		DebaterB: "grok",
//		Judge:    "gemini",
//	})
//
// Stream runs the same pipeline but yields an immutable Snapshot after
// each stage, which lets a consumer render progress live.
//
// # Error Semantics
//
// Generation failures abort the run and surface to the caller. Memory
// failures never do: retrieval degrades to an empty snippet list and a
// failed store write is logged and dropped. A malformed judge response is
// resolved by the verdict parser's fallback rules, never by an error.
package debate
