// Package core provides the foundational domain types shared by every layer of
// a hot seat session. It defines:
//
//   - Advisors (fixed catalog personas and session-generated personas)
//   - Transcript entries and the append-only Transcript
//   - SessionState, the single mutable record owned by the orchestrator
//   - Stream events and completions produced by inference calls
//   - Moderation decisions
//   - The error taxonomy surfaced by inference and moderation
//
// The package keeps transport, persistence and orchestration out of scope so
// that adapters and hosts can depend on it without pulling in SDKs.
package core
