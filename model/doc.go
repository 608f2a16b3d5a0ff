// Package model defines the provider-agnostic abstraction used to drive every
// inference call in a hot seat session: advisor turns, moderation decisions,
// advisor selection, persona generation and the closing summary.
//
// Core goals:
//   - Unify streaming and non-streaming generation behind a single interface
//   - Keep request/response shapes minimal: one system instruction, one user
//     message, an optional structured-output flag
//   - Surface streamed text as cumulative reasoning/content events
//   - Facilitate lightweight mocking for tests (MockModel)
//
// Providers (OpenAI-compatible HTTP, Anthropic, Eino chat models) live in
// sub-packages and implement Model so higher layers stay decoupled from
// vendor SDKs.
package model
