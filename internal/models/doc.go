// Package models defines domain entities for the download orchestration engine.
//
// The package contains two categories of types:
//
// 1. Derived references: recomputed on every invocation, never persisted
//   - [ItemReference] : canonical identity of one downloadable unit
//   - [CollectionReference] : a playlist or channel with enumerated entries
//   - [FormatPreference] / [FormatSpec] / [FormatPlan] : quality resolution inputs and outputs
//
// 2. Persistent entities: owned by the resume ledger
//   - [AttemptRecord] : latest attempt outcome for an item, keyed by canonical ID
//
// [BatchResult] is the aggregate outcome contract returned to callers: every
// target appears exactly once across Succeeded, Failed, and Skipped, in input
// order.
package models
