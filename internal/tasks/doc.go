// package tasks coordinates batch downloads against the fetch backend.
//
// The core abstraction is [Engine], which expands collections, resolves
// format fallback plans, runs a bounded worker pool over the items, and
// records every outcome in the resume ledger before reporting it.
// Operations emit progress updates via channels for non-blocking status
// reporting to CLI/UI layers.
package tasks
