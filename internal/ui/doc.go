// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for batch downloads:
//  1. [EntryListView] : Browse the enumerated collection entries
//  2. [ConfirmView] : Confirm the download run
//  3. [DownloadView] : Monitor real-time progress updates
//  4. [ResultView] : Display outcome counts and per-item failures
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the download Engine, providing non-blocking status reporting during runs.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
