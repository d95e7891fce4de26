// Package ui provides terminal color themes shared by the CLI and the TUI
// dashboard. Colors honor the NO_COLOR convention (https://no-color.org/).
package ui
