// Package orchestration coordinates the research pipeline: the planning call,
// the bounded fan-out of research assistant subprocesses with retry, and the
// final synthesis call. It decouples coordination from presentation via the
// ProgressReporter interface.
package orchestration
