// ABOUTME: Domain errors for target lines and tracks
// ABOUTME: Enables consistent error handling across the scoring pipeline

package models

import "errors"

// ErrDegenerateLine is returned when a target line starts where it ends.
var ErrDegenerateLine = errors.New("degenerate target line: start equals end")

// ErrEmptyTrack is returned when there are no points to analyze.
var ErrEmptyTrack = errors.New("track is empty")
