// Package errors provides structured errors with machine-readable codes.
//
// Processors signal a recoverable failure with ProcessingFailed; the runner
// writes the message into the node's error slot and keeps going. Any other
// error, and any recovered panic, is classified as unexpected.
package errors
