// Package component defines the lifecycle contract shared by the host's
// long-lived parts and a registry that starts them in order and stops them
// in reverse.
package component
