// Package server runs the HTTP trigger API of the synchronization engine.
//
// It owns the listener lifecycle: startup, serving until the caller's
// context is cancelled, and graceful shutdown that lets in-flight passes
// finish within a bounded delay.
package server
