// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package bus provides an in-process asynchronous topic bus.
//
// Every topic owns one queue drained by one goroutine, so messages of a
// topic are delivered in publish order while topics progress independently.
// A handler error causes the message to be redelivered to that handler until
// the configured number of attempts is exhausted (at-least-once delivery).
package bus

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/bus_mock.go -package=mock

// HandlerFunc consumes one message published on topic. The context carries
// the publisher's values (logger, pass id) but not its cancellation.
type HandlerFunc func(ctx context.Context, topic string, payload map[string]any) error

// Bus is an asynchronous publish/subscribe bus.
type Bus interface {
	// Publish enqueues payload on topic and returns without waiting for
	// delivery. It blocks only while the topic queue is full.
	Publish(ctx context.Context, topic string, payload map[string]any) error

	// Subscribe registers handler for topic. Messages already queued are
	// delivered to handlers registered by the time they are dequeued.
	Subscribe(topic string, handler HandlerFunc)

	// Close stops accepting messages and waits until every queued message
	// has been delivered or ctx is done.
	Close(ctx context.Context) error
}
