// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

// Package events carries in-process notifications between the mining
// engine and its consumers over a watermill Go channel pub/sub.
package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/basketrules/internal/logging"
)

// TopicRulesReplaced is published after a mining run replaced the stored rules.
const TopicRulesReplaced = "rules.replaced"

// SchemaVersion is the current event payload version.
const SchemaVersion = 1

// ErrBusClosed is returned when publishing on a closed bus.
var ErrBusClosed = errors.New("event bus is closed")

// RulesReplaced is the payload of TopicRulesReplaced.
type RulesReplaced struct {
	SchemaVersion int       `json:"schema_version"`
	RunID         string    `json:"run_id"`
	Rules         int       `json:"rules"`
	ReplacedAt    time.Time `json:"replaced_at"`
}

// Bus publishes and subscribes to in-process events.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger watermill.LoggerAdapter

	mu     sync.RWMutex
	closed bool
}

// NewBus creates a bus that logs through the global zerolog logger.
func NewBus() *Bus {
	logger := watermill.NewSlogLogger(logging.NewSlogLogger())
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 64,
		}, logger),
		logger: logger,
	}
}

// PublishRulesReplaced publishes evt on TopicRulesReplaced. Events published
// while nobody is subscribed are dropped.
func (b *Bus) PublishRulesReplaced(ctx context.Context, evt RulesReplaced) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBusClosed
	}

	if evt.SchemaVersion == 0 {
		evt.SchemaVersion = SchemaVersion
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := message.NewMessage(uuid.New().String(), data)
	msg.SetContext(ctx)
	msg.Metadata.Set("run_id", evt.RunID)
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		msg.Metadata.Set("correlation_id", id)
	}

	if err := b.pubsub.Publish(TopicRulesReplaced, msg); err != nil {
		return fmt.Errorf("publish %s: %w", TopicRulesReplaced, err)
	}
	return nil
}

// Close stops the bus; active subscriptions end.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return b.pubsub.Close()
}

// RulesReplacedHandler consumes TopicRulesReplaced.
type RulesReplacedHandler struct {
	bus     *Bus
	handler func(ctx context.Context, evt RulesReplaced) error
	ready   chan struct{}
	once    sync.Once
}

// NewRulesReplacedHandler returns a handler that calls fn for every event
// once Run is started.
func (b *Bus) NewRulesReplacedHandler(fn func(ctx context.Context, evt RulesReplaced) error) *RulesReplacedHandler {
	return &RulesReplacedHandler{
		bus:     b,
		handler: fn,
		ready:   make(chan struct{}),
	}
}

// Ready is closed once Run has subscribed.
func (h *RulesReplacedHandler) Ready() <-chan struct{} {
	return h.ready
}

// Run processes events until ctx is cancelled or the bus is closed.
// Messages are acked on success and nacked when the handler fails.
// Undecodable messages are acked and dropped.
func (h *RulesReplacedHandler) Run(ctx context.Context) error {
	messages, err := h.bus.pubsub.Subscribe(ctx, TopicRulesReplaced)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", TopicRulesReplaced, err)
	}
	h.once.Do(func() { close(h.ready) })

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			if err := h.processMessage(ctx, msg); err != nil {
				h.bus.logger.Error("Message processing failed", err, watermill.LogFields{
					"message_uuid": msg.UUID,
					"topic":        TopicRulesReplaced,
				})
			}
		}
	}
}

func (h *RulesReplacedHandler) processMessage(ctx context.Context, msg *message.Message) error {
	var evt RulesReplaced
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		msg.Ack()
		return fmt.Errorf("decode event: %w", err)
	}

	if h.handler == nil {
		msg.Ack()
		return nil
	}

	if id := msg.Metadata.Get("correlation_id"); id != "" {
		ctx = logging.ContextWithCorrelationID(ctx, id)
	}

	if err := h.handler(ctx, evt); err != nil {
		msg.Nack()
		return err
	}

	msg.Ack()
	return nil
}
