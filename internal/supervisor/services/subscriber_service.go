// Basketrules - Association Rule Mining for Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrules

package services

import (
	"context"
	"fmt"

	"github.com/thejerf/suture/v4"
)

// Subscriber consumes events until ctx is cancelled. A nil return means the
// source has been closed.
type Subscriber interface {
	Run(ctx context.Context) error
}

// SubscriberService supervises an event subscriber.
type SubscriberService struct {
	subscriber Subscriber
	name       string
}

// NewSubscriberService wraps sub under the given service name.
func NewSubscriberService(name string, sub Subscriber) *SubscriberService {
	return &SubscriberService{subscriber: sub, name: name}
}

// Serve implements suture.Service. A closed source is not restarted.
func (s *SubscriberService) Serve(ctx context.Context) error {
	err := s.subscriber.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("%s: %w", s.name, err)
	}
	return suture.ErrDoNotRestart
}

// String identifies the service in supervisor logs.
func (s *SubscriberService) String() string {
	return s.name
}
