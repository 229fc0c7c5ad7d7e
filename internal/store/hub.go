// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"sync"

	"github.com/MKhiriev/go-pantry-keeper/internal/logger"
)

// Hub is the in-process change-notification fan-out for pantry items.
//
// Repositories only persist rows; the service layer calls [Hub.Notify] after
// every successful item mutation, and each open live-snapshot stream holds a
// subscription returned by [Hub.Subscribe]. A notification is a bare signal
// ("this owner's record set changed") — subscribers respond by re-reading
// their snapshot from the repository, so deliveries coalesce naturally:
// a slow subscriber sees at most one pending signal no matter how many
// mutations happened while it was busy.
type Hub struct {
	mu     sync.RWMutex
	subs   map[int64]map[*subscription]struct{}
	logger *logger.Logger
}

type subscription struct {
	ch   chan struct{}
	once sync.Once
}

// NewHub constructs an empty [Hub].
func NewHub(logger *logger.Logger) *Hub {
	logger.Debug().Msg("creating notification hub")
	return &Hub{
		subs:   make(map[int64]map[*subscription]struct{}),
		logger: logger,
	}
}

// Subscribe registers a change-signal channel for the given owner.
//
// The returned cancel function removes the subscription and closes the
// channel; it is safe to call more than once. After cancel returns, no
// further signals are delivered on the channel.
func (h *Hub) Subscribe(ownerID int64) (<-chan struct{}, func()) {
	sub := &subscription{ch: make(chan struct{}, 1)}

	h.mu.Lock()
	owners, ok := h.subs[ownerID]
	if !ok {
		owners = make(map[*subscription]struct{})
		h.subs[ownerID] = owners
	}
	owners[sub] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		sub.once.Do(func() {
			h.mu.Lock()
			if owners, ok := h.subs[ownerID]; ok {
				delete(owners, sub)
				if len(owners) == 0 {
					delete(h.subs, ownerID)
				}
			}
			h.mu.Unlock()
			close(sub.ch)
		})
	}

	return sub.ch, cancel
}

// Notify signals every live subscription of the given owner that the owner's
// record set changed. The send is non-blocking: a subscriber that already
// has a pending signal is skipped, which collapses bursts of mutations into
// a single delivery.
func (h *Hub) Notify(ownerID int64) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs[ownerID] {
		select {
		case sub.ch <- struct{}{}:
		default:
		}
	}
}

// SubscriberCount reports the number of live subscriptions for an owner.
func (h *Hub) SubscriberCount(ownerID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subs[ownerID])
}
