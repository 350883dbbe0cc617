// SPDX-License-Identifier: AGPL-3.0-or-later
// DMRHub - Run a DMR network server in a single binary
// Copyright (C) 2023-2024 Jacob McSwain
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package pubsub

import (
	"sync"

	"github.com/dvmhub/dvmcore/internal/config"
)

const subscriberBuffer = 16

func makeInMemoryPubSub(_ *config.Config) (PubSub, error) {
	return &inMemoryPubSub{topics: make(map[string][]chan []byte)}, nil
}

// inMemoryPubSub fans a published message out to every channel currently
// subscribed to its topic; a slow subscriber drops messages rather than
// stalling the publisher.
type inMemoryPubSub struct {
	mu     sync.Mutex
	topics map[string][]chan []byte
}

func (ps *inMemoryPubSub) Publish(topic string, message []byte) error {
	ps.mu.Lock()
	subs := ps.topics[topic]
	ps.mu.Unlock()
	for _, ch := range subs {
		select {
		case ch <- message:
		default:
		}
	}
	return nil
}

func (ps *inMemoryPubSub) Subscribe(topic string) Subscription {
	ch := make(chan []byte, subscriberBuffer)
	ps.mu.Lock()
	ps.topics[topic] = append(ps.topics[topic], ch)
	ps.mu.Unlock()
	return &inMemorySubscription{ps: ps, topic: topic, ch: ch}
}

func (ps *inMemoryPubSub) Close() error {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	for _, subs := range ps.topics {
		for _, ch := range subs {
			close(ch)
		}
	}
	ps.topics = make(map[string][]chan []byte)
	return nil
}

type inMemorySubscription struct {
	ps    *inMemoryPubSub
	topic string
	ch    chan []byte
}

func (s *inMemorySubscription) Close() error {
	s.ps.mu.Lock()
	subs := s.ps.topics[s.topic]
	for i, ch := range subs {
		if ch == s.ch {
			s.ps.topics[s.topic] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	s.ps.mu.Unlock()
	close(s.ch)
	return nil
}

func (s *inMemorySubscription) Channel() <-chan []byte {
	return s.ch
}
