package remote

import (
	"io"
	"sync"
)

// memBroker is an in-memory PubSub delivering messages synchronously.
type memBroker struct {
	lock     sync.Mutex
	subs     map[*memSub]bool
	retained map[string][]byte
	dropPub  func(topic string) bool
}

type memSub struct {
	broker  *memBroker
	pattern string
	handler Handler
}

func newMemBroker() *memBroker {
	return &memBroker{
		subs:     make(map[*memSub]bool),
		retained: make(map[string][]byte),
	}
}

func (b *memBroker) Subscribe(topic string, handler Handler) (io.Closer, error) {
	sub := &memSub{broker: b, pattern: topic, handler: handler}
	b.lock.Lock()
	b.subs[sub] = true
	retained := make(map[string][]byte)
	for t, payload := range b.retained {
		if MatchTopic(t, topic) {
			retained[t] = payload
		}
	}
	b.lock.Unlock()
	for t, payload := range retained {
		handler(t, payload)
	}
	return sub, nil
}

func (b *memBroker) Publish(topic string, payload []byte, retain bool) error {
	var handlers []Handler
	b.lock.Lock()
	if b.dropPub != nil && b.dropPub(topic) {
		b.lock.Unlock()
		return nil
	}
	if retain {
		if len(payload) == 0 {
			delete(b.retained, topic)
		} else {
			b.retained[topic] = payload
		}
	}
	for sub := range b.subs {
		if MatchTopic(topic, sub.pattern) {
			handlers = append(handlers, sub.handler)
		}
	}
	b.lock.Unlock()
	for _, h := range handlers {
		h(topic, payload)
	}
	return nil
}

func (s *memSub) Close() error {
	s.broker.lock.Lock()
	delete(s.broker.subs, s)
	s.broker.lock.Unlock()
	return nil
}
