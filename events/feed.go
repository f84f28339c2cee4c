package events

import (
	"reflect"
	"sync"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "events")

type Subscription interface {
	Unsubscribe()
}

type feedSubscription[T any] struct {
	feed *Feed[T]
	ch   chan<- T
	once sync.Once
}

func (fs *feedSubscription[T]) Unsubscribe() {
	fs.once.Do(func() {
		fs.feed.unsubscribe(fs.ch)
	})
}

// Feed delivers values of type T to every subscribed channel.
// The zero value is ready to use.
type Feed[T any] struct {
	lock sync.Mutex
	subs []chan<- T
}

// Subscribe adds a channel to the feed. Send blocks until the channel accepts
// the value, so subscribers should read continuously or use a buffer.
func (f *Feed[T]) Subscribe(ch chan<- T) Subscription {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.subs = append(f.subs, ch)

	return &feedSubscription[T]{feed: f, ch: ch}
}

func (f *Feed[T]) unsubscribe(ch chan<- T) {
	f.lock.Lock()
	defer f.lock.Unlock()

	for i, c := range f.subs {
		if c == ch {
			f.subs = append(f.subs[:i], f.subs[i+1:]...)
			return
		}
	}
}

// SubscriberCount returns the number of current subscribers.
func (f *Feed[T]) SubscriberCount() int {
	f.lock.Lock()
	defer f.lock.Unlock()

	return len(f.subs)
}

// Send delivers data to all subscribers and returns the number of them reached.
func (f *Feed[T]) Send(data T) int {
	f.lock.Lock()
	pending := make([]chan<- T, len(f.subs))
	copy(pending, f.subs)
	f.lock.Unlock()

	sent := 0

	// try to send data without blocking
	waiting := pending[:0]
	for _, ch := range pending {
		select {
		case ch <- data:
			sent++
		default:
			waiting = append(waiting, ch)
		}
	}

	if len(waiting) == 0 {
		return sent
	}

	log.Warnf("Can't send event %T. Waiting subscribers %d", data, len(waiting))

	value := reflect.ValueOf(&data).Elem()
	cases := make([]reflect.SelectCase, len(waiting))
	for i, ch := range waiting {
		cases[i] = reflect.SelectCase{Dir: reflect.SelectSend, Chan: reflect.ValueOf(ch), Send: value}
	}

	// select on all the receivers, waiting for them to unblock
	for len(cases) > 0 {
		chosen, _, _ := reflect.Select(cases)
		cases = deleteCase(cases, chosen)
		sent++
	}

	return sent
}

func deleteCase(c []reflect.SelectCase, i int) []reflect.SelectCase {
	last := len(c) - 1
	if i != last {
		c[i], c[last] = c[last], c[i]
	}

	return c[:last]
}
