package nav

// Subscription is an owned handle to an event subscription. It must be
// disposed explicitly; Unsubscribe is idempotent.
type Subscription interface {
	Unsubscribe()
}

type subscription struct {
	cancel func()
}

func (s *subscription) Unsubscribe() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// subscriptions disposes several subscriptions as one.
type subscriptions []Subscription

func (ss subscriptions) Unsubscribe() {
	for _, s := range ss {
		s.Unsubscribe()
	}
}

type listener struct {
	id int
	fn func(Event)
}

// Emitter delivers events synchronously to its subscribers, in subscription
// order. The zero value is ready to use.
type Emitter struct {
	next      int
	listeners []listener
}

// Subscribe registers fn and returns the handle that removes it.
func (e *Emitter) Subscribe(fn func(Event)) Subscription {
	e.next++
	id := e.next
	e.listeners = append(e.listeners, listener{id: id, fn: fn})
	return &subscription{cancel: func() { e.remove(id) }}
}

// Emit delivers ev to every current subscriber before returning. A listener
// removed while ev is being delivered does not receive it.
func (e *Emitter) Emit(ev Event) {
	snapshot := append([]listener(nil), e.listeners...)
	for _, l := range snapshot {
		if e.has(l.id) {
			l.fn(ev)
		}
	}
}

// Len returns the number of subscribers.
func (e *Emitter) Len() int {
	return len(e.listeners)
}

func (e *Emitter) has(id int) bool {
	for _, l := range e.listeners {
		if l.id == id {
			return true
		}
	}
	return false
}

func (e *Emitter) remove(id int) {
	for i, l := range e.listeners {
		if l.id == id {
			e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
			return
		}
	}
}
