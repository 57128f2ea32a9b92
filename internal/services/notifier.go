package services

// notifier delivers full snapshots to registered subscribers synchronously
// after each successful store mutation. Callers hold the owning store's lock
// while emitting, so observed snapshots are strictly ordered by call order.
type notifier[T any] struct {
	nextID      int
	subscribers map[int]func(T)
}

func (n *notifier[T]) subscribe(fn func(T)) func() {
	if n.subscribers == nil {
		n.subscribers = make(map[int]func(T))
	}
	id := n.nextID
	n.nextID++
	n.subscribers[id] = fn
	return func() {
		delete(n.subscribers, id)
	}
}

func (n *notifier[T]) emit(snapshot T) {
	for _, fn := range n.subscribers {
		fn(snapshot)
	}
}
