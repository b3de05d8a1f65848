package repositories

import "sync"

// Change describes a mutation to a locally persisted collection, so live
// views can refresh without polling the database.
type Change struct {
	Collection string
	EntityID   string
	Removed    bool
}

// Notifier fans out collection changes to subscribed views.
//
// Delivery is best-effort: a subscriber that has fallen behind misses the
// event rather than blocking the writer. The database remains the source
// of truth, so a missed event only delays a refresh.
type Notifier struct {
	mu   sync.Mutex
	subs map[int]chan Change
	next int
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]chan Change)}
}

// Subscribe returns a change channel and a cancel function. Cancel is safe
// to call more than once.
func (n *Notifier) Subscribe() (<-chan Change, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.next
	n.next++

	ch := make(chan Change, 16)
	n.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()

			delete(n.subs, id)
			close(ch)
		})
	}

	return ch, cancel
}

// Publish delivers c to every current subscriber without blocking.
func (n *Notifier) Publish(c Change) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, ch := range n.subs {
		select {
		case ch <- c:
		default:
		}
	}
}
