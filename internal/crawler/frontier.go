package crawler

import "sync"

// Frontier is the shared work queue between the orchestrator and the fetch
// workers. Enqueue never blocks; Dequeue blocks until work is available.
//
// Drain tracking is distinct from queue length: an item is in flight from
// Enqueue until its consumer calls Done, so Join means "no work anywhere",
// not merely "queue empty".
type Frontier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	items   []Item
	pending int
}

// NewFrontier returns an empty frontier.
func NewFrontier() *Frontier {
	f := &Frontier{}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// Enqueue adds an item and counts it as in flight.
func (f *Frontier) Enqueue(item Item) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, item)
	f.pending++
	f.cond.Broadcast()
}

// EnqueueStop adds one poison pill. A worker that dequeues it must call
// Done and exit its loop without fetching.
func (f *Frontier) EnqueueStop() {
	f.Enqueue(Item{stop: true})
}

// Dequeue blocks until an item is available and returns it along with a
// stop flag indicating a poison pill.
func (f *Frontier) Dequeue() (Item, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for len(f.items) == 0 {
		f.cond.Wait()
	}
	item := f.items[0]
	f.items = f.items[1:]
	return item, item.stop
}

// Done marks one previously dequeued item as fully processed.
func (f *Frontier) Done() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending <= 0 {
		panic("frontier: Done called more times than Enqueue")
	}
	f.pending--
	if f.pending == 0 {
		f.cond.Broadcast()
	}
}

// Join blocks until every enqueued item has been dequeued and marked done.
// Items enqueued while Join is waiting are drained too.
func (f *Frontier) Join() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for f.pending > 0 {
		f.cond.Wait()
	}
}

// Len reports the number of queued (not yet dequeued) items.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}
