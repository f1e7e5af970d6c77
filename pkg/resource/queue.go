package resource

import "github.com/decker502/assetcache/internal/manifest"

// Queue is the FIFO of declared resources waiting to be decoded.
type Queue struct {
	items []manifest.Declared
}

// Push appends resources in order.
func (q *Queue) Push(items ...manifest.Declared) {
	q.items = append(q.items, items...)
}

// Peek returns the head without removing it.
func (q *Queue) Peek() (manifest.Declared, bool) {
	if len(q.items) == 0 {
		return manifest.Declared{}, false
	}
	return q.items[0], true
}

// Pop removes and returns the head.
func (q *Queue) Pop() (manifest.Declared, bool) {
	d, ok := q.Peek()
	if !ok {
		return d, false
	}
	q.items[0] = manifest.Declared{}
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil
	}
	return d, true
}

// Len returns the number of queued resources.
func (q *Queue) Len() int {
	return len(q.items)
}

// Clear drops every queued resource.
func (q *Queue) Clear() {
	q.items = nil
}
