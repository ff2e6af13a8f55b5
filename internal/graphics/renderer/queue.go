package renderer

// Queue is a FIFO of drawables waiting for the immediate render path
type Queue struct {
	items []Drawable
	head  int
}

// Submit appends d to the tail
func (q *Queue) Submit(d Drawable) {
	q.items = append(q.items, d)
}

// Len returns the number of queued drawables
func (q *Queue) Len() int {
	return len(q.items) - q.head
}

// Pop removes and returns the head of the queue
func (q *Queue) Pop() (Drawable, bool) {
	if q.head == len(q.items) {
		return nil, false
	}
	d := q.items[q.head]
	q.items[q.head] = nil
	q.head++
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}
	return d, true
}

// Each visits queued drawables in submission order without removing them
func (q *Queue) Each(fn func(Drawable)) {
	for _, d := range q.items[q.head:] {
		fn(d)
	}
}

// Clear drops every queued drawable
func (q *Queue) Clear() {
	clear(q.items)
	q.items = q.items[:0]
	q.head = 0
}
