package fibre

type (
	// link is the intrusive linkage embedded in each list element. An element
	// may be a member of at most one list at a time.
	link[E comparable] struct {
		prev, next E
	}

	linked[E comparable] interface {
		comparable
		linkage() *link[E]
	}

	// list is a doubly linked, intrusive list. The ready queues use it as a
	// FIFO (PushBack / PopFront), the free list as a LIFO (PushFront /
	// PopFront).
	list[E linked[E]] struct {
		head, tail E
		len        int
	}
)

func (x *list[E]) Len() int { return x.len }

func (x *list[E]) PushBack(e E) {
	var zero E
	l := e.linkage()
	l.prev, l.next = x.tail, zero
	if x.tail == zero {
		x.head = e
	} else {
		x.tail.linkage().next = e
	}
	x.tail = e
	x.len++
}

func (x *list[E]) PushFront(e E) {
	var zero E
	l := e.linkage()
	l.prev, l.next = zero, x.head
	if x.head == zero {
		x.tail = e
	} else {
		x.head.linkage().prev = e
	}
	x.head = e
	x.len++
}

// PopFront removes and returns the head, or the zero value if empty.
func (x *list[E]) PopFront() E {
	var zero E
	e := x.head
	if e == zero {
		return zero
	}
	l := e.linkage()
	x.head = l.next
	if x.head == zero {
		x.tail = zero
	} else {
		x.head.linkage().prev = zero
	}
	l.prev, l.next = zero, zero
	x.len--
	return e
}

// All iterates from head to tail. The element must not be removed during
// iteration.
func (x *list[E]) All(yield func(E) bool) {
	var zero E
	for e := x.head; e != zero; e = e.linkage().next {
		if !yield(e) {
			return
		}
	}
}
