package params

import "iter"

// Entry is one key/value item of a store.
type Entry struct {
	Key   string
	Value string
}

// Iterator is a forward-only cursor over items fixed at creation time.
// Later mutation of the store is not reflected, and an exhausted iterator
// stays exhausted.
type Iterator[T any] struct {
	items []T
	pos   int
}

func newIterator[T any](items []T) *Iterator[T] {
	return &Iterator[T]{items: items}
}

// Next returns the next item. ok is false once the iterator is exhausted.
func (it *Iterator[T]) Next() (item T, ok bool) {
	if it.pos >= len(it.items) {
		return item, false
	}
	item = it.items[it.pos]
	it.pos++
	return item, true
}

// Len returns the number of items not yet consumed.
func (it *Iterator[T]) Len() int {
	return len(it.items) - it.pos
}

// Seq returns a sequence that consumes the remaining items.
func (it *Iterator[T]) Seq() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			item, ok := it.Next()
			if !ok || !yield(item) {
				return
			}
		}
	}
}

// snapshot lists every stored value in current key/value order.
func (p *Params) snapshot() []Entry {
	entries := make([]Entry, 0, p.Size())
	for _, key := range p.order {
		for _, v := range p.values[key] {
			entries = append(entries, Entry{Key: key, Value: v})
		}
	}
	return entries
}

// ForEach calls fn once per stored value, in current order, with the value,
// its key and the store itself. The set of calls is fixed before the first
// one, so fn may mutate the store.
func (p *Params) ForEach(fn func(value, key string, p *Params)) {
	for _, e := range p.snapshot() {
		fn(e.Value, e.Key, p)
	}
}

// Keys returns an iterator yielding each key once per value it holds.
func (p *Params) Keys() *Iterator[string] {
	entries := p.snapshot()
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return newIterator(keys)
}

// Values returns an iterator over all values, flattened across keys.
func (p *Params) Values() *Iterator[string] {
	entries := p.snapshot()
	values := make([]string, len(entries))
	for i, e := range entries {
		values[i] = e.Value
	}
	return newIterator(values)
}

// Entries returns an iterator over every key/value pair.
func (p *Params) Entries() *Iterator[Entry] {
	return newIterator(p.snapshot())
}

// All returns a sequence over every key/value pair. Each range over the
// sequence snapshots the store when it starts.
func (p *Params) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, e := range p.snapshot() {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}
