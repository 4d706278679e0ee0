package structdiff

// Holder wraps a domain value together with the Value snapshot it was last
// diffed against, tracking whether the domain value has changed since. Go
// has no Deref/DerefMut to intercept mutation through a smart pointer, so
// the dirty flag is set explicitly, through Mutate, rather than inferred.
type Holder[T any] struct {
	codec    ValueCodec
	value    T
	snapshot Value
	dirty    bool
}

// NewHolder wraps value, snapshotting it immediately with codec. A nil codec
// uses ReflectValueCodec.
func NewHolder[T any](value T, codec ValueCodec) (*Holder[T], error) {
	if codec == nil {
		codec = ReflectValueCodec{}
	}
	snap, err := codec.ToValue(value)
	if err != nil {
		return nil, err
	}
	return &Holder[T]{codec: codec, value: value, snapshot: snap}, nil
}

// Get returns the current domain value.
func (h *Holder[T]) Get() T { return h.value }

// Mutate calls fn with a pointer to the held value and marks the holder
// dirty. Go can't detect whether fn actually changed anything through the
// pointer it was given, so Mutate always marks dirty regardless of whether
// the caller goes on to write through it.
func (h *Holder[T]) Mutate(fn func(*T)) {
	fn(&h.value)
	h.dirty = true
}

// Set replaces the held value outright and marks the holder dirty.
func (h *Holder[T]) Set(value T) {
	h.value = value
	h.dirty = true
}

// Dirty reports whether Set or Mutate has been called since construction or
// since the last Script call that found the holder dirty. It does not check
// whether the value actually changed.
func (h *Holder[T]) Dirty() bool { return h.dirty }

// Script diffs the current value against the last snapshot, advances the
// snapshot to the current value, and clears the dirty flag, whether or not
// there was anything to diff. It returns nil if the holder wasn't dirty, or
// if the computed Script is empty.
func (h *Holder[T]) Script(opts ...Option) (Script, error) {
	if !h.dirty {
		return nil, nil
	}
	current, err := h.codec.ToValue(h.value)
	if err != nil {
		return nil, err
	}
	script := Diff(h.snapshot, current, opts...)
	h.snapshot = current
	h.dirty = false
	if len(script) == 0 {
		return nil, nil
	}
	return script, nil
}
