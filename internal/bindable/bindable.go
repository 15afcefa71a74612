package bindable

import "math"

// Bindable is a value holder that notifies registered listeners
// synchronously when its value changes. All access must happen on the
// frame-loop goroutine; cross-goroutine mutation goes through the
// scheduler instead of a lock.
type Bindable[T comparable] struct {
	value     T
	listeners []func(T)
}

// New creates a Bindable holding the given initial value.
func New[T comparable](initial T) *Bindable[T] {
	return &Bindable[T]{value: initial}
}

// Value returns the current value.
func (b *Bindable[T]) Value() T {
	return b.value
}

// Set updates the value and notifies listeners. Setting the same value
// again is a no-op.
func (b *Bindable[T]) Set(v T) {
	if v == b.value {
		return
	}
	b.value = v
	for _, fn := range b.listeners {
		fn(v)
	}
}

// OnChange registers a listener invoked on every value change.
// If runNow is true the listener is also invoked immediately with the
// current value.
func (b *Bindable[T]) OnChange(fn func(T), runNow bool) {
	b.listeners = append(b.listeners, fn)
	if runNow {
		fn(b.value)
	}
}

// BoundedDouble is a float64 Bindable constrained to [min, max] and
// quantized to a fixed step. Out-of-range values are clamped, never
// rejected with an error.
type BoundedDouble struct {
	Bindable[float64]
	min, max, step float64
}

// NewBoundedDouble creates a BoundedDouble. The initial value is
// normalized like any other Set.
func NewBoundedDouble(initial, min, max, step float64) *BoundedDouble {
	b := &BoundedDouble{min: min, max: max, step: step}
	b.value = b.normalize(initial)
	return b
}

// Set clamps and quantizes v before storing it.
func (b *BoundedDouble) Set(v float64) {
	b.Bindable.Set(b.normalize(v))
}

// Min returns the lower bound.
func (b *BoundedDouble) Min() float64 { return b.min }

// Max returns the upper bound.
func (b *BoundedDouble) Max() float64 { return b.max }

// Step returns the quantization step.
func (b *BoundedDouble) Step() float64 { return b.step }

func (b *BoundedDouble) normalize(v float64) float64 {
	if b.step > 0 {
		v = math.Round(v/b.step) * b.step
	}
	if v < b.min {
		v = b.min
	}
	if v > b.max {
		v = b.max
	}
	return v
}
