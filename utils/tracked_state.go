package utils

import (
	"time"
)

// Tracker remembers the previous distinct value it has seen.
type Tracker[T comparable] struct {
	LastValue   T
	Value       T
	UpdatedTime time.Time
	initialized bool
}

func (t *Tracker[T]) Update(val T) (updated bool) {
	if !t.initialized {
		t.initialized = true
		t.Value = val
		t.LastValue = val
		t.UpdatedTime = time.Now()
		return false
	}
	if t.Value != val {
		t.LastValue = t.Value
		t.UpdatedTime = time.Now()
		t.Value = val
		return true
	}
	return false
}
