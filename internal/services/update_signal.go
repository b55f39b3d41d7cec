package services

import "sync/atomic"

// UpdateSignal flips once when a newer app version is available.
type UpdateSignal struct {
	set   atomic.Bool
	onSet func()
}

func NewUpdateSignal(onSet func()) *UpdateSignal {
	return &UpdateSignal{onSet: onSet}
}

// Set raises the flag. Only the first call runs onSet and returns true.
func (s *UpdateSignal) Set() bool {
	if !s.set.CompareAndSwap(false, true) {
		return false
	}
	if s.onSet != nil {
		s.onSet()
	}
	return true
}

func (s *UpdateSignal) IsSet() bool {
	return s.set.Load()
}
