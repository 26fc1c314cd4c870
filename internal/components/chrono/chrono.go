package chrono

import "time"

// API is what anything that needs the current time should depend on.
type API interface {
	Now() time.Time
}

type StandardImpl struct{}

func (StandardImpl) Now() time.Time {
	return time.Now()
}

// FixedImpl returns the same instant every call, advancing by Step
// after each one when Step is set.
type FixedImpl struct {
	current time.Time
	Step    time.Duration
}

func NewFixedImpl(start time.Time, step time.Duration) *FixedImpl {
	return &FixedImpl{current: start, Step: step}
}

func (f *FixedImpl) Now() time.Time {
	now := f.current
	f.current = f.current.Add(f.Step)
	return now
}
