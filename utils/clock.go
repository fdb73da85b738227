package utils

import (
	"sync"
	"time"
)

// Clock supplies block timestamps in seconds since epoch.
type Clock interface {
	Now() uint64
}

type SystemClock struct{}

func (SystemClock) Now() uint64 {
	return uint64(time.Now().Unix())
}

// FixedClock always reports the same second.
type FixedClock uint64

func (c FixedClock) Now() uint64 {
	return uint64(c)
}

// StepClock starts at a given second and advances by step on every read.
type StepClock struct {
	next uint64
	step uint64
	m    sync.Mutex
}

func NewStepClock(start uint64, step uint64) *StepClock {
	return &StepClock{next: start, step: step}
}

func (c *StepClock) Now() uint64 {
	c.m.Lock()
	defer c.m.Unlock()
	now := c.next
	c.next += c.step
	return now
}
