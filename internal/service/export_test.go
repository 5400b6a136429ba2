package service

import "time"

// Test hooks for replacing the clock.

func (tb *TokenBucket) SetClock(now func() time.Time) { tb.now = now }

func (tb *TokenBucket) Sweep() { tb.sweep() }

func (tb *TokenBucket) Len() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return len(tb.buckets)
}

func (s *TaskService) SetClock(now func() time.Time) { s.now = now }

func (m *MemoryRevocations) SetClock(now func() time.Time) { m.now = now }
