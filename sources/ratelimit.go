package sources

import (
	"sync"
	"time"
)

// sourceWindow tracks one fixed admission window for a single source.
type sourceWindow struct {
	count int
	reset time.Time
}

// SourceLimiter admits upstream requests per source within a fixed window.
// One limiter is constructed at process start and shared by all adapters;
// all window state is serialized behind a single mutex.
type SourceLimiter struct {
	mu      sync.Mutex
	windows map[string]*sourceWindow
	budget  int
	window  time.Duration
	now     func() time.Time
}

// NewSourceLimiter creates a limiter allowing budget requests per source
// within each window.
func NewSourceLimiter(budget int, window time.Duration) *SourceLimiter {
	return &SourceLimiter{
		windows: make(map[string]*sourceWindow),
		budget:  budget,
		window:  window,
		now:     time.Now,
	}
}

// Admit reports whether one more request to the given source fits in the
// current window. The first admission, or any admission after the window
// expired, starts a fresh window with count 1.
func (l *SourceLimiter) Admit(source string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[source]
	if !ok || now.After(w.reset) {
		l.windows[source] = &sourceWindow{count: 1, reset: now.Add(l.window)}
		return true
	}
	if w.count >= l.budget {
		return false
	}
	w.count++
	return true
}
