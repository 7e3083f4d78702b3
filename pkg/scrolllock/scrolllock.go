// Package scrolllock reference-counts requests to freeze page scrolling.
//
// The navigation menu and the lightbox can both hold the lock; scrolling is
// only restored once every holder has released it.
package scrolllock

import (
	"sort"
	"sync"
)

// Lock is a reference-counted scroll lock shared by several owners
type Lock struct {
	mu       sync.Mutex
	holders  map[string]int
	count    int
	onChange func(locked bool)
}

// New creates a lock. onChange is called with true when the first holder
// acquires it and with false when the last holder releases it. It runs while
// the lock's mutex is held and must not call back into the Lock.
func New(onChange func(locked bool)) *Lock {
	return &Lock{
		holders:  make(map[string]int),
		onChange: onChange,
	}
}

// Acquire takes a hold on behalf of owner and returns its release function.
// Calling release more than once has no further effect.
func (l *Lock) Acquire(owner string) (release func()) {
	l.mu.Lock()
	l.holders[owner]++
	l.count++
	if l.count == 1 && l.onChange != nil {
		l.onChange(true)
	}
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { l.release(owner) })
	}
}

func (l *Lock) release(owner string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.holders[owner] == 0 {
		return
	}
	l.holders[owner]--
	if l.holders[owner] == 0 {
		delete(l.holders, owner)
	}
	l.count--
	if l.count == 0 && l.onChange != nil {
		l.onChange(false)
	}
}

// Locked reports whether any owner currently holds the lock
func (l *Lock) Locked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count > 0
}

// Holders returns the owners with an outstanding hold, sorted by name
func (l *Lock) Holders() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	owners := make([]string, 0, len(l.holders))
	for owner := range l.holders {
		owners = append(owners, owner)
	}
	sort.Strings(owners)
	return owners
}
