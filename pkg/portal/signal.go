package portal

import (
	"sync"

	"github.com/rs/zerolog"
)

// authSignal is a no-argument broadcast fired whenever the session changes.
// The zero value is ready to use.
type authSignal struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func()
}

// subscribe registers fn and returns a function that removes it again.
func (s *authSignal) subscribe(fn func()) func() {
	s.mu.Lock()
	if s.subs == nil {
		s.subs = make(map[int]func())
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// notify invokes every subscriber. Delivery is best-effort: a panicking
// subscriber is logged and swallowed so it can never abort the session
// change that triggered the broadcast.
func (s *authSignal) notify(log zerolog.Logger) {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Debug().Interface("panic", r).Msg("auth-change subscriber panicked")
				}
			}()
			fn()
		}()
	}
}
