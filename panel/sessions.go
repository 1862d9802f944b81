// Package panel keeps one set of list stores per signed-in staff user.
package panel

import (
	"sync"
	"time"

	"github.com/yeremiapane/restaurant-backoffice/models"
	"github.com/yeremiapane/restaurant-backoffice/services"
	"github.com/yeremiapane/restaurant-backoffice/store"
	"github.com/yeremiapane/restaurant-backoffice/utils"
)

// Session holds the view state of one user.
type Session struct {
	UserID    uint
	MenuItems *store.Store[models.MenuItem]
	Orders    *store.Store[models.Order]
	Inventory *store.Store[models.InventoryItem]

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

func (s *Session) close() {
	s.MenuItems.Close()
	s.Orders.Close()
	s.Inventory.Close()
}

type Sessions struct {
	services *services.Set

	mu       sync.Mutex
	sessions map[uint]*Session

	IdleTTL  time.Duration
	Interval time.Duration
	StopChan chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

func NewSessions(set *services.Set) *Sessions {
	return &Sessions{
		services: set,
		sessions: make(map[uint]*Session),
		IdleTTL:  8 * time.Hour,
		Interval: 5 * time.Minute,
		StopChan: make(chan struct{}),
		now:      time.Now,
	}
}

// For returns the user's session, creating it on first use.
func (s *Sessions) For(userID uint) *Session {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		sess = &Session{
			UserID:    userID,
			MenuItems: store.New[models.MenuItem](s.services.MenuItems),
			Orders:    store.New[models.Order](s.services.Orders),
			Inventory: store.New[models.InventoryItem](s.services.Inventory),
		}
		s.sessions[userID] = sess
	}
	sess.touch(now)
	return sess
}

// End closes the user's stores, for example on logout.
func (s *Sessions) End(userID uint) {
	s.mu.Lock()
	sess, ok := s.sessions[userID]
	delete(s.sessions, userID)
	s.mu.Unlock()

	if ok {
		sess.close()
	}
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep ends sessions idle for longer than IdleTTL and returns how many.
func (s *Sessions) Sweep() int {
	now := s.now()

	s.mu.Lock()
	var expired []*Session
	for id, sess := range s.sessions {
		if sess.idleSince(now) > s.IdleTTL {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		sess.close()
	}
	return len(expired)
}

func (s *Sessions) Start() {
	go func() {
		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if n := s.Sweep(); n > 0 {
					utils.InfoLogger.Infof("Closed %d idle panel sessions", n)
				}
			case <-s.StopChan:
				return
			}
		}
	}()
}

func (s *Sessions) Stop() {
	s.stopOnce.Do(func() {
		close(s.StopChan)
	})
}
