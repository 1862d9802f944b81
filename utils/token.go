package utils

import (
	"sync"
	"time"
)

// Blacklist menyimpan token yang sudah logout sampai masa berlakunya habis.
type Blacklist struct {
	mu       sync.RWMutex
	tokens   map[string]time.Time
	interval time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
}

func NewBlacklist(cleanupInterval time.Duration) *Blacklist {
	if cleanupInterval <= 0 {
		cleanupInterval = time.Hour
	}
	return &Blacklist{
		tokens:   make(map[string]time.Time),
		interval: cleanupInterval,
		stopChan: make(chan struct{}),
	}
}

func (b *Blacklist) Add(token string, expiry time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens[token] = expiry
}

func (b *Blacklist) Contains(token string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	expiry, exists := b.tokens[token]
	return exists && time.Now().Before(expiry)
}

// Purge menghapus token kadaluarsa dan mengembalikan jumlah yang dihapus.
func (b *Blacklist) Purge(now time.Time) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	removed := 0
	for token, expiry := range b.tokens {
		if !now.Before(expiry) {
			delete(b.tokens, token)
			removed++
		}
	}
	return removed
}

func (b *Blacklist) Start() {
	go func() {
		ticker := time.NewTicker(b.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if removed := b.Purge(time.Now()); removed > 0 {
					InfoLogger.Debugf("Purged %d expired tokens from blacklist", removed)
				}
			case <-b.stopChan:
				return
			}
		}
	}()
}

func (b *Blacklist) Stop() {
	b.stopOnce.Do(func() {
		close(b.stopChan)
	})
}
