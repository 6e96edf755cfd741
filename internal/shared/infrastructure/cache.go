package infrastructure

import (
	"context"
	"sync"
	"time"
)

// CacheEntry représente une entrée de cache avec expiration
type CacheEntry struct {
	Value      any
	Expiration time.Time
}

// IsExpired vérifie si l'entrée est expirée à l'instant now
func (e CacheEntry) IsExpired(now time.Time) bool {
	return now.After(e.Expiration)
}

// Cache interface pour l'abstraction du cache
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	Delete(key string)
	Clear()
}

// InMemoryCache implémentation en mémoire du cache avec TTL
// Utilisé pour les listes de référence (catégories, types, unités) qui changent rarement
type InMemoryCache struct {
	mu      sync.RWMutex
	entries map[string]CacheEntry
	now     func() time.Time

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewInMemoryCache crée un nouveau cache en mémoire, nettoyé toutes les cleanupEvery
// Close doit être appelé pour arrêter la goroutine de nettoyage
func NewInMemoryCache(cleanupEvery time.Duration) *InMemoryCache {
	if cleanupEvery <= 0 {
		cleanupEvery = time.Minute
	}
	cache := &InMemoryCache{
		entries: make(map[string]CacheEntry),
		now:     time.Now,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go cache.cleanupExpired(cleanupEvery)
	return cache
}

// Get récupère une valeur du cache
func (c *InMemoryCache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists || entry.IsExpired(c.now()) {
		return nil, false
	}
	return entry.Value, true
}

// Set ajoute ou met à jour une valeur dans le cache
func (c *InMemoryCache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = CacheEntry{
		Value:      value,
		Expiration: c.now().Add(ttl),
	}
}

// Delete supprime une entrée du cache
func (c *InMemoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// Clear vide complètement le cache
func (c *InMemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]CacheEntry)
}

// Len retourne le nombre d'entrées, expirées comprises tant qu'elles n'ont pas été nettoyées
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close arrête le nettoyage périodique
func (c *InMemoryCache) Close() {
	c.stopOnce.Do(func() {
		close(c.stop)
		<-c.done
	})
}

// cleanupExpired supprime périodiquement les entrées expirées
func (c *InMemoryCache) cleanupExpired(every time.Duration) {
	defer close(c.done)

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.purge()
		}
	}
}

func (c *InMemoryCache) purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, entry := range c.entries {
		if entry.IsExpired(now) {
			delete(c.entries, key)
		}
	}
}

// GetOrLoad retourne la valeur en cache ou appelle load et mémorise son résultat
// Une erreur de chargement n'est jamais mise en cache
func GetOrLoad[T any](ctx context.Context, c Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	value, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	c.Set(key, value, ttl)
	return value, nil
}
