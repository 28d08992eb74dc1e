package cache

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// The cache is a package used for large objects that we want to load only
// once per process, such as the word lists. It also holds the persisted
// entropy stores (see store.go).

type objectCache struct {
	sync.Mutex
	objects map[string]any
}

// GlobalObjectCache is the process-wide object cache.
var GlobalObjectCache = &objectCache{objects: make(map[string]any)}

func (c *objectCache) get(key string, loadFunc func(key string) (any, error)) (any, error) {
	c.Lock()
	defer c.Unlock()
	if obj, ok := c.objects[key]; ok {
		log.Debug().Str("key", key).Msg("getting obj from cache")
		return obj, nil
	}
	log.Debug().Str("key", key).Msg("loading into cache")
	obj, err := loadFunc(key)
	if err != nil {
		return nil, err
	}
	c.objects[key] = obj
	return obj, nil
}

// Load returns the object stored under key, calling loadFunc to create it
// the first time.
func Load[T any](key string, loadFunc func(key string) (T, error)) (T, error) {
	obj, err := GlobalObjectCache.get(key, func(k string) (any, error) {
		return loadFunc(k)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	t, ok := obj.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache: object under %q has type %T", key, obj)
	}
	return t, nil
}

// Evict drops key so the next Load reads it again.
func Evict(key string) {
	GlobalObjectCache.Lock()
	defer GlobalObjectCache.Unlock()
	delete(GlobalObjectCache.objects, key)
}
