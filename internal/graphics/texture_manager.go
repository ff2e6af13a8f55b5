package graphics

import (
	"sync"
)

// textureKey distinguishes the same image loaded with different sampling
type textureKey struct {
	path string
	opts TextureOptions
}

var (
	textureCache = make(map[textureKey]*Texture)
	cacheMutex   sync.RWMutex
)

// GetTexture returns the shared texture for path and opts, loading it on
// first use. Callers must not Release it; ReleaseTextures frees the cache.
func GetTexture(path string, opts TextureOptions) (*Texture, error) {
	key := textureKey{path: path, opts: opts}

	cacheMutex.RLock()
	tex, ok := textureCache[key]
	cacheMutex.RUnlock()
	if ok {
		return tex, nil
	}

	cacheMutex.Lock()
	defer cacheMutex.Unlock()

	// another caller may have loaded it while we waited for the lock
	if tex, ok := textureCache[key]; ok {
		return tex, nil
	}

	tex, err := LoadTexture(path, opts)
	if err != nil {
		return nil, err
	}
	textureCache[key] = tex
	return tex, nil
}

// CachedTextures reports how many textures the cache holds
func CachedTextures() int {
	cacheMutex.RLock()
	defer cacheMutex.RUnlock()
	return len(textureCache)
}

// ReleaseTextures frees every cached texture and empties the cache
func ReleaseTextures() {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()
	for key, tex := range textureCache {
		tex.Release()
		delete(textureCache, key)
	}
}
