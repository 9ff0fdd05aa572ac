// Package encoder wraps the external BPE libraries behind a small capability
// set and caches loaded encodings per owner.
//
// Encoder is the only required capability. TokenDecoder, TextEncoder and
// ChatEncoder are optional; callers discover them with type assertions:
//
//	ids, err := enc.Encode(text)
//	if d, ok := enc.(encoder.TokenDecoder); ok {
//	    s, _ := d.DecodeToken(ids[0])
//	}
package encoder

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/zhubert/tokenlens/internal/errors"
	"github.com/zhubert/tokenlens/internal/logger"
)

// Encoder turns text into token ids for one encoding family.
type Encoder interface {
	Name() string
	Encode(text string) ([]int, error)
}

// TokenDecoder decodes a single token id to its display text.
type TokenDecoder interface {
	DecodeToken(id int) (string, error)
}

// TextEncoder returns ids together with their per-token texts in one pass.
type TextEncoder interface {
	EncodeWithTexts(text string) ([]int, []string, error)
}

// ChatEncoder frames role-tagged messages itself, including any special
// tokens its vocabulary defines for chat.
type ChatEncoder interface {
	EncodeChat(messages []Message) ([]int, error)
}

// Loader builds an Encoder for an encoding name.
type Loader func(encoding string) (Encoder, error)

// Backend names accepted by LoaderFor.
const (
	BackendTiktoken = "tiktoken"
	BackendCodec    = "codec"
)

// Backends lists the available backends.
var Backends = []string{BackendTiktoken, BackendCodec}

// LoaderFor returns the loader for a backend name.
func LoaderFor(backend string) (Loader, error) {
	switch strings.ToLower(backend) {
	case "", BackendTiktoken:
		return TiktokenLoader(true), nil
	case BackendCodec:
		return CodecLoader(), nil
	default:
		return nil, errors.E(errors.Op("encoder.LoaderFor"), errors.KindInvalid,
			fmt.Sprintf("unknown backend %q (want one of %s)", backend, strings.Join(Backends, ", ")))
	}
}

// Cache memoizes encoders by encoding name for the lifetime of its owner.
// Entries are only ever added. Concurrent misses for the same encoding share
// one load.
type Cache struct {
	backend string
	loader  Loader

	mu      sync.RWMutex
	entries map[string]Encoder
	loads   int

	group singleflight.Group
}

// NewCache creates an empty cache over loader. backend only labels logs.
func NewCache(backend string, loader Loader) *Cache {
	return &Cache{
		backend: backend,
		loader:  loader,
		entries: make(map[string]Encoder),
	}
}

// Get returns the cached encoder for encoding, loading it on a miss.
func (c *Cache) Get(encoding string) (Encoder, error) {
	c.mu.RLock()
	enc, ok := c.entries[encoding]
	c.mu.RUnlock()
	if ok {
		return enc, nil
	}

	v, err, _ := c.group.Do(encoding, func() (any, error) {
		c.mu.RLock()
		enc, ok := c.entries[encoding]
		c.mu.RUnlock()
		if ok {
			return enc, nil
		}

		logger.WithComponent("Encoder").Debug("loading encoding", "backend", c.backend, "encoding", encoding)
		enc, err := c.loader(encoding)
		if err != nil {
			return nil, errors.EncodingUnavailable(encoding, err)
		}

		c.mu.Lock()
		c.entries[encoding] = enc
		c.loads++
		c.mu.Unlock()
		return enc, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Encoder), nil
}

// Backend returns the backend label.
func (c *Cache) Backend() string {
	return c.backend
}

// Len returns the number of cached encoders.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Loads returns how many times the loader has succeeded.
func (c *Cache) Loads() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loads
}
