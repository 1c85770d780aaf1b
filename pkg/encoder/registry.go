package encoder

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry keeps all the codecs a recorder may choose from.
type Registry struct {
	mu     sync.RWMutex
	codecs map[string]Codec
}

func NewRegistry(codecs ...Codec) *Registry {
	r := &Registry{codecs: make(map[string]Codec, len(codecs))}
	for _, c := range codecs {
		r.Register(c)
	}
	return r
}

// Register adds a codec replacing the one with the same name.
func (r *Registry) Register(c Codec) {
	r.mu.Lock()
	r.codecs[strings.ToLower(c.Name())] = c
	r.mu.Unlock()
}

func (r *Registry) Get(name string) (Codec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.codecs[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w [%v], available: %v", ErrUnknownCodec, name, r.names())
	}
	return c, nil
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.names()
}

func (r *Registry) names() []string {
	names := make([]string, 0, len(r.codecs))
	for k := range r.codecs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
