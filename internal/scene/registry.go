package scene

import (
	"fmt"
	"sort"
	"sync"

	"forma/pkg/util"
)

// Registry mirrors the object names that exist on the host, fed by host
// events, so utterances like "apply mirror to the cube" can be resolved
// against real scene content.
type Registry struct {
	mu      sync.RWMutex
	objects map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{objects: make(map[string]struct{})}
}

func (r *Registry) Add(name string) {
	if name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.objects[name] = struct{}{}
}

func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.objects, name)
}

func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.objects[name]
	return ok
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.objects))
	for name := range r.objects {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Resolve maps a spoken word to a registered object name, folding case
// and punctuation on both sides. Exact registered names win.
func (r *Registry) Resolve(word string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.objects[word]; ok {
		return word, true
	}

	folded := util.Fold(word)
	if folded == "" {
		return "", false
	}
	for name := range r.objects {
		if util.Fold(name) == folded {
			return name, true
		}
	}
	return "", false
}

// UniqueName picks the next free Blender-style name for a base: Cube,
// Cube.001, Cube.002, ...
func (r *Registry) UniqueName(base string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, taken := r.objects[base]; !taken {
		return base
	}
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s.%03d", base, i)
		if _, taken := r.objects[name]; !taken {
			return name
		}
	}
}
