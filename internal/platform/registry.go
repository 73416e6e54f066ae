package platform

import "golang.org/x/text/cases"

var fold = cases.Fold()

// Registry holds platforms in registration order, which is the order every
// pipeline stage iterates.
type Registry struct {
	platforms []Platform
	byName    map[string]Platform
}

// NewRegistry registers platforms in the given order. Later duplicates are
// ignored.
func NewRegistry(platforms ...Platform) *Registry {
	r := &Registry{byName: map[string]Platform{}}
	for _, p := range platforms {
		r.Register(p)
	}
	return r
}

// Register appends p unless its name is already taken.
func (r *Registry) Register(p Platform) {
	key := fold.String(p.Name())
	if _, dup := r.byName[key]; dup {
		return
	}
	r.platforms = append(r.platforms, p)
	r.byName[key] = p
	if a, ok := p.(Aliased); ok {
		for _, alias := range a.Aliases() {
			if _, taken := r.byName[fold.String(alias)]; !taken {
				r.byName[fold.String(alias)] = p
			}
		}
	}
}

// All returns the platforms in registration order.
func (r *Registry) All() []Platform {
	return append([]Platform(nil), r.platforms...)
}

// Names returns the canonical names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.platforms))
	for _, p := range r.platforms {
		out = append(out, p.Name())
	}
	return out
}

// Lookup finds a platform by name or alias, ignoring case.
func (r *Registry) Lookup(name string) (Platform, bool) {
	p, ok := r.byName[fold.String(name)]
	return p, ok
}
