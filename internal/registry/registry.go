// Package registry holds the canonical set of valid candidate names.
// Every extracted (name, votes) pair is validated against this set before
// it is allowed into any downstream result; names outside the set are not
// real candidate entries and are silently discarded by the parsers.
package registry

// Registry is a fixed, ordered set of canonical candidate names. The
// iteration order of Names is the canonical order used by the
// reconciliation walk, so reports are deterministic.
type Registry struct {
	names []string
	index map[string]struct{}
}

// New builds a registry from the given names, preserving their order.
func New(names ...string) *Registry {
	r := &Registry{
		names: make([]string, 0, len(names)),
		index: make(map[string]struct{}, len(names)),
	}
	for _, name := range names {
		if _, ok := r.index[name]; ok {
			continue
		}
		r.names = append(r.names, name)
		r.index[name] = struct{}{}
	}
	return r
}

// candidateNames lists the candidates of the November 2024 presidential
// first round in ballot order, spelled exactly as they appear on the
// official A3 precinct report form.
var candidateNames = []string{
	"ELENA-VALERICA LASCONI",
	"GEORGE-NICOLAE SIMION",
	"ION-MARCEL CIOLACU",
	"NICOLAE-IONEL CIUCĂ",
	"HUNOR KELEMEN",
	"MIRCEA-DAN GEOANĂ",
	"ANA BIRCHALL",
	"ALEXANDRA-BEATRICE BERTALAN-PĂCURARU",
	"SEBASTIAN-CONSTANTIN POPESCU",
	"LUDOVIC ORBAN",
	"CĂLIN GEORGESCU",
	"CRISTIAN DIACONESCU",
	"CRISTIAN-VASILE TERHEȘ",
	"SILVIU PREDOIU",
}

// Default returns the registry for the current election.
func Default() *Registry {
	return New(candidateNames...)
}

// Contains reports whether name is a canonical candidate name.
func (r *Registry) Contains(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Names returns the candidate names in canonical order. The returned
// slice is a copy; callers may not mutate the registry through it.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of candidates in the registry.
func (r *Registry) Len() int {
	return len(r.names)
}
