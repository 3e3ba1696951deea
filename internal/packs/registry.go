package packs

import (
	"sort"
	"strings"
)

// Registry owns every pack spec, the global keyword index, and the
// deterministic enabled-pack order. A Registry is built once at
// startup from a fixed catalog and is never mutated afterward; it is
// safe to share across goroutines without synchronization.
type Registry struct {
	all     map[string]*Pack
	ordered []*Pack // enabled packs, tier-grouped then lexicographic by id
	keyword map[string]map[string]bool // keyword -> set of pack ids that declare it
}

// NewRegistry constructs a Registry from the given catalog, enabling the
// packs whose id matches one of the enabledPrefixes (an id or a dotted
// prefix such as "core" matches every pack whose id starts with
// "core."). An empty enabledPrefixes enables every pack in the catalog.
func NewRegistry(catalog []*Pack, enabledPrefixes []string) *Registry {
	r := &Registry{
		all:     make(map[string]*Pack, len(catalog)),
		keyword: make(map[string]map[string]bool),
	}

	for _, p := range catalog {
		r.all[p.ID] = p
		for _, kw := range p.Keywords {
			set, ok := r.keyword[kw]
			if !ok {
				set = make(map[string]bool)
				r.keyword[kw] = set
			}
			set[p.ID] = true
		}
	}

	enabled := make([]*Pack, 0, len(catalog))
	for _, p := range catalog {
		if isEnabled(p.ID, enabledPrefixes) {
			enabled = append(enabled, p)
		}
	}

	sort.SliceStable(enabled, func(i, j int) bool {
		a, b := enabled[i], enabled[j]
		if a.Tier != b.Tier {
			return a.Tier < b.Tier
		}
		return a.ID < b.ID
	})
	r.ordered = enabled

	return r
}

func isEnabled(packID string, prefixes []string) bool {
	if len(prefixes) == 0 {
		return true
	}
	for _, prefix := range prefixes {
		if packID == prefix {
			return true
		}
		if len(packID) > len(prefix) && packID[:len(prefix)] == prefix && packID[len(prefix)] == '.' {
			return true
		}
	}
	return false
}

// EnabledPacksInOrder returns the enabled packs in the deterministic
// fixed order: core tier first, then extended; lexicographic
// by id within a tier.
func (r *Registry) EnabledPacksInOrder() []*Pack {
	return r.ordered
}

// Pack looks up a pack by id regardless of whether it is enabled. Used
// by the allowlist and audit layers, which need to resolve a rule id's
// pack even for a pack that was later disabled.
func (r *Registry) Pack(id string) (*Pack, bool) {
	p, ok := r.all[id]
	return p, ok
}

// All returns every pack in the catalog, enabled or not, sorted by
// id. Used by `dcg packs` (without --enabled).
func (r *Registry) All() []*Pack {
	out := make([]*Pack, 0, len(r.all))
	for _, p := range r.ordered {
		out = append(out, p)
	}
	// Append disabled packs (not already in r.ordered) for full listing.
	seen := make(map[string]bool, len(r.ordered))
	for _, p := range r.ordered {
		seen[p.ID] = true
	}
	for id, p := range r.all {
		if !seen[id] {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// PacksForKeywordHit returns the ids of enabled packs whose keyword set
// intersects the keywords actually found in text, via a cheap substring
// scan. This lets the safe/destructive passes skip packs that cannot
// possibly match.
func (r *Registry) PacksForKeywordHit(text string) []string {
	hit := make(map[string]bool)
	for kw, packIDs := range r.keyword {
		if !containsKeyword(text, kw) {
			continue
		}
		for id := range packIDs {
			hit[id] = true
		}
	}
	ids := make([]string, 0, len(hit))
	for _, p := range r.ordered {
		if hit[p.ID] {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// Keywords returns every keyword declared by an enabled pack, used by
// the quick-reject filter to build its multi-literal matcher.
func (r *Registry) Keywords() []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(r.keyword))
	for _, p := range r.ordered {
		for _, kw := range p.Keywords {
			if !seen[kw] {
				seen[kw] = true
				out = append(out, kw)
			}
		}
	}
	return out
}

func containsKeyword(text, kw string) bool {
	return strings.Contains(text, kw)
}
