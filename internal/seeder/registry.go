package seeder

// UniqueRegistry tracks run-wide unique field values (emails, phones,
// national IDs, usernames). One instance per run; never shared across runs,
// so repeated runs in tests cannot leak state into each other.
type UniqueRegistry struct {
	pools map[string]map[string]bool
}

func NewUniqueRegistry() *UniqueRegistry {
	return &UniqueRegistry{pools: make(map[string]map[string]bool)}
}

// Claim records value in the named pool. Returns false when the value was
// already taken this run.
func (r *UniqueRegistry) Claim(pool, value string) bool {
	p, ok := r.pools[pool]
	if !ok {
		p = make(map[string]bool)
		r.pools[pool] = p
	}
	if p[value] {
		return false
	}
	p[value] = true
	return true
}

// Size reports how many values the named pool holds.
func (r *UniqueRegistry) Size(pool string) int {
	return len(r.pools[pool])
}

// IDRegistry accumulates the primary keys persisted per entity type over a
// run. Append-only: a stage may add keys but never remove or rewrite them.
type IDRegistry struct {
	ids  map[string][]int64
	seen map[string]map[int64]bool
}

func NewIDRegistry() *IDRegistry {
	return &IDRegistry{
		ids:  make(map[string][]int64),
		seen: make(map[string]map[int64]bool),
	}
}

// Add merges ids into the registry, skipping keys already present.
func (r *IDRegistry) Add(entityType string, ids ...int64) {
	seen, ok := r.seen[entityType]
	if !ok {
		seen = make(map[int64]bool)
		r.seen[entityType] = seen
	}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		r.ids[entityType] = append(r.ids[entityType], id)
	}
}

func (r *IDRegistry) Get(entityType string) []int64 {
	return r.ids[entityType]
}

func (r *IDRegistry) Len(entityType string) int {
	return len(r.ids[entityType])
}

func (r *IDRegistry) Has(entityType string) bool {
	return len(r.ids[entityType]) > 0
}
