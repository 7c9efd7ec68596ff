package cache

import (
	"context"
	"log"
)

// Entity names the mutable record kinds that drive invalidation.
type Entity string

const (
	EntityProduct  Entity = "product"
	EntityCategory Entity = "category"
	EntityRequest  Entity = "request"
)

// View key prefixes. Every cached query key starts with one of these.
const (
	ViewCatalog         = "catalog:"
	ViewCategories      = "categories:"
	ViewLegacy          = "legacy:"
	ViewAdminProducts   = "admin:products:"
	ViewAdminCategories = "admin:categories:"
	ViewAdminRequests   = "admin:requests:"
	ViewAdminStats      = "admin:stats:"
)

// dependents is the explicit entity-to-view dependency table: for each
// entity, the views whose cached results a mutation can stale. New views
// must be added here, not to per-handler invalidation lists.
var dependents = map[Entity][]string{
	EntityProduct: {
		ViewCatalog,
		ViewLegacy,
		ViewAdminProducts,
		ViewAdminStats,
	},
	EntityCategory: {
		ViewCatalog,
		ViewCategories,
		ViewLegacy,
		ViewAdminProducts,
		ViewAdminCategories,
		ViewAdminStats,
	},
	EntityRequest: {
		ViewAdminRequests,
		ViewAdminStats,
	},
}

// Invalidator clears every cached view a mutated entity can affect.
type Invalidator struct {
	store Store
}

func NewInvalidator(store Store) *Invalidator {
	return &Invalidator{store: store}
}

// EntityChanged drops all cached results dependent on the entity. Cache
// trouble is logged, not surfaced: a stale miss later is cheaper than
// failing the mutation that already committed.
func (i *Invalidator) EntityChanged(ctx context.Context, entity Entity) {
	if i == nil || i.store == nil {
		return
	}
	for _, prefix := range dependents[entity] {
		if err := i.store.DeleteByPrefix(ctx, prefix); err != nil {
			log.Printf("cache invalidation for %s failed on %q: %v", entity, prefix, err)
		}
	}
}
