package overlay

import (
	"context"
	"maps"

	"github.com/dmitrijs2005/fridgekeeper/internal/client/models"
)

// CategoryMap is the product id to category id assignment document.
type CategoryMap struct {
	s *Store
}

func NewCategoryMap(s *Store) *CategoryMap { return &CategoryMap{s: s} }

// All returns a copy of every assignment. A corrupted document reads as empty.
func (c *CategoryMap) All(ctx context.Context) map[string]int {
	m, _ := GetDocument[map[string]int](ctx, c.s, KeyProductCategories)
	if m == nil {
		return map[string]int{}
	}
	return m
}

// Lookup resolves the category assigned to productID.
func (c *CategoryMap) Lookup(ctx context.Context, productID string) (models.Category, bool) {
	id, ok := c.All(ctx)[productID]
	if !ok {
		return models.Category{}, false
	}
	return models.CategoryByID(id)
}

func (c *CategoryMap) Assign(ctx context.Context, productID string, categoryID int) error {
	return MergeMapEntry(ctx, c.s, KeyProductCategories, productID, categoryID)
}

// AssignMany writes several assignments in one read-modify-write.
func (c *CategoryMap) AssignMany(ctx context.Context, assignments map[string]int) error {
	if len(assignments) == 0 {
		return nil
	}
	return Update(ctx, c.s, KeyProductCategories, func(m map[string]int, _ bool) (map[string]int, error) {
		if m == nil {
			m = make(map[string]int, len(assignments))
		}
		maps.Copy(m, assignments)
		return m, nil
	})
}

func (c *CategoryMap) Remove(ctx context.Context, productIDs ...string) error {
	return DeleteMapEntries[int](ctx, c.s, KeyProductCategories, productIDs...)
}

// Prune drops assignments whose product is not in live.
func (c *CategoryMap) Prune(ctx context.Context, live map[string]struct{}) (int, error) {
	return PruneMap[int](ctx, c.s, KeyProductCategories, func(id string) bool {
		_, ok := live[id]
		return ok
	})
}
