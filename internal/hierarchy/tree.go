package hierarchy

import (
	"context"
	"fmt"

	apperrors "brotos/internal/errors"
	"brotos/internal/model"
)

// ParentLookup resolves the recruiter of id. ok is false when id does not exist.
type ParentLookup func(ctx context.Context, id string) (parentID string, ok bool, err error)

// CheckParent verifies that giving id the recruiter parentID keeps the network a forest:
// the parent must exist and id must not be one of its ancestors. An empty parentID always passes.
func CheckParent(ctx context.Context, lookup ParentLookup, id, parentID string) error {
	if parentID == "" {
		return nil
	}
	if parentID == id {
		return apperrors.ErrCycle
	}

	seen := map[string]struct{}{}
	current := parentID
	for current != "" {
		if current == id {
			return apperrors.ErrCycle
		}
		if _, loop := seen[current]; loop {
			// Pre-existing loop that does not pass through id.
			return apperrors.ErrCycle
		}
		seen[current] = struct{}{}

		next, ok, err := lookup(ctx, current)
		if err != nil {
			return fmt.Errorf("resolve recruiter %s: %w", current, err)
		}
		if !ok {
			if current == parentID {
				return apperrors.NewValidationError("parentId", "recruiter does not exist")
			}
			// Dangling link higher up the chain ends the walk.
			return nil
		}
		current = next
	}
	return nil
}

// IndexLookup adapts an in-memory roster to a ParentLookup.
func IndexLookup(all []model.Consultant) ParentLookup {
	index := make(map[string]string, len(all))
	for _, c := range all {
		index[c.ID] = c.ParentIDValue()
	}
	return func(_ context.Context, id string) (string, bool, error) {
		parent, ok := index[id]
		return parent, ok, nil
	}
}

// Depth counts recruiter links from c up to its root. It stops at dangling links and reports
// false if it runs into a cycle.
func Depth(all []model.Consultant, id string) (int, bool) {
	lookup := IndexLookup(all)
	seen := map[string]struct{}{}
	depth := 0
	current := id
	for {
		if _, loop := seen[current]; loop {
			return depth, false
		}
		seen[current] = struct{}{}
		parent, ok, _ := lookup(context.Background(), current)
		if !ok || parent == "" {
			return depth, true
		}
		depth++
		current = parent
	}
}
