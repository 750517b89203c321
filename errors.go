package folio

import "fmt"

// CollisionError reports two content files resolving to the same slug. It is
// fatal to the catalog build: ambiguous routing is never silently resolved.
type CollisionError struct {
	Slug  string
	FileA string
	FileB string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("slug %q resolved by both %s and %s", e.Slug, e.FileA, e.FileB)
}
