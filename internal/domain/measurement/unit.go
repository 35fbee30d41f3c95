// Package measurement holds the read-only measurement unit taxonomy the
// import pipeline resolves ingredient units against.
package measurement

import "github.com/google/uuid"

// UnitGroup groups units under a fixed taxonomy
type UnitGroup string

const (
	GroupWeight UnitGroup = "weight"
	GroupVolume UnitGroup = "volume"
	GroupCount  UnitGroup = "count"
	GroupMisc   UnitGroup = "misc"
)

// Distinguished unit names the pipeline depends on. The "unknown" entry
// must exist in the backing store or cache initialization fails loudly.
const (
	UnitUnknown = "unknown"
	UnitEach    = "each"
	UnitToTaste = "to taste"
)

// Unit is a canonical measurement unit. Reference data, never written by
// the import pipeline.
type Unit struct {
	ID    uuid.UUID
	Name  string
	Group UnitGroup
}

// IsZero reports whether the unit is the zero value
func (u Unit) IsZero() bool {
	return u.ID == uuid.Nil && u.Name == ""
}
