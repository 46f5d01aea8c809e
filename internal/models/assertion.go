package models

// Supported assertion targets
const (
	TargetStatus   = "status"
	TargetHeader   = "header"
	TargetBodyPath = "body-path"
	TargetDuration = "duration"
)

// Supported assertion comparators
const (
	CompEquals      = "equals"
	CompContains    = "contains"
	CompGreaterThan = "greaterThan"
	CompLessThan    = "lessThan"
	CompDefined     = "defined"
	CompNull        = "null"
)

// AssertionSpec is a single declarative check against a captured response.
// Key names the header or the dotted body path, depending on Target.
type AssertionSpec struct {
	Name       string `json:"name"`
	Target     string `json:"target"`
	Key        string `json:"key,omitempty"`
	Comparator string `json:"comparator"`
	Expected   string `json:"expected,omitempty"`
}

// ValidTargets returns all valid assertion targets
func ValidTargets() []string {
	return []string{TargetStatus, TargetHeader, TargetBodyPath, TargetDuration}
}

// ValidComparators returns all valid assertion comparators
func ValidComparators() []string {
	return []string{
		CompEquals, CompContains, CompGreaterThan,
		CompLessThan, CompDefined, CompNull,
	}
}
