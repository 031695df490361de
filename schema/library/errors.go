package library

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingSubsetDescription is returned when a subset is referenced before it is described
	ErrMissingSubsetDescription = errors.New("missing subset description")

	// ErrDuplicateSignature is returned for two distinct, indistinguishable signatures
	// visible in the same active subsets
	ErrDuplicateSignature = errors.New("duplicate signature")

	// ErrDuplicateSubsetDescription is returned when a subset is described twice
	ErrDuplicateSubsetDescription = errors.New("duplicate subset description")

	// ErrNotLiveFiltered is returned when active subsets are changed on an eager registry
	ErrNotLiveFiltered = errors.New("active subsets can only change on a live-filtered registry")

	// ErrInvalidSignature is returned for nil signatures, empty names or empty subset lists
	ErrInvalidSignature = errors.New("invalid signature")
)

// SymbolKind names the kind of library symbol an error refers to
type SymbolKind string

const (
	KindFunction SymbolKind = "function"
	KindEvent    SymbolKind = "event"
	KindConstant SymbolKind = "constant"
	KindSubset   SymbolKind = "subset"
)

// RegistryError describes a library data misconfiguration. It wraps one of the
// sentinel errors so callers can use errors.Is.
type RegistryError struct {
	Err    error
	Kind   SymbolKind
	Name   string
	Subset string

	// Existing and Conflicting are set for duplicate signatures
	Existing    interface{}
	Conflicting interface{}
}

func (e *RegistryError) Error() string {
	switch {
	case errors.Is(e.Err, ErrMissingSubsetDescription):
		if e.Name != "" {
			return fmt.Sprintf("%s %q references subset %q which has no description", e.Kind, e.Name, e.Subset)
		}
		return fmt.Sprintf("subset %q has no description", e.Subset)
	case errors.Is(e.Err, ErrDuplicateSubsetDescription):
		return fmt.Sprintf("subset %q is already described", e.Subset)
	case errors.Is(e.Err, ErrDuplicateSignature):
		return fmt.Sprintf("duplicate %s signature %q in overlapping subsets", e.Kind, e.Name)
	default:
		return fmt.Sprintf("%s %q: %v", e.Kind, e.Name, e.Err)
	}
}

func (e *RegistryError) Unwrap() error {
	return e.Err
}

func missingDescription(kind SymbolKind, name, subset string) error {
	return &RegistryError{Err: ErrMissingSubsetDescription, Kind: kind, Name: name, Subset: subset}
}

func duplicateSignature(kind SymbolKind, name string, existing, conflicting interface{}) error {
	return &RegistryError{
		Err:         ErrDuplicateSignature,
		Kind:        kind,
		Name:        name,
		Existing:    existing,
		Conflicting: conflicting,
	}
}
