package library

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Mode selects how a Registry treats signatures outside the active subsets
type Mode int

const (
	// EagerFiltered discards signatures outside the active subsets at insertion time.
	// The active subsets are fixed when the registry is created.
	EagerFiltered Mode = iota

	// LiveFiltered stores every signature and filters at query time. The active
	// subsets may be changed at runtime.
	LiveFiltered
)

func (m Mode) String() string {
	switch m {
	case EagerFiltered:
		return "eager"
	case LiveFiltered:
		return "live"
	default:
		return "unknown"
	}
}

// ParseMode parses "eager" or "live".
func ParseMode(raw string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "eager", "eager-filtered":
		return EagerFiltered, nil
	case "live", "live-filtered":
		return LiveFiltered, nil
	default:
		return EagerFiltered, fmt.Errorf("unknown registry mode: %s", raw)
	}
}

// symbol is implemented by the three signature pointer types.
type symbol interface {
	comparable
	base() *Signature
}

func (s *Signature) base() *Signature { return s }

// bucket stores one kind of signature, indexed by subset then by name.
type bucket[T symbol] struct {
	bySubset map[string]map[string][]T
	stored   map[T]struct{}
}

func newBucket[T symbol]() *bucket[T] {
	return &bucket[T]{
		bySubset: make(map[string]map[string][]T),
		stored:   make(map[T]struct{}),
	}
}

func (b *bucket[T]) contains(sig T) bool {
	_, ok := b.stored[sig]
	return ok
}

func (b *bucket[T]) insert(sig T) {
	base := sig.base()
	for _, subset := range base.Subsets {
		names := b.bySubset[subset]
		if names == nil {
			names = make(map[string][]T)
			b.bySubset[subset] = names
		}
		names[base.Name] = append(names[base.Name], sig)
	}
	b.stored[sig] = struct{}{}
}

// visible returns the signatures named name in the given subsets, deduplicated by identity.
func (b *bucket[T]) visible(name string, subsets []string) []T {
	var result []T
	seen := make(map[T]struct{})
	for _, subset := range subsets {
		for _, sig := range b.bySubset[subset][name] {
			if _, dup := seen[sig]; dup {
				continue
			}
			seen[sig] = struct{}{}
			result = append(result, sig)
		}
	}
	return result
}

// all returns every signature visible in subsets, sorted by name.
func (b *bucket[T]) all(subsets []string) []T {
	var result []T
	seen := make(map[T]struct{})
	for _, subset := range subsets {
		names := b.bySubset[subset]
		keys := make([]string, 0, len(names))
		for name := range names {
			keys = append(keys, name)
		}
		sort.Strings(keys)
		for _, name := range keys {
			for _, sig := range names[name] {
				if _, dup := seen[sig]; dup {
					continue
				}
				seen[sig] = struct{}{}
				result = append(result, sig)
			}
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].base().Name < result[j].base().Name
	})
	return result
}

// Registry is the in-memory library symbol store, partitioned by subset.
//
// The registry is guarded by a mutex, but it is not concurrency-safe for mutation in
// the semantic sense: changing the active subsets of a live-filtered registry while a
// validation run queries it changes what that run sees. Concurrent validations should
// share an eager-filtered registry or use one registry each.
type Registry struct {
	mu sync.RWMutex

	mode   Mode
	active map[string]struct{}

	// descriptions are visible; candidates are held until a stored signature references them
	descriptions map[string]*SubsetDescription
	candidates   map[string]*SubsetDescription

	functions *bucket[*FunctionSignature]
	events    *bucket[*EventSignature]
	constants *bucket[*ConstantSignature]
}

// NewRegistry creates a registry in the given mode with the given active subsets
func NewRegistry(mode Mode, activeSubsets ...string) *Registry {
	r := &Registry{
		mode:         mode,
		active:       make(map[string]struct{}),
		descriptions: make(map[string]*SubsetDescription),
		candidates:   make(map[string]*SubsetDescription),
		functions:    newBucket[*FunctionSignature](),
		events:       newBucket[*EventSignature](),
		constants:    newBucket[*ConstantSignature](),
	}
	for _, subset := range activeSubsets {
		if subset = strings.TrimSpace(subset); subset != "" {
			r.active[subset] = struct{}{}
		}
	}
	return r
}

// Mode returns the filtering mode
func (r *Registry) Mode() Mode {
	return r.mode
}

// AddSubsetDescription registers display metadata for a subset.
func (r *Registry) AddSubsetDescription(desc SubsetDescription) error {
	desc.Subset = strings.TrimSpace(desc.Subset)
	if desc.Subset == "" {
		return fmt.Errorf("%w: subset description has no name", ErrInvalidSignature)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, described := r.descriptions[desc.Subset]
	_, pending := r.candidates[desc.Subset]
	if described || pending {
		return &RegistryError{Err: ErrDuplicateSubsetDescription, Kind: KindSubset, Subset: desc.Subset}
	}

	stored := desc
	if r.mode == EagerFiltered {
		if _, ok := r.active[desc.Subset]; !ok {
			r.candidates[desc.Subset] = &stored
			return nil
		}
	}
	r.descriptions[desc.Subset] = &stored
	return nil
}

// SubsetDescription returns the description of a subset, pending ones included.
func (r *Registry) SubsetDescription(subset string) (*SubsetDescription, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if desc, ok := r.descriptions[subset]; ok {
		return desc, true
	}
	desc, ok := r.candidates[subset]
	return desc, ok
}

// SubsetDescriptions returns the visible subset descriptions sorted by subset name
func (r *Registry) SubsetDescriptions() []*SubsetDescription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*SubsetDescription, 0, len(r.descriptions))
	for _, desc := range r.descriptions {
		result = append(result, desc)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Subset < result[j].Subset
	})
	return result
}

// ActiveSubsets returns the active subsets sorted by name
func (r *Registry) ActiveSubsets() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.activeList()
}

func (r *Registry) activeList() []string {
	result := make([]string, 0, len(r.active))
	for subset := range r.active {
		result = append(result, subset)
	}
	sort.Strings(result)
	return result
}

// SetActiveSubsets replaces the active subsets. Live-filtered registries only.
func (r *Registry) SetActiveSubsets(subsets ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.mode != LiveFiltered {
		return ErrNotLiveFiltered
	}

	next := make(map[string]struct{}, len(subsets))
	for _, subset := range subsets {
		subset = strings.TrimSpace(subset)
		if subset == "" {
			continue
		}
		if _, ok := r.descriptions[subset]; !ok {
			return missingDescription(KindSubset, "", subset)
		}
		next[subset] = struct{}{}
	}
	r.active = next
	return nil
}

// AddActiveSubset makes one more subset visible. Live-filtered registries only.
func (r *Registry) AddActiveSubset(subset string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.mode != LiveFiltered {
		return ErrNotLiveFiltered
	}
	subset = strings.TrimSpace(subset)
	if _, ok := r.descriptions[subset]; !ok {
		return missingDescription(KindSubset, "", subset)
	}
	r.active[subset] = struct{}{}
	return nil
}

// RemoveActiveSubset hides a subset. Live-filtered registries only.
func (r *Registry) RemoveActiveSubset(subset string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.mode != LiveFiltered {
		return ErrNotLiveFiltered
	}
	delete(r.active, strings.TrimSpace(subset))
	return nil
}

// DefineFunction adds a library function signature
func (r *Registry) DefineFunction(sig *FunctionSignature) error {
	if sig == nil {
		return fmt.Errorf("%w: nil function", ErrInvalidSignature)
	}
	if err := checkParameters(KindFunction, sig.Name, sig.Parameters); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	return define(r, KindFunction, sig, r.functions, func(existing []*FunctionSignature) error {
		for _, other := range existing {
			if SameOverload(other, sig) {
				return duplicateSignature(KindFunction, sig.Name, other, sig)
			}
		}
		return nil
	})
}

// DefineEvent adds an event handler signature
func (r *Registry) DefineEvent(sig *EventSignature) error {
	if sig == nil {
		return fmt.Errorf("%w: nil event", ErrInvalidSignature)
	}
	if err := checkParameters(KindEvent, sig.Name, sig.Parameters); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	return define(r, KindEvent, sig, r.events, func(existing []*EventSignature) error {
		if len(existing) > 0 {
			return duplicateSignature(KindEvent, sig.Name, existing[0], sig)
		}
		return nil
	})
}

// DefineConstant adds a library constant signature
func (r *Registry) DefineConstant(sig *ConstantSignature) error {
	if sig == nil {
		return fmt.Errorf("%w: nil constant", ErrInvalidSignature)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	return define(r, KindConstant, sig, r.constants, func(existing []*ConstantSignature) error {
		if len(existing) > 0 {
			return duplicateSignature(KindConstant, sig.Name, existing[0], sig)
		}
		return nil
	})
}

// define holds the insertion rules shared by all three kinds. The caller holds r.mu.
func define[T symbol](r *Registry, kind SymbolKind, sig T, b *bucket[T], conflicts func([]T) error) error {
	base := sig.base()
	base.Name = strings.TrimSpace(base.Name)
	if base.Name == "" {
		return fmt.Errorf("%w: %s has no name", ErrInvalidSignature, kind)
	}
	base.normalizeSubsets()
	if len(base.Subsets) == 0 {
		return fmt.Errorf("%w: %s %q belongs to no subset", ErrInvalidSignature, kind, base.Name)
	}

	if b.contains(sig) {
		return nil
	}

	if r.mode == EagerFiltered && !base.Overlaps(r.active) {
		return nil
	}

	var promote []string
	for _, subset := range base.Subsets {
		if _, ok := r.descriptions[subset]; ok {
			continue
		}
		if _, ok := r.candidates[subset]; ok && r.mode == EagerFiltered {
			promote = append(promote, subset)
			continue
		}
		return missingDescription(kind, base.Name, subset)
	}

	if r.mode == EagerFiltered {
		if err := conflicts(b.visible(base.Name, r.activeList())); err != nil {
			return err
		}
	}

	for _, subset := range promote {
		r.descriptions[subset] = r.candidates[subset]
		delete(r.candidates, subset)
	}
	b.insert(sig)
	return nil
}

// EventHandlerExists reports whether an event handler is visible in the active subsets
func (r *Registry) EventHandlerExists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.events.visible(name, r.activeList())) > 0
}

// EventHandlerSignature returns the visible event handler signature, or nil.
func (r *Registry) EventHandlerSignature(name string) (*EventSignature, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	found := r.events.visible(name, r.activeList())
	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return found[0], nil
	default:
		return nil, duplicateSignature(KindEvent, name, found[0], found[1])
	}
}

// LibraryFunctionExists reports whether any overload of a function is visible
func (r *Registry) LibraryFunctionExists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.functions.visible(name, r.activeList())) > 0
}

// LibraryFunctionSignatures returns the overload set of a function merged across the
// active subsets. Overloads are deduplicated by identity and checked for ambiguity.
func (r *Registry) LibraryFunctionSignatures(name string) ([]*FunctionSignature, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	found := r.functions.visible(name, r.activeList())
	for i := 0; i < len(found); i++ {
		for j := i + 1; j < len(found); j++ {
			if SameOverload(found[i], found[j]) {
				return nil, duplicateSignature(KindFunction, name, found[i], found[j])
			}
		}
	}
	return found, nil
}

// LibraryConstantExists reports whether a constant is visible
func (r *Registry) LibraryConstantExists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.constants.visible(name, r.activeList())) > 0
}

// LibraryConstantSignature returns the visible constant signature, or nil.
func (r *Registry) LibraryConstantSignature(name string) (*ConstantSignature, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	found := r.constants.visible(name, r.activeList())
	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return found[0], nil
	default:
		return nil, duplicateSignature(KindConstant, name, found[0], found[1])
	}
}

// Functions returns every visible function signature sorted by name
func (r *Registry) Functions() []*FunctionSignature {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.functions.all(r.activeList())
}

// Events returns every visible event handler signature sorted by name
func (r *Registry) Events() []*EventSignature {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.events.all(r.activeList())
}

// Constants returns every visible constant sorted by name
func (r *Registry) Constants() []*ConstantSignature {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.constants.all(r.activeList())
}

// Count returns the number of stored signatures of each kind, visible or not
func (r *Registry) Count() (functions, events, constants int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.functions.stored), len(r.events.stored), len(r.constants.stored)
}
