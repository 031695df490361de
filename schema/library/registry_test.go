package library

import (
	"errors"
	"strings"
	"testing"

	"github.com/lslkit/lslkit-go/schema/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func describe(t *testing.T, r *Registry, subsets ...string) {
	t.Helper()
	for _, subset := range subsets {
		require.NoError(t, r.AddSubsetDescription(SubsetDescription{Subset: subset, FriendlyName: strings.ToUpper(subset)}))
	}
}

func function(name string, ret types.ValueType, subsets []string, params ...types.ValueType) *FunctionSignature {
	sig := &FunctionSignature{
		Signature:  Signature{Name: name, Subsets: subsets},
		ReturnType: ret,
	}
	for _, p := range params {
		sig.Parameters = append(sig.Parameters, Parameter{Type: p})
	}
	return sig
}

func TestSharedSignatureIsNotDuplicate(t *testing.T) {
	r := NewRegistry(EagerFiltered, "a", "b")
	describe(t, r, "a", "b")

	shared := function("llAbs", types.Integer, []string{"a", "b"}, types.Integer)
	require.NoError(t, r.DefineFunction(shared))
	require.NoError(t, r.DefineFunction(shared))

	overloads, err := r.LibraryFunctionSignatures("llAbs")
	require.NoError(t, err)
	require.Len(t, overloads, 1)
	assert.Same(t, shared, overloads[0])
}

func TestDistinctIdenticalSignaturesConflict(t *testing.T) {
	r := NewRegistry(EagerFiltered, "a", "b")
	describe(t, r, "a", "b")

	require.NoError(t, r.DefineFunction(function("llAbs", types.Integer, []string{"a"}, types.Integer)))
	err := r.DefineFunction(function("llAbs", types.Float, []string{"b"}, types.Integer))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateSignature))

	var regErr *RegistryError
	require.True(t, errors.As(err, &regErr))
	assert.Equal(t, KindFunction, regErr.Kind)
	assert.Equal(t, "llAbs", regErr.Name)
	assert.NotNil(t, regErr.Existing)
	assert.NotNil(t, regErr.Conflicting)

	require.NoError(t, r.DefineEvent(&EventSignature{Signature: Signature{Name: "touch", Subsets: []string{"a"}}}))
	err = r.DefineEvent(&EventSignature{Signature: Signature{Name: "touch", Subsets: []string{"b"}}})
	assert.True(t, errors.Is(err, ErrDuplicateSignature))

	require.NoError(t, r.DefineConstant(&ConstantSignature{Signature: Signature{Name: "PI", Subsets: []string{"a"}}, Type: types.Float}))
	err = r.DefineConstant(&ConstantSignature{Signature: Signature{Name: "PI", Subsets: []string{"a"}}, Type: types.Float})
	assert.True(t, errors.Is(err, ErrDuplicateSignature))
}

func TestOverloadsAreMerged(t *testing.T) {
	r := NewRegistry(EagerFiltered, "a", "b")
	describe(t, r, "a", "b")

	require.NoError(t, r.DefineFunction(function("osMakeNotecard", types.Void, []string{"a"}, types.String, types.String)))
	require.NoError(t, r.DefineFunction(function("osMakeNotecard", types.Void, []string{"b"}, types.String, types.List)))

	overloads, err := r.LibraryFunctionSignatures("osMakeNotecard")
	require.NoError(t, err)
	assert.Len(t, overloads, 2)
}

func TestEagerDiscardsInactiveSignatures(t *testing.T) {
	r := NewRegistry(EagerFiltered, "lsl")
	describe(t, r, "lsl", "ossl")

	require.NoError(t, r.DefineFunction(function("osGetNotecard", types.String, []string{"ossl"}, types.String)))
	assert.False(t, r.LibraryFunctionExists("osGetNotecard"))

	fns, _, _ := r.Count()
	assert.Equal(t, 0, fns)

	assert.True(t, errors.Is(r.AddActiveSubset("ossl"), ErrNotLiveFiltered))
	assert.True(t, errors.Is(r.SetActiveSubsets("ossl"), ErrNotLiveFiltered))
	assert.True(t, errors.Is(r.RemoveActiveSubset("lsl"), ErrNotLiveFiltered))
}

func TestEagerPromotesCandidateDescriptions(t *testing.T) {
	r := NewRegistry(EagerFiltered, "lsl")
	describe(t, r, "lsl", "ossl")

	visible := r.SubsetDescriptions()
	require.Len(t, visible, 1)
	assert.Equal(t, "lsl", visible[0].Subset)

	_, pending := r.SubsetDescription("ossl")
	assert.True(t, pending)

	require.NoError(t, r.DefineConstant(&ConstantSignature{
		Signature: Signature{Name: "TRUE", Subsets: []string{"lsl", "ossl"}},
		Type:      types.Integer,
	}))
	assert.Len(t, r.SubsetDescriptions(), 2)
}

func TestMissingSubsetDescription(t *testing.T) {
	r := NewRegistry(LiveFiltered, "lsl")
	describe(t, r, "lsl")

	err := r.DefineFunction(function("llAbs", types.Integer, []string{"lsl", "extra"}, types.Integer))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingSubsetDescription))
	assert.Contains(t, err.Error(), "extra")
	assert.False(t, r.LibraryFunctionExists("llAbs"))

	err = r.AddActiveSubset("extra")
	assert.True(t, errors.Is(err, ErrMissingSubsetDescription))

	eager := NewRegistry(EagerFiltered, "lsl")
	err = eager.DefineEvent(&EventSignature{Signature: Signature{Name: "timer", Subsets: []string{"lsl"}}})
	assert.True(t, errors.Is(err, ErrMissingSubsetDescription))
}

func TestDuplicateSubsetDescription(t *testing.T) {
	r := NewRegistry(EagerFiltered, "lsl")
	describe(t, r, "lsl", "ossl")

	assert.True(t, errors.Is(r.AddSubsetDescription(SubsetDescription{Subset: "lsl"}), ErrDuplicateSubsetDescription))
	assert.True(t, errors.Is(r.AddSubsetDescription(SubsetDescription{Subset: "ossl"}), ErrDuplicateSubsetDescription))
}

func TestLiveFilteredDefersDuplicatesToQueries(t *testing.T) {
	r := NewRegistry(LiveFiltered, "a")
	describe(t, r, "a", "b")

	require.NoError(t, r.DefineFunction(function("llAbs", types.Integer, []string{"a"}, types.Integer)))
	require.NoError(t, r.DefineFunction(function("llAbs", types.Integer, []string{"b"}, types.Integer)))
	require.NoError(t, r.DefineConstant(&ConstantSignature{Signature: Signature{Name: "PI", Subsets: []string{"a"}}, Type: types.Float}))
	require.NoError(t, r.DefineConstant(&ConstantSignature{Signature: Signature{Name: "PI", Subsets: []string{"b"}}, Type: types.Float}))

	overloads, err := r.LibraryFunctionSignatures("llAbs")
	require.NoError(t, err)
	assert.Len(t, overloads, 1)

	require.NoError(t, r.AddActiveSubset("b"))
	assert.Equal(t, []string{"a", "b"}, r.ActiveSubsets())

	_, err = r.LibraryFunctionSignatures("llAbs")
	assert.True(t, errors.Is(err, ErrDuplicateSignature))
	_, err = r.LibraryConstantSignature("PI")
	assert.True(t, errors.Is(err, ErrDuplicateSignature))
	assert.True(t, r.LibraryConstantExists("PI"))

	require.NoError(t, r.SetActiveSubsets("b"))
	sig, err := r.LibraryConstantSignature("PI")
	require.NoError(t, err)
	require.NotNil(t, sig)
	assert.Equal(t, []string{"b"}, sig.Subsets)

	require.NoError(t, r.RemoveActiveSubset("b"))
	assert.False(t, r.LibraryConstantExists("PI"))
	assert.Empty(t, r.ActiveSubsets())
}

func TestLiveFilteredStoresInactiveSignatures(t *testing.T) {
	r := NewRegistry(LiveFiltered, "lsl")
	describe(t, r, "lsl", "ossl")

	require.NoError(t, r.DefineEvent(&EventSignature{Signature: Signature{Name: "npc_event", Subsets: []string{"ossl"}}}))
	assert.False(t, r.EventHandlerExists("npc_event"))

	sig, err := r.EventHandlerSignature("npc_event")
	require.NoError(t, err)
	assert.Nil(t, sig)

	require.NoError(t, r.AddActiveSubset("ossl"))
	assert.True(t, r.EventHandlerExists("npc_event"))
}

func TestInvalidSignatures(t *testing.T) {
	r := NewRegistry(LiveFiltered, "lsl")
	describe(t, r, "lsl")

	assert.True(t, errors.Is(r.DefineFunction(nil), ErrInvalidSignature))
	assert.True(t, errors.Is(r.DefineEvent(nil), ErrInvalidSignature))
	assert.True(t, errors.Is(r.DefineConstant(nil), ErrInvalidSignature))
	assert.True(t, errors.Is(r.DefineFunction(function(" ", types.Void, []string{"lsl"})), ErrInvalidSignature))
	assert.True(t, errors.Is(r.DefineFunction(function("f", types.Void, nil)), ErrInvalidSignature))

	variadicFirst := function("f", types.Void, []string{"lsl"}, types.Integer, types.Integer)
	variadicFirst.Parameters[0].Variadic = true
	assert.True(t, errors.Is(r.DefineFunction(variadicFirst), ErrInvalidSignature))

	assert.True(t, errors.Is(r.DefineFunction(function("g", types.Void, []string{"lsl"}, types.Void)), ErrInvalidSignature))
}

func TestListingIsSortedAndScoped(t *testing.T) {
	r := NewRegistry(LiveFiltered, "lsl")
	describe(t, r, "lsl", "ossl")

	require.NoError(t, r.DefineFunction(function("llSay", types.Void, []string{"lsl"}, types.Integer, types.String)))
	require.NoError(t, r.DefineFunction(function("llAbs", types.Integer, []string{"lsl", "ossl"}, types.Integer)))
	require.NoError(t, r.DefineFunction(function("osGetNotecard", types.String, []string{"ossl"}, types.String)))

	var names []string
	for _, fn := range r.Functions() {
		names = append(names, fn.Name)
	}
	assert.Equal(t, []string{"llAbs", "llSay"}, names)

	require.NoError(t, r.AddActiveSubset("ossl"))
	assert.Len(t, r.Functions(), 3)
	assert.Equal(t, LiveFiltered, r.Mode())
}

func TestDefaultRegistry(t *testing.T) {
	r, err := NewDefaultRegistry(EagerFiltered)
	require.NoError(t, err)

	assert.True(t, r.LibraryFunctionExists("llSay"))
	assert.True(t, r.EventHandlerExists("touch_start"))
	assert.True(t, r.LibraryConstantExists("TRUE"))
	assert.False(t, r.LibraryFunctionExists("osMakeNotecard"))

	pi, err := r.LibraryConstantSignature("PI")
	require.NoError(t, err)
	require.NotNil(t, pi)
	assert.Equal(t, types.Float, pi.Type)

	live, err := NewDefaultRegistry(LiveFiltered, "lsl", "ossl")
	require.NoError(t, err)
	overloads, err := live.LibraryFunctionSignatures("osTeleportAgent")
	require.NoError(t, err)
	assert.Len(t, overloads, 3)

	invoke, err := live.LibraryFunctionSignatures("modInvokeS")
	require.NoError(t, err)
	require.Len(t, invoke, 1)
	assert.True(t, invoke[0].IsVariadic())
	assert.Equal(t, 1, invoke[0].ConcreteParameterCount())
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode("live")
	require.NoError(t, err)
	assert.Equal(t, LiveFiltered, mode)

	mode, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, EagerFiltered, mode)

	_, err = ParseMode("lazy")
	assert.Error(t, err)
}
