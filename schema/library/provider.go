package library

// Provider is the query contract the validator resolves library symbols through.
// *Registry implements it; any other store may be substituted.
type Provider interface {
	EventHandlerExists(name string) bool
	EventHandlerSignature(name string) (*EventSignature, error)

	LibraryFunctionExists(name string) bool
	LibraryFunctionSignatures(name string) ([]*FunctionSignature, error)

	LibraryConstantExists(name string) bool
	LibraryConstantSignature(name string) (*ConstantSignature, error)
}

var _ Provider = (*Registry)(nil)
