package lint

// Error codes reported by the validator
const (
	CodeUndefinedVariable        = "undefined-variable"
	CodeUndefinedFunction        = "undefined-function"
	CodeUndefinedLabel           = "undefined-label"
	CodeUndefinedState           = "undefined-state"
	CodeCallToEventHandler       = "call-to-event-handler"
	CodeRedefinedGlobal          = "redefined-global"
	CodeRedefinedLocal           = "redefined-local"
	CodeRedefinedParameter       = "redefined-parameter"
	CodeRedefinedFunction        = "redefined-function"
	CodeRedefinedState           = "redefined-state"
	CodeRedefinedEventHandler    = "redefined-event-handler"
	CodeRedefinedLabel           = "redefined-label"
	CodeRedefinedLibraryFunction = "redefined-library-function"
	CodeRedefinedLibraryConstant = "redefined-library-constant"
	CodeUnknownEventHandler      = "unknown-event-handler"
	CodeIncorrectEventSignature  = "incorrect-event-signature"
	CodeDeclarationTypeMismatch  = "declaration-type-mismatch"
	CodeReturnTypeMismatch       = "return-type-mismatch"
	CodeReturnFromVoidFunction   = "return-value-from-void"
	CodeReturnFromEventHandler   = "return-value-from-event"
	CodeMissingReturnValue       = "missing-return-value"
	CodeNotAllPathsReturn        = "not-all-paths-return"
	CodeTooManyArguments         = "too-many-arguments"
	CodeTooFewArguments          = "too-few-arguments"
	CodeArgumentTypeMismatch     = "argument-type-mismatch"
	CodeNoSuitableOverload       = "no-suitable-overload"
	CodeAmbiguousOverload        = "ambiguous-overload"
	CodeInvalidBinaryOperation   = "invalid-binary-operation"
	CodeInvalidPrefixOperation   = "invalid-prefix-operation"
	CodeInvalidPostfixOperation  = "invalid-postfix-operation"
	CodeInvalidCast              = "invalid-cast"
	CodeInvalidVectorContent     = "invalid-vector-content"
	CodeInvalidRotationContent   = "invalid-rotation-content"
	CodeInvalidListContent       = "invalid-list-content"
	CodeInvalidConditional       = "invalid-conditional"
	CodeAssignmentToNonVariable  = "assignment-to-non-variable"
	CodeModifyingConstant        = "modifying-library-constant"
	CodeInvalidComponentAccess   = "invalid-component-access"
	CodeInvalidGlobalInitializer = "invalid-global-initializer"
	CodeDeclarationNeedsScope    = "declaration-requires-scope"
	CodeStateChangeInFunction    = "state-change-in-function"
	CodeMissingDefaultState      = "missing-default-state"
	CodeStateWithoutHandlers     = "state-without-handlers"
)

// Warning codes reported by the validator
const (
	CodeLocalHidesParameter   = "local-hides-parameter"
	CodeLocalHidesGlobal      = "local-hides-global"
	CodeParameterHidesGlobal  = "parameter-hides-global"
	CodeDeadCode              = "dead-code"
	CodeUnusedLocal           = "unused-local"
	CodeUnusedParameter       = "unused-parameter"
	CodeUnusedGlobal          = "unused-global"
	CodeUnusedFunction        = "unused-function"
	CodeUnusedLabel           = "unused-label"
	CodeUselessExpression     = "useless-expression"
	CodeRedundantCast         = "redundant-cast"
	CodeConstantCondition     = "constant-condition"
	CodeAssignmentInCondition = "assignment-in-condition"
	CodeIntegerOverflow       = "integer-overflow"
	CodeDeprecatedFunction    = "deprecated-function"
	CodeDeprecatedConstant    = "deprecated-constant"
	CodeDeprecatedEvent       = "deprecated-event"
	CodeStateChangeToCurrent  = "state-change-to-current"
)

// Codes reported by the source checks run on a finished tree
const (
	CodeDeadLoop          = "dead-loop"
	CodeDeadBranch        = "dead-branch"
	CodeDivisionByZero    = "division-by-zero"
	CodeInvalidKeyLiteral = "invalid-key-literal"
)
