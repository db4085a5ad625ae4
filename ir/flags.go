package ir

// TypeFlags records derived properties of a type, computed once by the
// validator and consulted by later stages instead of being
// recomputed from the type tree every time.
type TypeFlags uint8

const (
	// TypeFlagData marks types that can be placed in a non-handle
	// address space (i.e. composed purely of scalars, vectors,
	// matrices, arrays, and structs of such).
	TypeFlagData TypeFlags = 1 << iota
	// TypeFlagSized marks types whose size is known at compile time.
	// A runtime-sized array, or any aggregate that transitively
	// contains one, is never Sized.
	TypeFlagSized
	// TypeFlagInterface marks types legal as an entry point argument,
	// result, or struct member exposed across a stage boundary.
	TypeFlagInterface
	// TypeFlagHostShared marks types legal inside a uniform, storage,
	// or push-constant global variable, where host/device layout
	// compatibility matters.
	TypeFlagHostShared
	// TypeFlagBlock marks struct types that may appear as the direct
	// pointee of a resource global variable (as opposed to nested
	// inside another struct).
	TypeFlagBlock
)

// Contains reports whether all bits of want are set in f.
func (f TypeFlags) Contains(want TypeFlags) bool { return f&want == want }

// ShaderStages is a set of shader stages, used to record which stages
// a function's body is legal to run in.
type ShaderStages uint8

const (
	StageFlagVertex ShaderStages = 1 << iota
	StageFlagFragment
	StageFlagCompute
)

// AllShaderStages returns the full stage set, the starting point for
// an intersection computed while walking a function body.
func AllShaderStages() ShaderStages {
	return StageFlagVertex | StageFlagFragment | StageFlagCompute
}

func (s ShaderStages) Contains(stage ShaderStage) bool {
	switch stage {
	case StageVertex:
		return s&StageFlagVertex != 0
	case StageFragment:
		return s&StageFlagFragment != 0
	case StageCompute:
		return s&StageFlagCompute != 0
	}
	return false
}

// GlobalUse records how a function's body touches a particular global
// variable, aggregated across every access in the function.
type GlobalUse uint8

const (
	GlobalUseRead GlobalUse = 1 << iota
	GlobalUseWrite
	GlobalUseQuery
)

// UniformityRequirements flags reasons an expression's value must only
// be consumed from uniform control flow.
type UniformityRequirements uint8

const (
	// RequireUniformForImplicitLOD marks an implicit-LOD texture
	// sample, which depends on derivatives and is only well-defined
	// when every invocation in a quad takes the same control path.
	RequireUniformForImplicitLOD UniformityRequirements = 1 << iota
)

// ValidationFlags gates which validation passes run. Disabling a flag
// is a caller opt-out for contexts that already trust a particular
// property (e.g. IR produced by a front-end this package also owns),
// not a signal that the property doesn't matter.
type ValidationFlags uint8

const (
	// ValidateExpressions checks expression operand handles.
	ValidateExpressions ValidationFlags = 1 << iota
	// ValidateBlocks checks statement/block structural rules.
	ValidateBlocks
	// ValidateControlFlowUniformity checks that expressions and
	// statements requiring uniform control flow are never reached
	// through non-uniform branches.
	ValidateControlFlowUniformity
)

// AllValidationFlags is the default, most conservative flag set.
func AllValidationFlags() ValidationFlags {
	return ValidateExpressions | ValidateBlocks | ValidateControlFlowUniformity
}

func (f ValidationFlags) Contains(want ValidationFlags) bool { return f&want == want }
