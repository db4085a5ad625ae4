package ir

import "fmt"

// ModuleInfo is the validator's accumulated knowledge about a module
// that passed validation: per-type flags and per-function analysis,
// indexed in parallel with module.Types and module.Functions so a
// caller holding a handle can index straight into it.
type ModuleInfo struct {
	Types     []TypeFlags
	Layout    *Layouter
	Functions []*FunctionInfo
}

// Validator runs semantic validation over a Module. The zero value
// uses AllValidationFlags; set Flags to opt specific passes out.
type Validator struct {
	Flags ValidationFlags
}

// Validate runs the default validator (every check enabled) over
// module, following the fixed order: layout, then constants, then
// types, then global variables, then functions, then entry points. It
// returns as soon as the first phase reports a problem -- a single
// *ValidationError describing exactly where validation stopped, never
// a collected list -- so callers can fix one problem at a time and
// re-run against IR that is otherwise presumed sound.
func Validate(module *Module) (*ModuleInfo, error) {
	return (&Validator{Flags: AllValidationFlags()}).Validate(module)
}

// Validate runs v's configured checks over module.
func (v *Validator) Validate(module *Module) (*ModuleInfo, error) {
	if module == nil {
		return nil, fmt.Errorf("ir: module is nil")
	}

	layouter, err := ComputeLayout(module)
	if err != nil {
		return nil, &ValidationError{Phase: "types", Source: err}
	}

	if err := v.validateConstants(module); err != nil {
		return nil, &ValidationError{Phase: "constants", Source: err}
	}

	typeFlags, err := v.validateTypes(module)
	if err != nil {
		return nil, &ValidationError{Phase: "types", Source: err}
	}

	if err := v.validateGlobalVariables(module, typeFlags); err != nil {
		return nil, &ValidationError{Phase: "globals", Source: err}
	}

	functionInfos, err := v.validateFunctions(module)
	if err != nil {
		return nil, &ValidationError{Phase: "functions", Source: err}
	}

	if err := v.validateEntryPoints(module, functionInfos); err != nil {
		return nil, &ValidationError{Phase: "entry-points", Source: err}
	}

	return &ModuleInfo{Types: typeFlags, Layout: layouter, Functions: functionInfos}, nil
}

func (v *Validator) validateConstants(module *Module) error {
	for i := range module.Constants {
		c := &module.Constants[i]
		handle := ConstantHandle(i)
		if int(c.Type) >= len(module.Types) {
			return &ConstantError{Handle: handle, Reason: "invalid-type", Detail: "type does not exist"}
		}
		if comp, ok := c.Value.(CompositeValue); ok {
			for _, ch := range comp.Components {
				if int(ch) >= i {
					return &ConstantError{Handle: handle, Reason: "forward-dependency", Detail: "composite constant references a constant declared at or after itself"}
				}
			}
		}
	}
	return nil
}

// validateTypes checks every type's own structural rules and computes
// its TypeFlags: DATA (safe in a non-handle address space), SIZED
// (compile-time-known size), INTERFACE (legal across a stage
// boundary), HOST_SHARED (legal inside a uniform/storage/push-constant
// global), and BLOCK (legal as a resource global's direct pointee).
func (v *Validator) validateTypes(module *Module) ([]TypeFlags, error) {
	flags := make([]TypeFlags, len(module.Types))

	for i := range module.Types {
		handle := TypeHandle(i)
		typ := &module.Types[i]
		if typ.Inner == nil {
			return nil, &TypeError{Handle: handle, Reason: "nil-inner", Detail: "type has no inner kind"}
		}

		switch inner := typ.Inner.(type) {
		case ScalarType:
			if !validScalarWidth(inner.Width) {
				return nil, &TypeError{Handle: handle, Reason: "invalid-width", Detail: "scalar width must be 1, 2, 4, or 8"}
			}
			flags[i] = TypeFlagData | TypeFlagSized | TypeFlagInterface | TypeFlagHostShared

		case VectorType:
			if inner.Size != Vec2 && inner.Size != Vec3 && inner.Size != Vec4 {
				return nil, &TypeError{Handle: handle, Reason: "invalid-size", Detail: "vector size must be 2, 3, or 4"}
			}
			if !validScalarWidth(inner.Scalar.Width) {
				return nil, &TypeError{Handle: handle, Reason: "invalid-width", Detail: "vector scalar width must be 1, 2, 4, or 8"}
			}
			flags[i] = TypeFlagData | TypeFlagSized | TypeFlagInterface | TypeFlagHostShared

		case MatrixType:
			if inner.Columns != Vec2 && inner.Columns != Vec3 && inner.Columns != Vec4 {
				return nil, &TypeError{Handle: handle, Reason: "invalid-columns", Detail: "matrix columns must be 2, 3, or 4"}
			}
			if inner.Rows != Vec2 && inner.Rows != Vec3 && inner.Rows != Vec4 {
				return nil, &TypeError{Handle: handle, Reason: "invalid-rows", Detail: "matrix rows must be 2, 3, or 4"}
			}
			if inner.Scalar.Kind != ScalarFloat {
				return nil, &TypeError{Handle: handle, Reason: "invalid-scalar", Detail: "matrix scalar must be float"}
			}
			flags[i] = TypeFlagData | TypeFlagSized | TypeFlagHostShared

		case ArrayType:
			if int(inner.Base) >= i {
				return nil, &TypeError{Handle: handle, Reason: "forward-dependency", Detail: "array base type must be declared before the array"}
			}
			base := flags[inner.Base]
			if !base.Contains(TypeFlagData) {
				return nil, &TypeError{Handle: handle, Reason: "invalid-element", Detail: "array element type is not a data type"}
			}
			f := TypeFlagData | TypeFlagHostShared
			if IsSized(module, inner) {
				f |= TypeFlagSized
			}
			flags[i] = f

		case StructType:
			names := make(map[string]bool, len(inner.Members))
			allData, allHostShared := true, true
			for j := range inner.Members {
				m := &inner.Members[j]
				if m.Name == "" {
					return nil, &TypeError{Handle: handle, Reason: "empty-member-name", Detail: fmt.Sprintf("member %d has an empty name", j)}
				}
				if names[m.Name] {
					return nil, &TypeError{Handle: handle, Reason: "duplicate-member", Detail: fmt.Sprintf("duplicate member name %q", m.Name)}
				}
				names[m.Name] = true
				if int(m.Type) >= i {
					return nil, &TypeError{Handle: handle, Reason: "forward-dependency", Detail: fmt.Sprintf("member %q references a type declared at or after this struct", m.Name)}
				}
				mf := flags[m.Type]
				if !mf.Contains(TypeFlagData) {
					allData = false
				}
				if !mf.Contains(TypeFlagHostShared) {
					allHostShared = false
				}
				if j < len(inner.Members)-1 && !mf.Contains(TypeFlagSized) {
					return nil, &TypeError{Handle: handle, Reason: "unsized-non-tail-member", Detail: fmt.Sprintf("member %q is unsized but is not the struct's last member", m.Name)}
				}
			}
			f := TypeFlagInterface | TypeFlagBlock
			if allData {
				f |= TypeFlagData
			}
			if allHostShared {
				f |= TypeFlagHostShared
			}
			if IsSized(module, inner) {
				f |= TypeFlagSized
			}
			flags[i] = f

		case PointerType:
			if int(inner.Base) >= i {
				return nil, &TypeError{Handle: handle, Reason: "forward-dependency", Detail: "pointer base type must be declared before the pointer"}
			}
			flags[i] = TypeFlagSized

		case AtomicType:
			flags[i] = TypeFlagData | TypeFlagSized | TypeFlagHostShared

		case SamplerType, ImageType:
			flags[i] = TypeFlagSized

		default:
			return nil, &TypeError{Handle: handle, Reason: "unknown-kind", Detail: "unrecognized type inner kind"}
		}
	}
	return flags, nil
}

func validScalarWidth(w uint8) bool {
	return w == 1 || w == 2 || w == 4 || w == 8
}

func (v *Validator) validateGlobalVariables(module *Module, typeFlags []TypeFlags) error {
	bindings := make(map[ResourceBinding]bool)
	names := make(map[string]bool)

	for i := range module.GlobalVariables {
		gv := &module.GlobalVariables[i]
		handle := GlobalVariableHandle(i)

		if gv.Name != "" {
			if names[gv.Name] {
				return &GlobalVariableError{Handle: handle, Name: gv.Name, Reason: "duplicate-name", Detail: "another global already uses this name"}
			}
			names[gv.Name] = true
		}
		if int(gv.Type) >= len(module.Types) {
			return &GlobalVariableError{Handle: handle, Name: gv.Name, Reason: "invalid-type", Detail: "type does not exist"}
		}

		f := typeFlags[gv.Type]
		switch gv.Space {
		case SpaceUniform, SpaceStorage, SpacePushConstant:
			if !f.Contains(TypeFlagHostShared) {
				return &GlobalVariableError{Handle: handle, Name: gv.Name, Reason: "not-host-shared", Detail: "type is not legal in a host-shared address space"}
			}
		case SpaceHandle:
			switch module.Types[gv.Type].Inner.(type) {
			case SamplerType, ImageType:
			default:
				return &GlobalVariableError{Handle: handle, Name: gv.Name, Reason: "invalid-handle-type", Detail: "handle address space requires a sampler or image type"}
			}
		}

		if gv.Binding != nil {
			key := *gv.Binding
			if bindings[key] {
				return &GlobalVariableError{Handle: handle, Name: gv.Name, Reason: "duplicate-binding",
					Detail: fmt.Sprintf("@group(%d) @binding(%d) is already used", key.Group, key.Binding)}
			}
			bindings[key] = true
		}

		if gv.Init != nil && int(*gv.Init) >= len(module.Constants) {
			return &GlobalVariableError{Handle: handle, Name: gv.Name, Reason: "invalid-init", Detail: "init constant does not exist"}
		}
	}
	return nil
}

func (v *Validator) validateFunctions(module *Module) ([]*FunctionInfo, error) {
	names := make(map[string]bool)
	infos := make([]*FunctionInfo, len(module.Functions))
	calleeStages := make(map[FunctionHandle]ShaderStages)

	for i := range module.Functions {
		fn := &module.Functions[i]
		handle := FunctionHandle(i)

		if fn.Name != "" {
			if names[fn.Name] {
				return nil, &FunctionError{Handle: handle, Name: fn.Name, Reason: "duplicate-name", Detail: "another function already uses this name"}
			}
			names[fn.Name] = true
		}

		if v.Flags.Contains(ValidateExpressions) {
			if err := validateSignature(module, fn); err != nil {
				return nil, &FunctionError{Handle: handle, Name: fn.Name, Reason: "invalid-signature", Detail: err.Error()}
			}
			if err := validateExpressions(module, fn); err != nil {
				return nil, &FunctionError{Handle: handle, Name: fn.Name, Source: err}
			}
		}
		if v.Flags.Contains(ValidateBlocks) {
			if err := validateBlock(fn.Body, len(fn.Expressions), len(module.Functions), 0, false); err != nil {
				return nil, &FunctionError{Handle: handle, Name: fn.Name, Source: err}
			}
		}

		info, err := Analyze(module, fn, calleeStages)
		if err != nil {
			return nil, &FunctionError{Handle: handle, Name: fn.Name, Reason: "analysis-failed", Detail: err.Error()}
		}
		if v.Flags.Contains(ValidateControlFlowUniformity) && len(info.UniformityViolations) > 0 {
			viol := info.UniformityViolations[0]
			reason := "non-uniform-control-flow"
			if viol.Expression != nil {
				return nil, &FunctionError{Handle: handle, Name: fn.Name, Source: &ExpressionError{
					Handle: *viol.Expression, Reason: reason, Detail: "expression requires uniform control flow but is reached from a non-uniform branch",
				}}
			}
			return nil, &FunctionError{Handle: handle, Name: fn.Name, Reason: reason, Detail: viol.Statement + " requires uniform control flow but is reached from a non-uniform branch"}
		}

		infos[i] = info
		calleeStages[handle] = info.AvailableStages
	}
	return infos, nil
}

func validateSignature(module *Module, fn *Function) error {
	for i, arg := range fn.Arguments {
		if int(arg.Type) >= len(module.Types) {
			return fmt.Errorf("argument %d (%s): type %d does not exist", i, arg.Name, arg.Type)
		}
	}
	if fn.Result != nil && int(fn.Result.Type) >= len(module.Types) {
		return fmt.Errorf("result type %d does not exist", fn.Result.Type)
	}
	for i, lv := range fn.LocalVars {
		if int(lv.Type) >= len(module.Types) {
			return fmt.Errorf("local variable %d (%s): type %d does not exist", i, lv.Name, lv.Type)
		}
		if lv.Init != nil && int(*lv.Init) >= len(fn.Expressions) {
			return fmt.Errorf("local variable %q: init expression %d does not exist", lv.Name, *lv.Init)
		}
	}
	return nil
}

// validateExpressions checks every expression's operand handles exist
// and, per the no-forward-references invariant, name an earlier
// expression in the same arena.
func validateExpressions(module *Module, fn *Function) error {
	exprCount := len(fn.Expressions)
	localCount := len(fn.LocalVars)
	argCount := len(fn.Arguments)

	checkHandle := func(self ExpressionHandle, h ExpressionHandle) error {
		if int(h) >= exprCount {
			return &ExpressionError{Handle: self, Reason: "handle-not-found", Detail: fmt.Sprintf("operand expression %d does not exist", h)}
		}
		if h >= self {
			return &ExpressionError{Handle: self, Reason: "forward-dependency", Detail: fmt.Sprintf("operand expression %d is not strictly earlier than %d", h, self)}
		}
		return nil
	}

	for i := range fn.Expressions {
		handle := ExpressionHandle(i)
		expr := &fn.Expressions[i]
		if expr.Kind == nil {
			return &ExpressionError{Handle: handle, Reason: "nil-kind", Detail: "expression has no kind"}
		}

		for _, op := range ExpressionOperands(expr.Kind) {
			if err := checkHandle(handle, op); err != nil {
				return err
			}
		}

		switch k := expr.Kind.(type) {
		case ExprConstant:
			if int(k.Constant) >= len(module.Constants) {
				return &ExpressionError{Handle: handle, Reason: "handle-not-found", Detail: "constant does not exist"}
			}
		case ExprZeroValue:
			if int(k.Type) >= len(module.Types) {
				return &ExpressionError{Handle: handle, Reason: "handle-not-found", Detail: "type does not exist"}
			}
		case ExprCompose:
			if int(k.Type) >= len(module.Types) {
				return &ExpressionError{Handle: handle, Reason: "handle-not-found", Detail: "type does not exist"}
			}
			if err := checkComposeCount(module, handle, k); err != nil {
				return err
			}
		case ExprAccessIndex:
			if err := checkAccessIndexBounds(module, fn, handle, k); err != nil {
				return err
			}
		case ExprSplat:
			if k.Size != Vec2 && k.Size != Vec3 && k.Size != Vec4 {
				return &ExpressionError{Handle: handle, Reason: "invalid-size", Detail: "splat size must be 2, 3, or 4"}
			}
		case ExprSwizzle:
			if k.Size != Vec2 && k.Size != Vec3 && k.Size != Vec4 {
				return &ExpressionError{Handle: handle, Reason: "invalid-size", Detail: "swizzle size must be 2, 3, or 4"}
			}
			for i := 0; i < int(k.Size); i++ {
				if k.Pattern[i] > SwizzleW {
					return &ExpressionError{Handle: handle, Reason: "invalid-component", Detail: fmt.Sprintf("pattern[%d] is not a valid swizzle component", i)}
				}
			}
		case ExprFunctionArgument:
			if int(k.Index) >= argCount {
				return &ExpressionError{Handle: handle, Reason: "index-out-of-bounds", Detail: fmt.Sprintf("argument index %d out of range (%d arguments)", k.Index, argCount)}
			}
		case ExprGlobalVariable:
			if int(k.Variable) >= len(module.GlobalVariables) {
				return &ExpressionError{Handle: handle, Reason: "handle-not-found", Detail: "global variable does not exist"}
			}
		case ExprLocalVariable:
			if int(k.Variable) >= localCount {
				return &ExpressionError{Handle: handle, Reason: "index-out-of-bounds", Detail: fmt.Sprintf("local variable index %d out of range (%d locals)", k.Variable, localCount)}
			}
		case ExprCallResult:
			if int(k.Function) >= len(module.Functions) {
				return &ExpressionError{Handle: handle, Reason: "handle-not-found", Detail: "function does not exist"}
			}
		}
	}
	return nil
}

func checkComposeCount(module *Module, handle ExpressionHandle, k ExprCompose) error {
	want := -1
	switch inner := module.Types[k.Type].Inner.(type) {
	case VectorType:
		want = int(inner.Size)
	case MatrixType:
		want = int(inner.Columns)
	case ArrayType:
		if inner.Size.Constant != nil {
			want = int(*inner.Size.Constant)
		}
	case StructType:
		want = len(inner.Members)
	}
	if want >= 0 && len(k.Components) != want {
		return &ExpressionError{
			Handle: handle, Reason: "compose-count-mismatch",
			Detail: fmt.Sprintf("composing %d components but the target type expects %d", len(k.Components), want),
		}
	}
	return nil
}

func checkAccessIndexBounds(module *Module, fn *Function, handle ExpressionHandle, k ExprAccessIndex) error {
	baseRes, err := ResolveExpressionType(module, fn, k.Base)
	if err != nil {
		return nil // base itself is invalid; the base's own validation already reported or will report it
	}
	inner := typeResInner(module, baseRes)
	if ptr, ok := inner.(PointerType); ok {
		if int(ptr.Base) < len(module.Types) {
			inner = module.Types[ptr.Base].Inner
		}
	}
	var count = -1
	switch t := inner.(type) {
	case VectorType:
		count = int(t.Size)
	case MatrixType:
		count = int(t.Columns)
	case StructType:
		count = len(t.Members)
	case ArrayType:
		if t.Size.Constant != nil {
			count = int(*t.Size.Constant)
		}
	}
	if count >= 0 && int(k.Index) >= count {
		return &ExpressionError{
			Handle: handle, Reason: "index-out-of-bounds",
			Detail: fmt.Sprintf("index %d out of bounds for a value with %d elements", k.Index, count),
		}
	}
	return nil
}

// validateBlock checks structural statement rules: every expression
// handle a statement references exists; break/continue only within a
// loop or switch, never from a loop's continuing block; return/kill
// never from a continuing block; switch has exactly one default case;
// emit ranges stay within the function's expression arena.
func validateBlock(block []Statement, exprCount, functionCount int, loopDepth int, inContinuing bool) error {
	for i := range block {
		stmt := &block[i]
		if stmt.Kind == nil {
			return &StatementError{Index: i, Reason: "nil-kind", Detail: "statement has no kind"}
		}
		for _, h := range StatementOperands(stmt.Kind) {
			if int(h) >= exprCount {
				return &StatementError{Index: i, Reason: "handle-not-found", Detail: fmt.Sprintf("expression %d does not exist", h)}
			}
		}
		if call, ok := stmt.Kind.(StmtCall); ok && int(call.Function) >= functionCount {
			return &StatementError{Index: i, Reason: "handle-not-found", Detail: fmt.Sprintf("function %d does not exist", call.Function)}
		}
		switch k := stmt.Kind.(type) {
		case StmtBlock:
			if err := validateBlock(k.Block, exprCount, functionCount, loopDepth, inContinuing); err != nil {
				return err
			}
		case StmtIf:
			if err := validateBlock(k.Accept, exprCount, functionCount, loopDepth, inContinuing); err != nil {
				return err
			}
			if err := validateBlock(k.Reject, exprCount, functionCount, loopDepth, inContinuing); err != nil {
				return err
			}
		case StmtSwitch:
			hasDefault := false
			for _, c := range k.Cases {
				if _, ok := c.Value.(SwitchValueDefault); ok {
					if hasDefault {
						return &StatementError{Index: i, Reason: "duplicate-default", Detail: "switch has more than one default case"}
					}
					hasDefault = true
				}
				if err := validateBlock(c.Body, exprCount, functionCount, loopDepth+1, inContinuing); err != nil {
					return err
				}
			}
			if !hasDefault {
				return &StatementError{Index: i, Reason: "missing-default", Detail: "switch has no default case"}
			}
		case StmtLoop:
			if err := validateBlock(k.Body, exprCount, functionCount, loopDepth+1, false); err != nil {
				return err
			}
			if err := validateBlock(k.Continuing, exprCount, functionCount, loopDepth+1, true); err != nil {
				return err
			}
		case StmtBreak:
			if loopDepth == 0 {
				return &StatementError{Index: i, Reason: "break-outside-loop", Detail: "break outside of a loop or switch"}
			}
			if inContinuing {
				return &StatementError{Index: i, Reason: "break-in-continuing", Detail: "break not allowed in a loop's continuing block"}
			}
		case StmtContinue:
			if loopDepth == 0 {
				return &StatementError{Index: i, Reason: "continue-outside-loop", Detail: "continue outside of a loop"}
			}
			if inContinuing {
				return &StatementError{Index: i, Reason: "continue-in-continuing", Detail: "continue not allowed in a loop's continuing block"}
			}
		case StmtReturn:
			if inContinuing {
				return &StatementError{Index: i, Reason: "return-in-continuing", Detail: "return not allowed in a loop's continuing block"}
			}
		case StmtKill:
			if inContinuing {
				return &StatementError{Index: i, Reason: "kill-in-continuing", Detail: "discard not allowed in a loop's continuing block"}
			}
		case StmtEmit:
			if k.Range.Start >= k.Range.End {
				return &StatementError{Index: i, Reason: "empty-emit-range", Detail: "emit range start must be before end"}
			}
			if int(k.Range.End) > exprCount {
				return &StatementError{Index: i, Reason: "emit-range-out-of-bounds", Detail: fmt.Sprintf("emit range end %d out of range", k.Range.End)}
			}
		}
	}
	return nil
}

func (v *Validator) validateEntryPoints(module *Module, functionInfos []*FunctionInfo) error {
	// Entry-point names are unique per (stage, name) pair, not per name
	// alone: a Vertex "main" and a Fragment "main" in the same module
	// are distinct entry points.
	type stageName struct {
		stage ShaderStage
		name  string
	}
	seen := make(map[stageName]bool)

	for i := range module.EntryPoints {
		ep := &module.EntryPoints[i]
		if ep.Name == "" {
			return &EntryPointError{Stage: ep.Stage, Reason: "empty-name", Detail: "entry point has no name"}
		}
		key := stageName{stage: ep.Stage, name: ep.Name}
		if seen[key] {
			return &EntryPointError{Name: ep.Name, Stage: ep.Stage, Reason: "duplicate-name", Detail: "another entry point with the same stage already uses this name"}
		}
		seen[key] = true

		if int(ep.Function) >= len(module.Functions) {
			return &EntryPointError{Name: ep.Name, Stage: ep.Stage, Reason: "invalid-function", Detail: "function does not exist"}
		}
		fn := &module.Functions[ep.Function]
		info := functionInfos[ep.Function]

		if !info.AvailableStages.Contains(ep.Stage) {
			return &EntryPointError{Name: ep.Name, Stage: ep.Stage, Reason: "stage-unavailable",
				Detail: "the entry function's body uses a construct unavailable in this stage (e.g. a derivative, barrier, or a call to a function so restricted)"}
		}

		switch ep.Stage {
		case StageVertex:
			if fn.Result == nil || !hasPositionBuiltin(module, fn.Result) {
				return &EntryPointError{Name: ep.Name, Stage: ep.Stage, Reason: "missing-position", Detail: "vertex entry point must return @builtin(position)"}
			}
		case StageCompute:
			if ep.Workgroup[0] == 0 || ep.Workgroup[1] == 0 || ep.Workgroup[2] == 0 {
				return &EntryPointError{Name: ep.Name, Stage: ep.Stage, Reason: "invalid-workgroup-size", Detail: "workgroup size must be non-zero in every dimension"}
			}
		}
	}
	return nil
}

func hasPositionBuiltin(module *Module, result *FunctionResult) bool {
	if result.Binding != nil && isPositionBuiltin(*result.Binding) {
		return true
	}
	if int(result.Type) >= len(module.Types) {
		return false
	}
	st, ok := module.Types[result.Type].Inner.(StructType)
	if !ok {
		return false
	}
	for _, m := range st.Members {
		if m.Binding != nil && isPositionBuiltin(*m.Binding) {
			return true
		}
	}
	return false
}

func isPositionBuiltin(b Binding) bool {
	bb, ok := b.(BuiltinBinding)
	return ok && bb.Builtin == BuiltinPosition
}
