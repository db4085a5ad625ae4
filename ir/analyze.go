package ir

// Uniformity records whether an expression's result is guaranteed to
// be the same across every invocation that evaluates it, and what
// control-flow guarantee consuming it requires.
type Uniformity struct {
	// NonUniformResult names the expression that first introduced
	// non-uniformity into this value, or nil if the value is uniform.
	NonUniformResult *ExpressionHandle
	// Requirements records why downstream control flow must stay
	// uniform to use this value soundly (e.g. implicit-LOD sampling).
	Requirements UniformityRequirements
}

// ExpressionInfo is the analyzer's per-expression output, held in an
// Arena[ExpressionInfo] parallel to the function's expression arena.
type ExpressionInfo struct {
	Ty               TypeResolution
	RefCount         uint32
	AssignableGlobal *GlobalVariableHandle
	Uniformity       Uniformity
}

// UniformityViolation is a single instance of a uniform-control-flow
// requirement being violated: a value or barrier statement that needs
// uniform control flow was reached from a branch the analyzer proved
// can diverge between invocations.
type UniformityViolation struct {
	Expression *ExpressionHandle
	Statement  string // human label for a non-expression source, e.g. "barrier"
}

// FunctionInfo is the analyzer's output for one function: per-
// expression details plus function-wide aggregates the validator and
// back-ends both need (which globals it touches and how, which stages
// it can legally run in, whether it can discard).
type FunctionInfo struct {
	Expressions          *Arena[ExpressionInfo]
	GlobalUses           map[GlobalVariableHandle]GlobalUse
	AvailableStages      ShaderStages
	MayKill              bool
	UniformityViolations []UniformityViolation
}

// nonUniformBuiltins lists the entry-point builtins whose value varies
// per invocation and so seeds non-uniformity whenever read.
var nonUniformBuiltins = map[BuiltinValue]bool{
	BuiltinVertexIndex:          true,
	BuiltinInstanceIndex:        true,
	BuiltinFrontFacing:          true,
	BuiltinSampleIndex:          true,
	BuiltinSampleMask:           true,
	BuiltinLocalInvocationID:    true,
	BuiltinLocalInvocationIndex: true,
	BuiltinGlobalInvocationID:   true,
}

// Analyze computes FunctionInfo for fn. calleeStages, when non-nil, is
// consulted to intersect a call site's available stages with the
// stages the callee itself is restricted to; pass nil while analyzing
// a function whose callees have not been analyzed yet.
func Analyze(module *Module, fn *Function, calleeStages map[FunctionHandle]ShaderStages) (*FunctionInfo, error) {
	w := NewWalker(fn)

	infos := NewArena[ExpressionInfo](len(fn.Expressions))
	info := &FunctionInfo{
		GlobalUses:      make(map[GlobalVariableHandle]GlobalUse),
		AvailableStages: AllShaderStages(),
	}

	argBuiltin := func(index uint32) (BuiltinValue, bool) {
		if int(index) >= len(fn.Arguments) {
			return 0, false
		}
		binding := fn.Arguments[index].Binding
		if binding == nil {
			return 0, false
		}
		b, ok := (*binding).(BuiltinBinding)
		if !ok {
			return 0, false
		}
		return b.Builtin, true
	}

	w.WalkExpressions(func(h ExpressionHandle, expr *Expression) {
		ty, err := ResolveExpressionType(module, fn, h)
		if err != nil {
			ty = TypeResolution{}
		}

		ei := ExpressionInfo{Ty: ty}

		switch k := expr.Kind.(type) {
		case ExprFunctionArgument:
			if b, ok := argBuiltin(k.Index); ok && nonUniformBuiltins[b] {
				ei.Uniformity.NonUniformResult = &h
			}
		case ExprGlobalVariable:
			g := k.Variable
			ei.AssignableGlobal = &g
		case ExprImageSample:
			switch k.Level.(type) {
			case SampleLevelAuto, SampleLevelBias:
				ei.Uniformity.Requirements |= RequireUniformForImplicitLOD
			}
			if nonUniform(infos, k.Coordinate) {
				ei.Uniformity.NonUniformResult = &h
			}
		case ExprImageLoad:
			if nonUniform(infos, k.Coordinate) {
				ei.Uniformity.NonUniformResult = &h
			}
		case ExprCallResult:
			// Interprocedural result uniformity is not tracked; a
			// called function's return value is treated as uniform.
		}

		if ei.Uniformity.NonUniformResult == nil {
			for _, op := range ExpressionOperands(expr.Kind) {
				if nonUniform(infos, op) {
					opH := op
					ei.Uniformity.NonUniformResult = &opH
					break
				}
			}
		}

		infos.Append(ei)
	})

	// Second pass: ref counts and global uses, which need every
	// expression's operands (including those of later expressions)
	// accounted for.
	for i := range fn.Expressions {
		for _, op := range ExpressionOperands(fn.Expressions[i].Kind) {
			bumpRefCount(infos, op)
		}
		if load, ok := fn.Expressions[i].Kind.(ExprLoad); ok {
			if g, ok := baseGlobal(fn, load.Pointer); ok {
				info.GlobalUses[g] |= GlobalUseRead
			}
		}
		if q, ok := fn.Expressions[i].Kind.(ExprImageQuery); ok {
			if g, ok := baseGlobal(fn, q.Image); ok {
				info.GlobalUses[g] |= GlobalUseQuery
			}
		}
		if s, ok := fn.Expressions[i].Kind.(ExprImageSample); ok {
			if g, ok := baseGlobal(fn, s.Image); ok {
				info.GlobalUses[g] |= GlobalUseRead
			}
		}
	}

	w.WalkStatements(func(stmt *Statement) {
		for _, op := range StatementOperands(stmt.Kind) {
			bumpRefCount(infos, op)
		}
		switch k := stmt.Kind.(type) {
		case StmtStore:
			if g, ok := baseGlobal(fn, k.Pointer); ok {
				info.GlobalUses[g] |= GlobalUseWrite
			}
		case StmtImageStore:
			if g, ok := baseGlobal(fn, k.Image); ok {
				info.GlobalUses[g] |= GlobalUseWrite
			}
		case StmtKill:
			info.MayKill = true
			info.AvailableStages &= StageFlagFragment
		case StmtCall:
			if calleeStages != nil {
				if s, ok := calleeStages[k.Function]; ok {
					info.AvailableStages &= s
				}
			}
		}
	})

	// Derivative expressions and workgroup-synchronizing statements
	// restrict the stages a function may run in.
	w.WalkExpressions(func(h ExpressionHandle, expr *Expression) {
		if _, ok := expr.Kind.(ExprDerivative); ok {
			info.AvailableStages &= StageFlagFragment
		}
	})
	w.WalkStatements(func(stmt *Statement) {
		switch stmt.Kind.(type) {
		case StmtBarrier, StmtWorkGroupUniformLoad:
			info.AvailableStages &= StageFlagCompute
		}
	})

	info.UniformityViolations = checkControlFlowUniformity(fn, infos)
	info.Expressions = infos
	return info, nil
}

func nonUniform(infos *Arena[ExpressionInfo], h ExpressionHandle) bool {
	ei, ok := infos.TryGet(Handle[ExpressionInfo](h))
	return ok && ei.Uniformity.NonUniformResult != nil
}

func bumpRefCount(infos *Arena[ExpressionInfo], h ExpressionHandle) {
	if int(h) >= infos.Len() {
		return
	}
	infos.GetPtr(Handle[ExpressionInfo](h)).RefCount++
}

// checkControlFlowUniformity re-walks the function body tracking, at
// every point, whether control flow to that point is known uniform.
// It is a dedicated recursive traversal (rather than going through
// Walker) because it threads an extra piece of state -- the
// accumulated non-uniformity of the branches taken to reach the
// current statement -- that a single-statement visitor callback has
// no way to carry.
func checkControlFlowUniformity(fn *Function, infos *Arena[ExpressionInfo]) []UniformityViolation {
	var violations []UniformityViolation
	var walk func(block []Statement, nonUniformCtx bool)
	walk = func(block []Statement, nonUniformCtx bool) {
		for i := range block {
			stmt := &block[i]
			switch k := stmt.Kind.(type) {
			case StmtEmit:
				for h := k.Range.Start; h < k.Range.End; h++ {
					ei, ok := infos.TryGet(Handle[ExpressionInfo](h))
					if ok && ei.Uniformity.Requirements != 0 && nonUniformCtx {
						handle := h
						violations = append(violations, UniformityViolation{Expression: &handle})
					}
				}
			case StmtBarrier:
				if nonUniformCtx {
					violations = append(violations, UniformityViolation{Statement: "barrier"})
				}
			case StmtWorkGroupUniformLoad:
				if nonUniformCtx {
					violations = append(violations, UniformityViolation{Statement: "workgroupUniformLoad"})
				}
			case StmtBlock:
				walk(k.Block, nonUniformCtx)
			case StmtIf:
				branch := nonUniformCtx || nonUniform(infos, k.Condition)
				walk(k.Accept, branch)
				walk(k.Reject, branch)
			case StmtSwitch:
				branch := nonUniformCtx || nonUniform(infos, k.Selector)
				for _, c := range k.Cases {
					walk(c.Body, branch)
				}
			case StmtLoop:
				walk(k.Body, nonUniformCtx)
				cont := nonUniformCtx
				if k.BreakIf != nil && nonUniform(infos, *k.BreakIf) {
					cont = true
				}
				walk(k.Continuing, cont)
			}
		}
	}
	walk(fn.Body, false)
	return violations
}
