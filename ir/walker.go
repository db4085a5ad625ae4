package ir

// Walker provides the shared "visit every expression once" and "visit
// every statement in structural order" traversals the analyzer is
// built on. The validator's block checks and the analyzer's uniformity
// check use their own recursion because they carry per-block state.
type Walker struct {
	fn *Function
}

// NewWalker creates a walker over fn's expressions and body.
func NewWalker(fn *Function) *Walker { return &Walker{fn: fn} }

// WalkExpressions invokes visit once for every expression in the
// function's arena, in arena order. Because expressions are emitted in
// SSA form, arena order is also a valid dependency order: every
// expression's operands have a strictly smaller handle and so have
// already been visited.
func (w *Walker) WalkExpressions(visit func(ExpressionHandle, *Expression)) {
	for i := range w.fn.Expressions {
		visit(ExpressionHandle(i), &w.fn.Expressions[i])
	}
}

// WalkStatements invokes visit once for every statement reachable from
// the function body, in depth-first pre-order: each statement is
// visited before the blocks nested inside it (Block/If/Switch/Loop
// bodies), and those nested statements before the next sibling.
func (w *Walker) WalkStatements(visit func(*Statement)) {
	walkBlock(w.fn.Body, visit)
}

func walkBlock(block []Statement, visit func(*Statement)) {
	for i := range block {
		stmt := &block[i]
		visit(stmt)
		switch k := stmt.Kind.(type) {
		case StmtBlock:
			walkBlock(k.Block, visit)
		case StmtIf:
			walkBlock(k.Accept, visit)
			walkBlock(k.Reject, visit)
		case StmtSwitch:
			for _, c := range k.Cases {
				walkBlock(c.Body, visit)
			}
		case StmtLoop:
			walkBlock(k.Body, visit)
			walkBlock(k.Continuing, visit)
		}
	}
}

// ExpressionOperands returns the expression handles kind directly
// references. It does not recurse: since expressions are already a
// flat SSA arena, an operand's own operands were already emitted (and
// already visited) earlier in arena order.
func ExpressionOperands(kind ExpressionKind) []ExpressionHandle {
	var out []ExpressionHandle
	add := func(h ExpressionHandle) { out = append(out, h) }
	addOpt := func(h *ExpressionHandle) {
		if h != nil {
			out = append(out, *h)
		}
	}
	switch k := kind.(type) {
	case ExprCompose:
		out = append(out, k.Components...)
	case ExprAccess:
		add(k.Base)
		add(k.Index)
	case ExprAccessIndex:
		add(k.Base)
	case ExprSplat:
		add(k.Value)
	case ExprSwizzle:
		add(k.Vector)
	case ExprLoad:
		add(k.Pointer)
	case ExprImageSample:
		add(k.Image)
		add(k.Sampler)
		add(k.Coordinate)
		addOpt(k.ArrayIndex)
		addOpt(k.Offset)
		addOpt(k.DepthRef)
		switch lvl := k.Level.(type) {
		case SampleLevelExact:
			add(lvl.Level)
		case SampleLevelBias:
			add(lvl.Bias)
		case SampleLevelGradient:
			add(lvl.X)
			add(lvl.Y)
		}
	case ExprImageLoad:
		add(k.Image)
		add(k.Coordinate)
		addOpt(k.ArrayIndex)
		addOpt(k.Sample)
		addOpt(k.Level)
	case ExprImageQuery:
		add(k.Image)
		if sz, ok := k.Query.(ImageQuerySize); ok {
			addOpt(sz.Level)
		}
	case ExprUnary:
		add(k.Expr)
	case ExprBinary:
		add(k.Left)
		add(k.Right)
	case ExprSelect:
		add(k.Condition)
		add(k.Accept)
		add(k.Reject)
	case ExprDerivative:
		add(k.Expr)
	case ExprRelational:
		add(k.Argument)
	case ExprMath:
		add(k.Arg)
		addOpt(k.Arg1)
		addOpt(k.Arg2)
		addOpt(k.Arg3)
	case ExprAs:
		add(k.Expr)
	case ExprArrayLength:
		add(k.Array)
	}
	return out
}

// StatementOperands returns the expression handles kind directly
// references, for statements that consume rather than produce values.
func StatementOperands(kind StatementKind) []ExpressionHandle {
	var out []ExpressionHandle
	add := func(h ExpressionHandle) { out = append(out, h) }
	addOpt := func(h *ExpressionHandle) {
		if h != nil {
			out = append(out, *h)
		}
	}
	switch k := kind.(type) {
	case StmtIf:
		add(k.Condition)
	case StmtSwitch:
		add(k.Selector)
	case StmtLoop:
		addOpt(k.BreakIf)
	case StmtReturn:
		addOpt(k.Value)
	case StmtStore:
		add(k.Pointer)
		add(k.Value)
	case StmtImageStore:
		add(k.Image)
		add(k.Coordinate)
		addOpt(k.ArrayIndex)
		add(k.Value)
	case StmtAtomic:
		add(k.Pointer)
		add(k.Value)
		addOpt(k.Result)
		if exch, ok := k.Fun.(AtomicExchange); ok {
			addOpt(exch.Compare)
		}
	case StmtWorkGroupUniformLoad:
		add(k.Pointer)
		add(k.Result)
	case StmtCall:
		out = append(out, k.Arguments...)
		addOpt(k.Result)
	case StmtRayQuery:
		add(k.Query)
	}
	return out
}

// baseGlobal follows a chain of Access/AccessIndex expressions back to
// the GlobalVariable expression at its root, if any. It is how the
// analyzer attributes a Load or Store through a derived pointer (e.g.
// `my_buffer.values[i]`) back to the global it ultimately touches.
func baseGlobal(fn *Function, h ExpressionHandle) (GlobalVariableHandle, bool) {
	for {
		if int(h) >= len(fn.Expressions) {
			return 0, false
		}
		switch k := fn.Expressions[h].Kind.(type) {
		case ExprGlobalVariable:
			return k.Variable, true
		case ExprAccess:
			h = k.Base
		case ExprAccessIndex:
			h = k.Base
		default:
			return 0, false
		}
	}
}
