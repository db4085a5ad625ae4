package ir

import (
	"errors"
	"testing"
)

func TestValidate_ValidModule(t *testing.T) {
	module := &Module{
		Types: []Type{
			{Name: "f32", Inner: ScalarType{Kind: ScalarFloat, Width: 4}},
			{Name: "vec4f", Inner: VectorType{Size: Vec4, Scalar: ScalarType{Kind: ScalarFloat, Width: 4}}},
		},
		Functions: []Function{
			{
				Name: "main",
				Result: &FunctionResult{
					Type:    TypeHandle(1),
					Binding: bindingPtr(BuiltinBinding{Builtin: BuiltinPosition}),
				},
				Body: []Statement{},
			},
		},
		EntryPoints: []EntryPoint{
			{Name: "main", Stage: StageVertex, Function: FunctionHandle(0)},
		},
	}

	info, err := Validate(module)
	if err != nil {
		t.Fatalf("Validate returned error for a valid module: %v", err)
	}
	if info == nil {
		t.Fatal("Validate returned a nil ModuleInfo on success")
	}
	if len(info.Types) != len(module.Types) {
		t.Errorf("ModuleInfo.Types has %d entries, want %d", len(info.Types), len(module.Types))
	}
	if !info.Types[1].Contains(TypeFlagData | TypeFlagSized) {
		t.Errorf("vec4f should be Data|Sized, got %v", info.Types[1])
	}
}

func TestValidate_NilModule(t *testing.T) {
	if _, err := Validate(nil); err == nil {
		t.Error("expected an error for a nil module, got nil")
	}
}

func TestValidate_InvalidTypeHandle(t *testing.T) {
	module := &Module{
		Types: []Type{
			{Name: "array", Inner: ArrayType{Base: TypeHandle(999), Size: ArraySize{Constant: uint32Ptr(4)}, Stride: 4}},
		},
	}

	_, err := Validate(module)
	if err == nil {
		t.Fatal("expected a validation error for an invalid array base type")
	}
	var layoutErr *LayoutError
	if !errors.As(err, &layoutErr) {
		t.Fatalf("expected error chain to contain *LayoutError, got %v", err)
	}
}

func TestValidate_InvalidVectorSize(t *testing.T) {
	module := &Module{
		Types: []Type{
			{Name: "vec5", Inner: VectorType{Size: VectorSize(5), Scalar: ScalarType{Kind: ScalarFloat, Width: 4}}},
		},
	}

	if _, err := Validate(module); err == nil {
		t.Error("expected a validation error for an invalid vector size")
	}
}

func TestValidate_MatrixNonFloat(t *testing.T) {
	module := &Module{
		Types: []Type{
			{Name: "mat_int", Inner: MatrixType{Columns: Vec3, Rows: Vec3, Scalar: ScalarType{Kind: ScalarSint, Width: 4}}},
		},
	}

	if _, err := Validate(module); err == nil {
		t.Error("expected a validation error for a non-float matrix")
	}
}

func TestValidate_DuplicateFunctionName(t *testing.T) {
	module := &Module{
		Types:     []Type{{Name: "f32", Inner: ScalarType{Kind: ScalarFloat, Width: 4}}},
		Functions: []Function{{Name: "test"}, {Name: "test"}},
	}

	_, err := Validate(module)
	if err == nil {
		t.Fatal("expected a validation error for duplicate function names")
	}
	var fnErr *FunctionError
	if !errors.As(err, &fnErr) || fnErr.Reason != "duplicate-name" {
		t.Fatalf("expected a FunctionError{Reason: duplicate-name}, got %v", err)
	}
}

func TestValidate_BreakOutsideLoop(t *testing.T) {
	module := &Module{
		Types: []Type{{Name: "f32", Inner: ScalarType{Kind: ScalarFloat, Width: 4}}},
		Functions: []Function{
			{Name: "test", Body: []Statement{{Kind: StmtBreak{}}}},
		},
	}

	_, err := Validate(module)
	if err == nil {
		t.Fatal("expected a validation error for break outside a loop")
	}
	var stmtErr *StatementError
	if !errors.As(err, &stmtErr) || stmtErr.Reason != "break-outside-loop" {
		t.Fatalf("expected a StatementError{Reason: break-outside-loop}, got %v", err)
	}
}

func TestValidate_InvalidExpressionHandle(t *testing.T) {
	module := &Module{
		Types: []Type{{Name: "f32", Inner: ScalarType{Kind: ScalarFloat, Width: 4}}},
		Functions: []Function{
			{Name: "test", Expressions: []Expression{}, Body: []Statement{
				{Kind: StmtReturn{Value: exprHandlePtr(999)}},
			}},
		},
	}

	_, err := Validate(module)
	if err == nil {
		t.Fatal("expected a validation error for an invalid expression handle")
	}
	var stmtErr *StatementError
	if !errors.As(err, &stmtErr) || stmtErr.Reason != "handle-not-found" {
		t.Fatalf("expected a StatementError{Reason: handle-not-found}, got %v", err)
	}
}

func TestValidate_VertexEntryPointWithoutPosition(t *testing.T) {
	module := &Module{
		Types: []Type{{Name: "f32", Inner: ScalarType{Kind: ScalarFloat, Width: 4}}},
		Functions: []Function{
			{Name: "main", Result: &FunctionResult{Type: TypeHandle(0), Binding: bindingPtr(LocationBinding{Location: 0})}},
		},
		EntryPoints: []EntryPoint{
			{Name: "main", Stage: StageVertex, Function: FunctionHandle(0)},
		},
	}

	_, err := Validate(module)
	if err == nil {
		t.Fatal("expected a validation error for a vertex entry point missing @builtin(position)")
	}
	var epErr *EntryPointError
	if !errors.As(err, &epErr) || epErr.Reason != "missing-position" {
		t.Fatalf("expected an EntryPointError{Reason: missing-position}, got %v", err)
	}
}

func TestValidate_DuplicateBinding(t *testing.T) {
	module := &Module{
		Types: []Type{{Name: "f32", Inner: ScalarType{Kind: ScalarFloat, Width: 4}}},
		GlobalVariables: []GlobalVariable{
			{Name: "var1", Type: TypeHandle(0), Binding: &ResourceBinding{Group: 0, Binding: 0}},
			{Name: "var2", Type: TypeHandle(0), Binding: &ResourceBinding{Group: 0, Binding: 0}},
		},
	}

	if _, err := Validate(module); err == nil {
		t.Error("expected a validation error for a duplicate resource binding")
	}
}

func TestValidate_SwitchWithoutDefault(t *testing.T) {
	module := &Module{
		Types: []Type{{Name: "i32", Inner: ScalarType{Kind: ScalarSint, Width: 4}}},
		Functions: []Function{
			{
				Name:        "test",
				Expressions: []Expression{{Kind: Literal{Value: LiteralI32(1)}}},
				Body: []Statement{
					{Kind: StmtEmit{Range: Range{Start: 0, End: 1}}},
					{Kind: StmtSwitch{
						Selector: ExpressionHandle(0),
						Cases:    []SwitchCase{{Value: SwitchValueI32(1), Body: []Statement{}}},
					}},
				},
			},
		},
	}

	if _, err := Validate(module); err == nil {
		t.Error("expected a validation error for a switch missing a default case")
	}
}

func TestValidate_ComputeEntryWithoutWorkgroup(t *testing.T) {
	module := &Module{
		Types:     []Type{{Name: "f32", Inner: ScalarType{Kind: ScalarFloat, Width: 4}}},
		Functions: []Function{{Name: "main"}},
		EntryPoints: []EntryPoint{
			{Name: "main", Stage: StageCompute, Function: FunctionHandle(0), Workgroup: [3]uint32{0, 0, 0}},
		},
	}

	if _, err := Validate(module); err == nil {
		t.Error("expected a validation error for a compute entry point with a zero workgroup size")
	}
}

func TestValidationError_Error(t *testing.T) {
	leaf := &ExpressionError{Handle: ExpressionHandle(5), Reason: "handle-not-found", Detail: "boom"}
	fnErr := &FunctionError{Handle: FunctionHandle(0), Name: "main", Source: leaf}
	top := &ValidationError{Phase: "functions", Source: fnErr}

	want := `validation failed at functions: function "main" (0): expression 5: handle-not-found: boom`
	if got := top.Error(); got != want {
		t.Errorf("ValidationError.Error() = %q, want %q", got, want)
	}

	var gotLeaf *ExpressionError
	if !errors.As(error(top), &gotLeaf) || gotLeaf != leaf {
		t.Error("errors.As should recover the originating *ExpressionError through the wrapping chain")
	}
}

func TestValidate_FailsFastOnFirstPhase(t *testing.T) {
	// A module with both an invalid constant type (constants phase)
	// and a duplicate function name (functions phase) must fail at
	// the constants phase -- the fixed order runs constants before
	// functions, and Validate never collects a list of problems.
	module := &Module{
		Types:     []Type{{Name: "f32", Inner: ScalarType{Kind: ScalarFloat, Width: 4}}},
		Constants: []Constant{{Name: "bad", Type: TypeHandle(999), Value: ScalarValue{Kind: ScalarFloat}}},
		Functions: []Function{{Name: "dup"}, {Name: "dup"}},
	}

	_, err := Validate(module)
	if err == nil {
		t.Fatal("expected a validation error")
	}
	var valErr *ValidationError
	if !errors.As(err, &valErr) || valErr.Phase != "constants" {
		t.Fatalf("expected the constants phase to fail first, got %v", err)
	}
}

// Helper functions shared by this package's other validator test files.

func uint32Ptr(v uint32) *uint32 {
	return &v
}

func exprHandlePtr(v ExpressionHandle) *ExpressionHandle {
	return &v
}

//nolint:gocritic // ptrToRefParam: helper for tests
func bindingPtr(b Binding) *Binding {
	return &b
}
