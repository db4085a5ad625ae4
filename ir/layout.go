package ir

// LayoutInfo is the size and alignment the layouter computed for a
// single type, in bytes, following WGSL's host-shareable layout rules
// (which also match std430-with-vec3-padding-to-vec4 closely enough
// that a back-end can special-case the few spots they diverge).
type LayoutInfo struct {
	Size      uint32
	Alignment uint32
}

// Layouter holds the per-type LayoutInfo for every type in a module,
// computed once and reused by the validator (to size globals and
// struct members) and by back-ends (to emit explicit offsets/strides).
type Layouter struct {
	infos *Arena[LayoutInfo]
}

// ComputeLayout computes LayoutInfo for every type in module.Types, in
// arena order. It assumes types only reference earlier types (the
// front-end contract), so a single forward pass suffices: by the time
// a composite type is reached, every type it depends on already has an
// entry.
func ComputeLayout(module *Module) (*Layouter, error) {
	infos := NewArena[LayoutInfo](len(module.Types))
	l := &Layouter{infos: infos}
	for i := range module.Types {
		info, err := l.layoutOf(module, TypeHandle(i), &module.Types[i])
		if err != nil {
			return nil, err
		}
		infos.Append(info)
	}
	return l, nil
}

// Get returns the previously computed layout for th. It panics if th
// was not part of the module ComputeLayout was called with.
func (l *Layouter) Get(th TypeHandle) LayoutInfo {
	return l.infos.Get(Handle[LayoutInfo](th))
}

func (l *Layouter) layoutOf(module *Module, handle TypeHandle, typ *Type) (LayoutInfo, error) {
	switch inner := typ.Inner.(type) {
	case ScalarType:
		w := uint32(inner.Width)
		return LayoutInfo{Size: w, Alignment: w}, nil

	case VectorType:
		w := uint32(inner.Scalar.Width)
		return LayoutInfo{Size: uint32(inner.Size) * w, Alignment: vectorAlignment(inner.Size, w)}, nil

	case MatrixType:
		colInfo := LayoutInfo{
			Size:      uint32(inner.Rows) * uint32(inner.Scalar.Width),
			Alignment: vectorAlignment(inner.Rows, uint32(inner.Scalar.Width)),
		}
		stride := roundUp(colInfo.Size, colInfo.Alignment)
		return LayoutInfo{Size: stride * uint32(inner.Columns), Alignment: colInfo.Alignment}, nil

	case ArrayType:
		if int(inner.Base) >= len(module.Types) {
			return LayoutInfo{}, &LayoutError{Handle: handle, Reason: "invalid-base-type", Detail: "array base type does not exist"}
		}
		if int(inner.Base) >= int(handle) {
			return LayoutInfo{}, &LayoutError{Handle: handle, Reason: "forward-dependency", Detail: "array base type must be declared before the array"}
		}
		elem := l.infos.Get(Handle[LayoutInfo](inner.Base))
		minStride := roundUp(elem.Size, elem.Alignment)
		if inner.Stride < minStride {
			return LayoutInfo{}, &LayoutError{
				Handle: handle,
				Reason: "stride-too-small",
				Detail: "array stride is smaller than the element's size rounded up to its alignment",
			}
		}
		size := uint32(0)
		if inner.Size.Constant != nil {
			size = inner.Stride * *inner.Size.Constant
		}
		return LayoutInfo{Size: size, Alignment: elem.Alignment}, nil

	case StructType:
		var offset, align uint32
		for i := range inner.Members {
			m := &inner.Members[i]
			if int(m.Type) >= len(module.Types) {
				return LayoutInfo{}, &LayoutError{Handle: handle, Reason: "invalid-member-type", Detail: "struct member type does not exist"}
			}
			if int(m.Type) >= int(handle) {
				return LayoutInfo{}, &LayoutError{Handle: handle, Reason: "forward-dependency", Detail: "struct member type must be declared before the struct"}
			}
			mi := l.infos.Get(Handle[LayoutInfo](m.Type))
			if mi.Alignment > align {
				align = mi.Alignment
			}
			start := offset
			if m.Offset > start {
				start = m.Offset
			}
			start = roundUp(start, mi.Alignment)
			if m.Offset != 0 && (m.Offset < offset || m.Offset%mi.Alignment != 0) {
				return LayoutInfo{}, &LayoutError{
					Handle: handle,
					Reason: "disalignment",
					Detail: "declared member offset conflicts with natural packing or its own alignment",
				}
			}
			offset = start + mi.Size
		}
		if align == 0 {
			align = 1
		}
		size := roundUp(offset, align)
		if inner.Span != 0 && inner.Span > size {
			size = inner.Span
		}
		return LayoutInfo{Size: size, Alignment: align}, nil

	case PointerType:
		// Pointers are never host-shareable; a nominal size lets a
		// back-end still index LayoutInfo without a special case.
		return LayoutInfo{Size: 4, Alignment: 4}, nil

	case AtomicType:
		w := uint32(inner.Scalar.Width)
		return LayoutInfo{Size: w, Alignment: w}, nil

	case SamplerType, ImageType:
		return LayoutInfo{Size: 0, Alignment: 1}, nil

	default:
		return LayoutInfo{}, &LayoutError{Handle: handle, Reason: "unknown-type-kind", Detail: "type has an unrecognized inner kind"}
	}
}

// vectorAlignment follows WGSL's rule that vec3 aligns like vec4: the
// smallest power of two at least as large as size*width.
func vectorAlignment(size VectorSize, width uint32) uint32 {
	n := uint32(size)
	if n == 3 {
		n = 4
	}
	return n * width
}

func roundUp(value, align uint32) uint32 {
	if align == 0 {
		return value
	}
	rem := value % align
	if rem == 0 {
		return value
	}
	return value + (align - rem)
}

// IsSized reports whether inner has a compile-time-known size. A
// runtime-sized array (no Constant element count), or a struct whose
// last member is such an array, is not Sized -- mirroring the one
// place WGSL allows an open-ended tail.
func IsSized(module *Module, inner TypeInner) bool {
	switch t := inner.(type) {
	case ArrayType:
		return t.Size.Constant != nil
	case StructType:
		if len(t.Members) == 0 {
			return true
		}
		last := t.Members[len(t.Members)-1]
		if int(last.Type) >= len(module.Types) {
			return false
		}
		return IsSized(module, module.Types[last.Type].Inner)
	default:
		return true
	}
}
