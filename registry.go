package aidl

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNilType is returned when a nil *Type is added to a Registry.
	ErrNilType = errors.New("aidl(registry): nil type")
	// ErrEmptyName is returned when a Type without a name is added.
	ErrEmptyName = errors.New("aidl(registry): empty type name")
	// ErrConflictingRegistration indicates an attempt to register a second
	// type under a qualified name that is already taken.
	ErrConflictingRegistration = errors.New("aidl(registry): conflicting type registration")
)

// TypeKind classifies every name usable in a method signature.
type TypeKind int

const (
	KindBuiltIn TypeKind = iota
	KindParcelable
	KindInterface
	KindGeneratedStub
	KindGeneratedProxy
)

var typeKindAsString = map[TypeKind]string{
	KindBuiltIn:        "built-in",
	KindParcelable:     "parcelable",
	KindInterface:      "interface",
	KindGeneratedStub:  "generated stub",
	KindGeneratedProxy: "generated proxy",
}

func (k TypeKind) String() string { return typeKindAsString[k] }

// Type describes a name that can appear in a signature. Types are immutable
// once added to a Registry.
type Type struct {
	Package  string
	Name     string
	Kind     TypeKind
	DeclFile string
	DeclLine int

	canWriteToParcel  bool
	canBeArray        bool
	canBeOutParameter bool
}

// NewType builds a user-level type of the given kind. The capability flags
// follow from the kind.
func NewType(pkg, name string, kind TypeKind, declFile string, declLine int) *Type {
	t := &Type{Package: pkg, Name: name, Kind: kind, DeclFile: declFile, DeclLine: declLine}
	switch kind {
	case KindParcelable:
		t.canWriteToParcel, t.canBeArray, t.canBeOutParameter = true, true, true
	case KindInterface:
		t.canWriteToParcel = true
	}
	return t
}

func (t *Type) QualifiedName() string {
	if t.Package == "" {
		return t.Name
	}
	return t.Package + "." + t.Name
}

func (t *Type) CanWriteToParcel() bool  { return t.canWriteToParcel }
func (t *Type) CanBeArray() bool        { return t.canBeArray }
func (t *Type) CanBeOutParameter() bool { return t.canBeOutParameter }

func (t *Type) String() string {
	return fmt.Sprintf("%s %s", t.Kind, t.QualifiedName())
}

// Registry maps qualified names to types for one compilation unit. It is
// insert-only and not safe for concurrent use; batch compilations give every
// unit its own Registry.
type Registry struct {
	types  map[string]*Type
	simple map[string]*Type
	order  []*Type
}

// NewRegistry returns a Registry seeded with the built-in types.
func NewRegistry() *Registry {
	r := &Registry{
		types:  make(map[string]*Type),
		simple: make(map[string]*Type),
	}
	for _, b := range builtinTypes() {
		// Built-in names are unique by construction.
		_ = r.Add(b)
	}
	return r
}

// Add inserts t. Re-adding the exact same *Type is a no-op; any other type
// under a taken qualified name is ErrConflictingRegistration.
func (r *Registry) Add(t *Type) error {
	if t == nil {
		return ErrNilType
	}
	if t.Name == "" {
		return ErrEmptyName
	}
	qn := t.QualifiedName()
	if old, ok := r.types[qn]; ok {
		if old == t {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrConflictingRegistration, qn)
	}
	r.types[qn] = t
	if _, ok := r.simple[t.Name]; !ok {
		r.simple[t.Name] = t
	}
	r.order = append(r.order, t)
	return nil
}

// Find looks up a qualified name exactly.
func (r *Registry) Find(qualifiedName string) *Type {
	return r.types[qualifiedName]
}

// Search resolves a name as written in a signature: generic arguments are
// ignored, then the qualified name is tried, then the simple name.
func (r *Registry) Search(name string) *Type {
	if i := strings.IndexByte(name, '<'); i >= 0 {
		name = name[:i]
	}
	name = strings.TrimSpace(name)
	if t := r.types[name]; t != nil {
		return t
	}
	return r.simple[name]
}

// Len returns the number of registered types, built-ins included.
func (r *Registry) Len() int { return len(r.order) }

// Types returns every registered type in insertion order.
func (r *Registry) Types() []*Type {
	return append([]*Type(nil), r.order...)
}
