package aidl

import (
	"github.com/DennissimOS/platform-system-tools-aidl/ast"
	"github.com/DennissimOS/platform-system-tools-aidl/diagnostics"
)

/*
	Validation runs once the registry holds every type the document can see:
	built-ins, preprocessed symbols, local declarations and resolved imports.
	Each method is checked on its own; a missing return type skips the rest of
	that method, a missing argument type skips only that argument.
*/

// CheckTypes validates every method of every interface in doc and rejects
// duplicate method names. Parcelable declarations carry nothing to check.
func CheckTypes(reg *Registry, filename string, doc *ast.Document) error {
	v := &validator{reg: reg, filename: filename}
	for _, iface := range doc.Interfaces() {
		v.checkInterface(iface)
	}
	return v.diags.Err()
}

// CheckMethod validates the return type and arguments of a single method.
func CheckMethod(reg *Registry, filename string, m *ast.Method) error {
	v := &validator{reg: reg, filename: filename}
	v.checkMethod(m)
	return v.diags.Err()
}

type validator struct {
	reg      *Registry
	filename string
	diags    diagnostics.List
}

func (v *validator) Errorf(code diagnostics.Code, line int, format string, args ...interface{}) {
	v.diags.Addf(code, v.filename, line, format, args...)
}

func (v *validator) checkInterface(iface *ast.Interface) {
	methods := make(map[string]*ast.Method)
	for _, m := range iface.Methods {
		v.checkMethod(m)

		if ex, ok := methods[m.Name]; ok {
			v.methodNameClash(m, ex)
			continue
		}
		methods[m.Name] = m
	}
}

func (v *validator) methodNameClash(m, ex *ast.Method) {
	d := diagnostics.Newf(diagnostics.DuplicateMethodName, v.filename, m.Position.Line,
		"attempt to redefine method %s,", m.Name)
	v.diags.Add(d.WithNote(v.filename, ex.Position.Line, "previously defined here."))
}

func (v *validator) checkMethod(m *ast.Method) {
	ret := m.Return
	returnType := v.reg.Search(ret.Name)
	if returnType == nil {
		v.Errorf(diagnostics.UnknownType, ret.Position.Line, "unknown return type %s", ret)
		return
	}
	v.checkGenericArgs(ret, "return type")

	if !returnType.CanWriteToParcel() {
		v.Errorf(diagnostics.UnmarshallableType, ret.Position.Line, "return type %s can't be marshalled.", ret)
	}
	if ret.Dimension > 0 && !returnType.CanBeArray() {
		v.Errorf(diagnostics.InvalidArrayUsage, ret.ArrayPos.Line, "return type %s can't be an array.", ret)
	}
	if ret.Dimension > 1 {
		v.Errorf(diagnostics.InvalidArrayUsage, ret.ArrayPos.Line, "return type %s only one dimensional arrays are supported", ret)
	}

	for i, arg := range m.Args {
		v.checkArgument(i+1, arg)
	}
}

func (v *validator) checkArgument(index int, arg *ast.Argument) {
	line := arg.Position.Line
	t := v.reg.Search(arg.Type.Name)
	if t == nil {
		v.Errorf(diagnostics.UnknownType, line, "parameter %s (%d) unknown type %s", arg.Name, index, arg.Type)
		return
	}
	v.checkGenericArgs(arg.Type, "parameter "+arg.Name)

	if !t.CanWriteToParcel() {
		v.Errorf(diagnostics.UnmarshallableType, line, "parameter %d: '%s %s' can't be marshalled.", index, arg.Type, arg.Name)
	}

	if arg.Direction == ast.DirectionUnspecified && (arg.Type.IsArray() || t.CanBeOutParameter()) {
		v.Errorf(diagnostics.AmbiguousDirection, line,
			"parameter %d: '%s %s' can be an out parameter, so you must declare it as in, out or inout.",
			index, arg.Type, arg.Name)
	}

	if arg.Direction != ast.DirectionIn && arg.Direction != ast.DirectionUnspecified &&
		!t.CanBeOutParameter() && !arg.Type.IsArray() {
		v.Errorf(diagnostics.InvalidDirectionForType, line, "parameter %d: '%s' can only be an in parameter.", index, arg.Signature())
	}

	if arg.Type.Dimension > 0 && !t.CanBeArray() {
		v.Errorf(diagnostics.InvalidArrayUsage, arg.Type.ArrayPos.Line, "parameter %d: '%s' can't be an array.", index, arg.Signature())
	}
	if arg.Type.Dimension > 1 {
		v.Errorf(diagnostics.InvalidArrayUsage, arg.Type.ArrayPos.Line, "parameter %d: '%s' only one dimensional arrays are supported", index, arg.Signature())
	}

	if isJavaKeyword(arg.Name) {
		v.Errorf(diagnostics.ReservedKeywordCollision, line, "parameter %d %s is named the same as a Java or aidl keyword", index, arg.Name)
	}
}

// checkGenericArgs requires every type argument of a container such as
// List<Foo> to resolve.
func (v *validator) checkGenericArgs(t *ast.TypeRef, what string) {
	for _, a := range t.Args {
		if v.reg.Search(a.Name) == nil {
			v.Errorf(diagnostics.UnknownType, a.Position.Line, "%s %s uses unknown type %s", what, t, a)
			continue
		}
		v.checkGenericArgs(a, what)
	}
}
