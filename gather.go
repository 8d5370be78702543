package aidl

import (
	"github.com/DennissimOS/platform-system-tools-aidl/ast"
	"github.com/DennissimOS/platform-system-tools-aidl/diagnostics"
)

// GatherTypes registers every declaration of doc in reg. Interfaces also
// register their synthesized ".Stub" and ".Stub.Proxy" companions. Conflicts
// are accumulated so one call reports every redefinition in doc.
func GatherTypes(reg *Registry, filename string, doc *ast.Document) error {
	g := &gatherer{reg: reg, filename: filename}
	for _, item := range doc.Items {
		g.gather(item)
	}
	return g.diags.Err()
}

type gatherer struct {
	reg      *Registry
	filename string
	diags    diagnostics.List
}

func (g *gatherer) Errorf(code diagnostics.Code, line int, format string, args ...interface{}) {
	g.diags.Addf(code, g.filename, line, format, args...)
}

func (g *gatherer) gather(item ast.Declaration) {
	var t *Type
	line := item.Pos().Line
	switch d := item.(type) {
	case *ast.Parcelable:
		t = NewType(d.Package, d.Name, KindParcelable, g.filename, line)
	case *ast.Interface:
		t = NewType(d.Package, d.Name, KindInterface, g.filename, line)
	default:
		g.Errorf(diagnostics.InvalidDocument, line, "internal error: unknown declaration %T", item)
		return
	}

	old := g.reg.Find(t.QualifiedName())
	if old == nil {
		_ = g.reg.Add(t)
		if t.Kind == KindInterface {
			g.addCompanion(NewType(t.Package, t.Name+".Stub", KindGeneratedStub, g.filename, line))
			g.addCompanion(NewType(t.Package, t.Name+".Stub.Proxy", KindGeneratedProxy, g.filename, line))
		}
		return
	}

	switch {
	case old.Kind == KindBuiltIn:
		g.Errorf(diagnostics.RedefinitionConflict, line, "attempt to redefine built in class %s", t.QualifiedName())
	case old.Kind != t.Kind:
		g.conflict(t, old)
	}
}

// addCompanion registers a synthesized companion. A dotted parcelable may
// already hold its name; that registration is kept and reported.
func (g *gatherer) addCompanion(t *Type) {
	if old := g.reg.Find(t.QualifiedName()); old != nil {
		g.conflict(t, old)
		return
	}
	_ = g.reg.Add(t)
}

func (g *gatherer) conflict(t, old *Type) {
	d := diagnostics.Newf(diagnostics.RedefinitionConflict, g.filename, t.DeclLine,
		"attempt to redefine %s as %s,", t.QualifiedName(), t.Kind)
	g.diags.Add(d.WithNote(old.DeclFile, old.DeclLine, "previously defined here as %s.", old.Kind))
}
