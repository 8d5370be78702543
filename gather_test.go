package aidl

import (
	"testing"

	"github.com/DennissimOS/platform-system-tools-aidl/ast"
	"github.com/DennissimOS/platform-system-tools-aidl/diagnostics"
	"github.com/stretchr/testify/require"
)

func TestGatherInterface(t *testing.T) {
	reg := NewRegistry()
	doc := mustParse(t, "package a.b;\ninterface IFoo {}")
	require.NoError(t, GatherTypes(reg, "IFoo.aidl", doc))
	require.Equal(t, len(builtinTable)+3, reg.Len())

	iface := reg.Find("a.b.IFoo")
	require.NotNil(t, iface)
	require.Equal(t, KindInterface, iface.Kind)
	require.Equal(t, "IFoo.aidl", iface.DeclFile)
	require.Equal(t, 2, iface.DeclLine)
	require.Equal(t, KindGeneratedStub, reg.Find("a.b.IFoo.Stub").Kind)
	require.Equal(t, KindGeneratedProxy, reg.Find("a.b.IFoo.Stub.Proxy").Kind)
}

func TestGatherSameKindIsIdempotent(t *testing.T) {
	reg := NewRegistry()
	doc := mustParse(t, "package a;\nparcelable Foo;")
	require.NoError(t, GatherTypes(reg, "Foo.aidl", doc))
	require.NoError(t, GatherTypes(reg, "other/Foo.aidl", doc))
	require.Equal(t, len(builtinTable)+1, reg.Len())
	require.Equal(t, "Foo.aidl", reg.Find("a.Foo").DeclFile)
}

func TestGatherKindConflict(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, GatherTypes(reg, "Foo.aidl", mustParse(t, "package a;\n\nparcelable Foo;")))

	err := GatherTypes(reg, "IFoo.aidl", mustParse(t, "package a;\ninterface Foo {}"))
	ds, ok := diagnostics.As(err)
	require.True(t, ok)
	require.Len(t, ds, 1)
	require.Equal(t, diagnostics.RedefinitionConflict, ds[0].Code)
	require.Equal(t, "attempt to redefine a.Foo as interface,", ds[0].Message)
	require.Equal(t, []diagnostics.Note{{File: "Foo.aidl", Line: 3, Message: "previously defined here as parcelable."}}, ds[0].Notes)
	require.Equal(t, KindParcelable, reg.Find("a.Foo").Kind)
}

func TestGatherBuiltinRedefinition(t *testing.T) {
	for _, b := range builtinTable {
		t.Run(b.name, func(t *testing.T) {
			for _, decl := range []ast.Declaration{
				&ast.Parcelable{Position: ast.Position{Line: 1}, Package: b.pkg, Name: b.name},
				&ast.Interface{Position: ast.Position{Line: 1}, Package: b.pkg, Name: b.name},
			} {
				reg := NewRegistry()
				err := GatherTypes(reg, "Builtin.aidl", &ast.Document{Items: []ast.Declaration{decl}})
				require.Equal(t, 1, diagnostics.Count(err))
				require.True(t, diagnostics.Has(err, diagnostics.RedefinitionConflict))
				require.Contains(t, err.Error(), "attempt to redefine built in class "+qualifiedBuiltin(b))
				require.Equal(t, KindBuiltIn, reg.Find(qualifiedBuiltin(b)).Kind)
				require.Equal(t, len(builtinTable), reg.Len())
			}
		})
	}
}

func TestGatherAccumulates(t *testing.T) {
	reg := NewRegistry()
	doc := &ast.Document{Items: []ast.Declaration{
		&ast.Parcelable{Package: "java.lang", Name: "String"},
		&ast.Interface{Package: "java.util", Name: "List"},
		&ast.Parcelable{Package: "a", Name: "Fine"},
	}}
	err := GatherTypes(reg, "x.aidl", doc)
	require.Equal(t, 2, diagnostics.Count(err))
	require.NotNil(t, reg.Find("a.Fine"))
}

func TestGatherCompanionTaken(t *testing.T) {
	reg := NewRegistry()
	doc := &ast.Document{Items: []ast.Declaration{
		&ast.Parcelable{Position: ast.Position{Line: 2}, Package: "p", Name: "IFoo.Stub"},
		&ast.Interface{Position: ast.Position{Line: 3}, Package: "p", Name: "IFoo"},
	}}
	err := GatherTypes(reg, "IFoo.aidl", doc)

	ds, ok := diagnostics.As(err)
	require.True(t, ok)
	require.Len(t, ds, 1)
	require.Equal(t, diagnostics.RedefinitionConflict, ds[0].Code)
	require.Equal(t, 3, ds[0].Line)
	require.Equal(t, "attempt to redefine p.IFoo.Stub as generated stub,", ds[0].Message)
	require.Equal(t, []diagnostics.Note{{File: "IFoo.aidl", Line: 2, Message: "previously defined here as parcelable."}}, ds[0].Notes)

	require.Equal(t, KindParcelable, reg.Find("p.IFoo.Stub").Kind)
	require.Equal(t, KindInterface, reg.Find("p.IFoo").Kind)
	require.Equal(t, KindGeneratedProxy, reg.Find("p.IFoo.Stub.Proxy").Kind)
}
