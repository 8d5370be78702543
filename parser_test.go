package aidl

import (
	"bytes"
	"testing"

	"github.com/DennissimOS/platform-system-tools-aidl/ast"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *ast.Document {
	t.Helper()
	doc, err := parseSource("test.aidl", []byte(src))
	require.NoError(t, err)
	return doc
}

func TestParser(t *testing.T) {
	doc, err := NewParser().ParseFile("fixtures/android/test/IFull.aidl")
	require.NoError(t, err)

	require.Equal(t, "android.test", doc.PackageName())
	require.Equal(t, []string{"android", "test"}, doc.Package.Components)
	require.Len(t, doc.Imports, 2)
	require.Equal(t, "android.test.Rect", doc.Imports[0].NeededClass)
	require.Equal(t, "fixtures/android/test/IFull.aidl", doc.Imports[0].From)

	ifaces := doc.Interfaces()
	require.Len(t, ifaces, 1)
	iface := ifaces[0]
	require.Equal(t, "IFull", iface.Name)
	require.Equal(t, "android.test.IFull", iface.QualifiedName())
	require.Equal(t, []string{"Reports progress back to the caller."}, iface.Comment)
	require.Len(t, iface.Methods, 6)

	get := iface.Methods[0]
	require.Equal(t, "getBounds", get.Name)
	require.Equal(t, "Rect", get.Return.String())
	require.Equal(t, []string{"Returns the current bounds."}, get.Comment)
	require.Same(t, iface, get.Interface)

	fill := iface.Methods[2]
	require.Equal(t, "int[]", fill.Return.String())
	require.Equal(t, "inout int[] values", fill.Args[0].Signature())
	require.Same(t, fill, fill.Args[0].Method)

	names := iface.Methods[3]
	require.Equal(t, "List<String>", names.Return.String())
	require.Len(t, names.Return.Args, 1)

	require.True(t, iface.Methods[4].Oneway)

	open := iface.Methods[5]
	require.Len(t, open.Args, 2)
	require.Equal(t, ast.DirectionUnspecified, open.Args[1].Direction)

	var buf bytes.Buffer
	require.NoError(t, ast.Fprint(&buf, doc))
	require.Contains(t, buf.String(), "IFull")
}

func TestParseMethodIDs(t *testing.T) {
	doc := mustParse(t, `interface IIds {
    void a() = 3;
    void b() = -1;
    void c();
}`)
	m := doc.Interfaces()[0].Methods
	require.Equal(t, "3", m[0].ID.Value)
	require.Equal(t, 2, m[0].ID.Position.Line)
	require.Equal(t, "-1", m[1].ID.Value)
	require.Nil(t, m[2].ID)
}

func TestParseTypes(t *testing.T) {
	doc := mustParse(t, `interface ITypes {
    Map<String,List<android.os.IBinder>> deep(in java.lang.String[][] grid);
}`)
	m := doc.Interfaces()[0].Methods[0]
	require.Equal(t, "Map<String,List<android.os.IBinder>>", m.Return.String())
	require.Equal(t, "android.os.IBinder", m.Return.Args[1].Args[0].Name)

	arg := m.Args[0].Type
	require.Equal(t, "java.lang.String", arg.Name)
	require.Equal(t, 2, arg.Dimension)
	require.True(t, arg.IsArray())
	require.Equal(t, "[][]", arg.ArraySuffix())
}

func TestParseParcelables(t *testing.T) {
	doc := mustParse(t, "package a.b;\nparcelable Foo;\nparcelable Foo.Inner;\n")
	require.Len(t, doc.Items, 2)
	require.Empty(t, doc.Interfaces())
	require.Equal(t, "a.b.Foo.Inner", doc.Items[1].QualifiedName())
	require.Equal(t, 3, doc.Items[1].Pos().Line)
}

func TestParseOnewayInterface(t *testing.T) {
	doc := mustParse(t, "oneway interface IListener { void onEvent(int code); };")
	iface := doc.Interfaces()[0]
	require.True(t, iface.Oneway)
	require.Equal(t, "", iface.Package)
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"empty":          "package a;",
		"missing semi":   "interface I { void f() }",
		"import after":   "interface I { }\nimport a.B;",
		"nested":         "interface I { parcelable P; }",
		"reserved arg":   "interface I { void f(in int out); }",
		"bad id":         "interface I { void f() = x; }",
		"unclosed":       "interface I { void f();",
		"package late":   "import a.B;\npackage a;\ninterface I {}",
		"stray token":    "; interface I {}",
		"unclosed angle": "interface I { List<String f(); }",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseSource("bad.aidl", []byte(src))
			require.Error(t, err)
			require.Contains(t, err.Error(), "bad.aidl: ")
		})
	}
}
