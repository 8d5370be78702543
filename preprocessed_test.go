package aidl

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DennissimOS/platform-system-tools-aidl/diagnostics"
	"github.com/stretchr/testify/require"
)

func TestLoadPreprocessed(t *testing.T) {
	reg := NewRegistry()
	src := `// generated
parcelable android.graphics.Rect;

interface android.app.IActivityManager;
parcelable Bare;
`
	require.NoError(t, LoadPreprocessed(reg, "framework.aidl", strings.NewReader(src)))

	rect := reg.Find("android.graphics.Rect")
	require.NotNil(t, rect)
	require.Equal(t, KindParcelable, rect.Kind)
	require.Equal(t, "framework.aidl", rect.DeclFile)
	require.Equal(t, 2, rect.DeclLine)

	am := reg.Find("android.app.IActivityManager")
	require.NotNil(t, am)
	require.Equal(t, KindInterface, am.Kind)
	require.Equal(t, 4, am.DeclLine)
	require.NotNil(t, reg.Find("android.app.IActivityManager.Stub"))

	require.NotNil(t, reg.Find("Bare"))
}

func TestLoadPreprocessedMalformed(t *testing.T) {
	reg := NewRegistry()
	src := "parcelable a.Good;\nenum a.Bad;\nparcelable a.Never;\n"
	err := LoadPreprocessed(reg, "pre.aidl", strings.NewReader(src))

	ds, ok := diagnostics.As(err)
	require.True(t, ok)
	require.Len(t, ds, 1)
	require.Equal(t, diagnostics.MalformedPreprocessedEntry, ds[0].Code)
	require.Equal(t, "pre.aidl:2 bad type in line: enum a.Bad;", ds[0].Error())
	require.NotNil(t, reg.Find("a.Good"))
	require.Nil(t, reg.Find("a.Never"))
}

func TestLoadPreprocessedRedefinition(t *testing.T) {
	reg := NewRegistry()
	src := "parcelable a.Foo;\ninterface a.Foo;\nparcelable java.lang.String;\n"
	err := LoadPreprocessed(reg, "pre.aidl", strings.NewReader(src))
	require.Equal(t, 2, diagnostics.Count(err))
	require.True(t, diagnostics.Has(err, diagnostics.RedefinitionConflict))
}

func TestLoadPreprocessedFileMissing(t *testing.T) {
	err := LoadPreprocessedFile(NewRegistry(), filepath.Join(t.TempDir(), "missing.aidl"))
	require.True(t, diagnostics.Has(err, diagnostics.PreprocessedFileUnreadable))
}

func TestParsePreprocessedLine(t *testing.T) {
	item, ok := parsePreprocessedLine("parcelable  a.b.C ;", 7)
	require.True(t, ok)
	require.Equal(t, "a.b.C", item.QualifiedName())
	require.Equal(t, 7, item.Pos().Line)

	for _, line := range []string{"parcelable", "parcelable ;", "struct a.B;", "parcelable a.;"} {
		_, ok := parsePreprocessedLine(line, 1)
		require.False(t, ok, line)
	}
}

func TestPreprocessRoundTrip(t *testing.T) {
	dir := t.TempDir()
	iface := filepath.Join(dir, "IFoo.aidl")
	parcel := filepath.Join(dir, "Bar.aidl")
	require.NoError(t, os.WriteFile(iface, []byte("package x.y;\ninterface IFoo { void f(); }"), 0o644))
	require.NoError(t, os.WriteFile(parcel, []byte("package x.y;\nparcelable Bar;\nparcelable Bar.Inner;"), 0o644))

	var out bytes.Buffer
	require.NoError(t, Preprocess(NewParser(), []string{iface, parcel}, &out))
	require.Equal(t, "interface x.y.IFoo;\nparcelable x.y.Bar;\nparcelable x.y.Bar.Inner;\n", out.String())

	reg := NewRegistry()
	require.NoError(t, LoadPreprocessed(reg, "pre.aidl", &out))
	require.Equal(t, KindInterface, reg.Find("x.y.IFoo").Kind)
	require.Equal(t, KindParcelable, reg.Find("x.y.Bar").Kind)
	// The last '.' splits package from name, so a nested parcelable comes
	// back under its outer type's qualified name.
	require.Equal(t, KindParcelable, reg.Find("x.y.Bar.Inner").Kind)
}

func TestPreprocessParseError(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "Bad.aidl")
	require.NoError(t, os.WriteFile(bad, []byte("interface {"), 0o644))

	var out bytes.Buffer
	require.Error(t, Preprocess(NewParser(), []string{bad}, &out))
	require.Empty(t, out.String())
}

func TestPreprocessNoDocument(t *testing.T) {
	var out bytes.Buffer
	var err error
	require.NotPanics(t, func() {
		err = Preprocess(emptyParser{}, []string{"IFoo.aidl"}, &out)
	})
	require.ErrorContains(t, err, "IFoo.aidl: parser returned no document")
	require.Empty(t, out.String())
}
