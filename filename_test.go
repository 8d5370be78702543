package aidl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/DennissimOS/platform-system-tools-aidl/diagnostics"
	"github.com/stretchr/testify/require"
)

func TestExpectedFilename(t *testing.T) {
	sep := string(filepath.Separator)
	require.Equal(t, "pkg"+sep+"sub"+sep+"Foo.aidl", ExpectedFilename("pkg.sub", "Foo"))
	require.Equal(t, "a"+sep+"Outer.aidl", ExpectedFilename("a", "Outer.Inner"))
	require.Equal(t, "Foo.aidl", ExpectedFilename("", "Foo"))
}

func TestCheckFilename(t *testing.T) {
	require.True(t, CheckFilename("/src/pkg/sub/Foo.aidl", "pkg.sub", "Foo"))
	require.True(t, CheckFilename("/src/pkg/sub/Foo.aidl", "pkg.sub", "Foo.Inner"))
	require.False(t, CheckFilename("/src/pkg/sub/Foo.aidl", "pkg.sub", "Bar"))
	require.False(t, CheckFilename("/src/pkg/Foo.aidl", "pkg.sub", "Foo"))
	require.False(t, CheckFilename("Foo.aidl", "a.very.long.pkg", "Foo"))
}

func TestCheckFilenameRelative(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)
	// The working directory is the module root, so the fixture's relative
	// path resolves to an absolute path ending in android/test.
	require.True(t, CheckFilename("fixtures/android/test/IFull.aidl", "android.test", "IFull"))
	require.True(t, CheckFilename(filepath.Join(cwd, "fixtures", "Rect.aidl"), "", "Rect"))
}

func TestFilenameMatchesCase(t *testing.T) {
	require.True(t, filenameMatches("/src/Pkg/Foo.AIDL", "pkg/Foo.aidl", false))
	require.False(t, filenameMatches("/src/Pkg/Foo.AIDL", "pkg/Foo.aidl", true))
	require.True(t, filenameMatches(`C:\src\pkg\Foo.aidl`, "pkg/Foo.aidl", true))
}

func TestCheckFilenames(t *testing.T) {
	doc := mustParse(t, "package pkg.sub;\ninterface Bar {}")
	err := checkFilenames("/src/pkg/sub/Foo.aidl", doc)
	ds, ok := diagnostics.As(err)
	require.True(t, ok)
	require.Len(t, ds, 1)
	require.Equal(t, diagnostics.FilenamePackageMismatch, ds[0].Code)
	require.Equal(t, 2, ds[0].Line)
	require.Equal(t, "interface Bar should be declared in a file called "+ExpectedFilename("pkg.sub", "Bar")+".", ds[0].Message)

	require.NoError(t, checkFilenames("/src/pkg/sub/Bar.aidl", doc))
}
