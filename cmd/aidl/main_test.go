package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := runWithArgs(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

var project = map[string]string{
	"src/p/IFoo.aidl": "package p;\nimport p.Bar;\ninterface IFoo {\n    Bar get();\n    void put(in Bar b);\n}\n",
	"src/p/Bar.aidl":  "package p;\nparcelable Bar;\n",
	"src/p/IBad.aidl": "package p;\nimport p.Bar;\ninterface IBad {\n    void put(Bar b);\n    Missing get();\n}\n",
}

func TestCompile(t *testing.T) {
	root := writeFiles(t, project)
	out := filepath.Join(root, "gen")
	dep := filepath.Join(root, "IFoo.d")

	code, _, stderr := runCLI(t,
		"-config", filepath.Join(root, "missing.toml"),
		"-I", filepath.Join(root, "src"),
		"-o", out,
		"-d", dep,
		filepath.Join(root, "src", "p", "IFoo.aidl"),
	)
	require.Equal(t, 2, code, stderr)

	code, _, stderr = runCLI(t,
		"-I", filepath.Join(root, "src"),
		"-o", out,
		"-d", dep,
		filepath.Join(root, "src", "p", "IFoo.aidl"),
	)
	require.Equal(t, 0, code, stderr)

	data, err := os.ReadFile(filepath.Join(out, "p", "IFoo.yaml"))
	require.NoError(t, err)
	require.Contains(t, string(data), "qualified: p.IFoo")

	deps, err := os.ReadFile(dep)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(deps), filepath.Join(out, "p", "IFoo.yaml")+": \\\n"))
	require.Contains(t, string(deps), filepath.Join(root, "src", "p", "Bar.aidl"))
}

func TestCompileExplicitOutputAndAutoDep(t *testing.T) {
	root := writeFiles(t, project)
	out := filepath.Join(root, "IFoo.out")

	code, stdout, stderr := runCLI(t,
		"-I", filepath.Join(root, "src"),
		"-a", "-print-ast",
		filepath.Join(root, "src", "p", "IFoo.aidl"), out,
	)
	require.Equal(t, 0, code, stderr)
	require.Contains(t, stdout, "Interface: IFoo")
	require.FileExists(t, out)
	require.FileExists(t, out+".d")
}

func TestCompileDiagnostics(t *testing.T) {
	root := writeFiles(t, project)
	code, _, stderr := runCLI(t,
		"-I", filepath.Join(root, "src"),
		"-color", "never",
		"-o", filepath.Join(root, "gen"),
		filepath.Join(root, "src", "p", "IBad.aidl"),
	)
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "IBad.aidl:4 error: parameter 1: 'Bar b' can be an out parameter")
	require.Contains(t, stderr, "[unknown-type]")
	require.NoFileExists(t, filepath.Join(root, "gen", "p", "IBad.yaml"))
}

func TestPreprocess(t *testing.T) {
	root := writeFiles(t, project)
	out := filepath.Join(root, "pre", "framework.aidl")
	code, _, stderr := runCLI(t, "-preprocess", out,
		filepath.Join(root, "src", "p", "Bar.aidl"),
		filepath.Join(root, "src", "p", "IFoo.aidl"),
	)
	require.Equal(t, 0, code, stderr)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "parcelable p.Bar;\ninterface p.IFoo;\n", string(data))
}

func TestBatch(t *testing.T) {
	root := writeFiles(t, project)
	cfg := filepath.Join(root, "aidl.toml")
	require.NoError(t, os.WriteFile(cfg, []byte(`
import_paths = ["`+filepath.ToSlash(filepath.Join(root, "src"))+`"]
output_dir = "`+filepath.ToSlash(filepath.Join(root, "gen"))+`"

[batch]
exclude = ["**/IBad.aidl"]
`), 0o644))

	code, _, stderr := runCLI(t, "-config", cfg, "-batch", filepath.Join(root, "src"))
	require.Equal(t, 0, code, stderr)
	require.FileExists(t, filepath.Join(root, "gen", "p", "IFoo.yaml"))

	code, _, _ = runCLI(t, "-I", filepath.Join(root, "src"), "-o", filepath.Join(root, "gen"), "-batch", filepath.Join(root, "src"))
	require.Equal(t, 1, code)
}

func TestUsageErrors(t *testing.T) {
	cases := [][]string{
		{},
		{"a.aidl", "b", "c"},
		{"-preprocess", "out.aidl"},
		{"-batch"},
		{"-color", "sometimes", "a.aidl"},
		{"-unknown"},
	}
	for _, args := range cases {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			code, _, _ := runCLI(t, args...)
			require.Equal(t, 2, code)
		})
	}
}

func TestMissingInput(t *testing.T) {
	code, _, stderr := runCLI(t, filepath.Join(t.TempDir(), "IMissing.aidl"))
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "no such file")
}
