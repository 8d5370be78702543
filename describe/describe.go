// Package describe renders a validated interface as a YAML descriptor. It is
// the reference Generator of the compiler and the format consumed by tooling
// that only needs the shape of an interface, not Java sources.
package describe

import (
	"io"

	"gopkg.in/yaml.v3"

	aidl "github.com/DennissimOS/platform-system-tools-aidl"
	"github.com/DennissimOS/platform-system-tools-aidl/ast"
)

type Descriptor struct {
	Source    string   `yaml:"source"`
	Package   string   `yaml:"package,omitempty"`
	Name      string   `yaml:"name"`
	Qualified string   `yaml:"qualified"`
	Oneway    bool     `yaml:"oneway,omitempty"`
	Imports   []string `yaml:"imports,omitempty"`
	Methods   []Method `yaml:"methods"`
}

type Method struct {
	Name      string     `yaml:"name"`
	ID        int        `yaml:"id"`
	Oneway    bool       `yaml:"oneway,omitempty"`
	Returns   Type       `yaml:"returns"`
	Arguments []Argument `yaml:"arguments,omitempty"`
}

type Argument struct {
	Name      string `yaml:"name"`
	Direction string `yaml:"direction"`
	Type      Type   `yaml:"type"`
}

type Type struct {
	Name      string `yaml:"name"`
	Qualified string `yaml:"qualified,omitempty"`
	Kind      string `yaml:"kind,omitempty"`
	Dimension int    `yaml:"dimension,omitempty"`
	Args      []Type `yaml:"args,omitempty"`
}

// Generator writes Descriptors. The zero value is ready to use.
type Generator struct {
	// Indent is the YAML indentation width, 2 when zero.
	Indent int
}

func (Generator) Extension() string { return "yaml" }

func (g Generator) Generate(unit *aidl.Unit, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	indent := g.Indent
	if indent == 0 {
		indent = 2
	}
	enc.SetIndent(indent)
	if err := enc.Encode(Describe(unit)); err != nil {
		return err
	}
	return enc.Close()
}

// Describe builds the descriptor of unit. Type names are resolved through the
// unit's registry; names the registry does not know are kept as written.
func Describe(unit *aidl.Unit) *Descriptor {
	iface := unit.Interface
	d := &Descriptor{
		Source:    unit.InputFile,
		Package:   iface.Package,
		Name:      iface.Name,
		Qualified: iface.QualifiedName(),
		Oneway:    iface.Oneway,
		Imports:   unit.ImportFiles(),
		Methods:   make([]Method, 0, len(iface.Methods)),
	}
	for _, m := range iface.Methods {
		d.Methods = append(d.Methods, describeMethod(unit.Registry, m))
	}
	return d
}

func describeMethod(reg *aidl.Registry, m *ast.Method) Method {
	out := Method{
		Name:    m.Name,
		ID:      m.AssignedID,
		Oneway:  m.Oneway,
		Returns: describeType(reg, m.Return),
	}
	for _, a := range m.Args {
		dir := a.Direction
		if dir == ast.DirectionUnspecified {
			dir = ast.DirectionIn
		}
		out.Arguments = append(out.Arguments, Argument{
			Name:      a.Name,
			Direction: dir.String(),
			Type:      describeType(reg, a.Type),
		})
	}
	return out
}

func describeType(reg *aidl.Registry, ref *ast.TypeRef) Type {
	t := Type{Name: ref.Name, Dimension: ref.Dimension}
	if resolved := reg.Search(ref.Name); resolved != nil {
		t.Qualified = resolved.QualifiedName()
		t.Kind = resolved.Kind.String()
	}
	for _, a := range ref.Args {
		t.Args = append(t.Args, describeType(reg, a))
	}
	return t
}
