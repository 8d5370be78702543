package ast

import "strings"

type Position struct {
	Filename string
	Line     int
	Column   int
}

type Object interface {
	Kind() string
	Pos() *Position
}

// Document is the root of one parsed compilation unit. Items keeps declaration
// order, which later stages rely on for diagnostics.
type Document struct {
	Path    string
	Package *Package
	Imports []*Import
	Items   []Declaration
}

func (d *Document) PackageName() string {
	if d.Package == nil {
		return ""
	}
	return d.Package.Value
}

// Interfaces returns the interface declarations of d, in order.
func (d *Document) Interfaces() []*Interface {
	var out []*Interface
	for _, it := range d.Items {
		if i, ok := it.(*Interface); ok {
			out = append(out, i)
		}
	}
	return out
}

func (d *Document) AppendItem(item Declaration) {
	d.Items = append(d.Items, item)
}

type Package struct {
	Position   Position
	Value      string
	Components []string
}

func (p *Package) Kind() string   { return "Package" }
func (p *Package) Pos() *Position { return &p.Position }

// Import is a class referenced by an import statement. Filename and Document
// are filled by the import resolver, at most once.
type Import struct {
	Position    Position
	NeededClass string
	From        string
	Filename    string
	Document    *Document
}

func (i *Import) Kind() string   { return "Import" }
func (i *Import) Pos() *Position { return &i.Position }

func (i *Import) Resolved() bool { return i.Document != nil }

// Declaration is a top-level item of a Document: either an *Interface or a
// *Parcelable.
type Declaration interface {
	Object
	declaration()
	PackageName() string
	DeclName() string
	QualifiedName() string
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

type Parcelable struct {
	Position Position
	Comment  []string
	Package  string
	Name     string
}

func (*Parcelable) declaration()            {}
func (*Parcelable) Kind() string            { return "Parcelable" }
func (p *Parcelable) Pos() *Position        { return &p.Position }
func (p *Parcelable) PackageName() string   { return p.Package }
func (p *Parcelable) DeclName() string      { return p.Name }
func (p *Parcelable) QualifiedName() string { return qualify(p.Package, p.Name) }

type Interface struct {
	Position Position
	Comment  []string
	Package  string
	Name     string
	Oneway   bool
	Methods  []*Method
}

func (*Interface) declaration()            {}
func (*Interface) Kind() string            { return "Interface" }
func (i *Interface) Pos() *Position        { return &i.Position }
func (i *Interface) PackageName() string   { return i.Package }
func (i *Interface) DeclName() string      { return i.Name }
func (i *Interface) QualifiedName() string { return qualify(i.Package, i.Name) }

func (i *Interface) AppendMethod(m *Method) {
	m.Interface = i
	i.Methods = append(i.Methods, m)
}

// Literal is a raw token value kept with its position, so later stages can
// interpret it and report errors at the right line.
type Literal struct {
	Position Position
	Value    string
}

type Method struct {
	Position  Position
	Comment   []string
	Name      string
	Oneway    bool
	Return    *TypeRef
	Args      []*Argument
	ID        *Literal
	Interface *Interface

	// AssignedID is the transaction id given by the method id assigner.
	AssignedID int
}

func (*Method) Kind() string     { return "Method" }
func (m *Method) Pos() *Position { return &m.Position }

func (m *Method) HasUserID() bool { return m.ID != nil }

func (m *Method) AppendArg(a *Argument) {
	a.Method = m
	m.Args = append(m.Args, a)
}

func (m *Method) FQN() string {
	if m.Interface == nil {
		return m.Name
	}
	return m.Interface.QualifiedName() + "." + m.Name
}

type Direction int

const (
	DirectionUnspecified Direction = iota
	DirectionIn
	DirectionOut
	DirectionInOut
)

var directionAsString = map[Direction]string{
	DirectionUnspecified: "",
	DirectionIn:          "in",
	DirectionOut:         "out",
	DirectionInOut:       "inout",
}

func (d Direction) String() string { return directionAsString[d] }

// ParseDirection maps a direction keyword to its Direction.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "in":
		return DirectionIn, true
	case "out":
		return DirectionOut, true
	case "inout":
		return DirectionInOut, true
	}
	return DirectionUnspecified, false
}

type Argument struct {
	Position  Position
	Name      string
	Direction Direction
	Type      *TypeRef
	Method    *Method
}

func (*Argument) Kind() string     { return "Argument" }
func (a *Argument) Pos() *Position { return &a.Position }

// Signature renders the argument as it would appear in source, e.g.
// "inout int[] values".
func (a *Argument) Signature() string {
	parts := make([]string, 0, 3)
	if a.Direction != DirectionUnspecified {
		parts = append(parts, a.Direction.String())
	}
	parts = append(parts, a.Type.String(), a.Name)
	return strings.Join(parts, " ")
}
