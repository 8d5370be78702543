package ast

import "strings"

// TypeRef is a type as written in a signature: a possibly qualified name,
// optional generic arguments and the number of array dimensions.
type TypeRef struct {
	Position  Position
	Name      string
	Args      []*TypeRef
	Dimension int
	// ArrayPos is the position of the first "[" when Dimension > 0.
	ArrayPos Position
}

func (*TypeRef) Kind() string     { return "Type" }
func (t *TypeRef) Pos() *Position { return &t.Position }

func (t *TypeRef) IsArray() bool { return t.Dimension > 0 }

// ElementName renders the type without array brackets, e.g. "List<Foo>".
func (t *TypeRef) ElementName() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return t.Name + "<" + strings.Join(args, ",") + ">"
}

// ArraySuffix returns the brackets of an array type, e.g. "[][]".
func (t *TypeRef) ArraySuffix() string {
	return strings.Repeat("[]", t.Dimension)
}

func (t *TypeRef) String() string {
	return t.ElementName() + t.ArraySuffix()
}
