package ast

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Fprint writes an indented outline of doc to w.
func Fprint(w io.Writer, doc *Document) error {
	p := printer{}
	p.print(doc)
	_, err := w.Write(p.b.Bytes())
	return err
}

type printer struct {
	b   bytes.Buffer
	lvl int
}

func (p *printer) inc() func() {
	p.lvl++
	return p.dec
}

func (p *printer) dec() { p.lvl-- }

func (p *printer) printf(format string, args ...interface{}) {
	p.b.WriteString(fmt.Sprintf("%s%s\n", strings.Repeat("  ", p.lvl), fmt.Sprintf(format, args...)))
}

func (p *printer) print(doc *Document) {
	p.printf("File: %s", doc.Path)
	defer p.inc()()
	p.printf("Package: %s", doc.PackageName())
	if len(doc.Imports) > 0 {
		p.printf("Imports:")
		p.printImports(doc.Imports)
	}
	for _, it := range doc.Items {
		switch v := it.(type) {
		case *Parcelable:
			p.printf("Parcelable: %s", v.Name)
			p.inc()
			p.printComments(v.Comment)
			p.dec()
		case *Interface:
			p.printInterface(v)
		}
	}
}

func (p *printer) printImports(imports []*Import) {
	defer p.inc()()
	for _, imp := range imports {
		if imp.Filename != "" {
			p.printf("- %s (%s)", imp.NeededClass, imp.Filename)
		} else {
			p.printf("- %s", imp.NeededClass)
		}
	}
}

func (p *printer) printComments(c []string) {
	if len(c) == 0 {
		return
	}
	p.printf("Comment:")
	{
		p.inc() // 2
		for _, v := range c {
			p.printf("- %s", v)
		}
		p.dec() // 2
	}
}

func (p *printer) printInterface(i *Interface) {
	if i.Oneway {
		p.printf("Interface: %s (oneway)", i.Name)
	} else {
		p.printf("Interface: %s", i.Name)
	}
	defer p.inc()()
	p.printComments(i.Comment)
	if len(i.Methods) == 0 {
		return
	}
	p.printf("Methods:")
	defer p.inc()()
	for _, m := range i.Methods {
		p.printMethod(m)
	}
}

func (p *printer) printMethod(m *Method) {
	p.printf("- Name: %s", m.Name)
	defer p.inc()()
	p.printComments(m.Comment)
	if m.Oneway {
		p.printf("Oneway: true")
	}
	if m.ID != nil {
		p.printf("ID: %s", m.ID.Value)
	}
	p.printf("Returns: %s", m.Return)
	if len(m.Args) > 0 {
		p.printf("Arguments:")
		p.printArguments(m.Args)
	}
}

func (p *printer) printArguments(args []*Argument) {
	defer p.inc()()
	for _, a := range args {
		p.printf("- %s", a.Signature())
	}
}
