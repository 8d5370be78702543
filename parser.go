package aidl

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/DennissimOS/platform-system-tools-aidl/ast"
)

// Parser turns a source file into a Document. The frontend never builds
// documents itself; it always goes through a Parser.
type Parser interface {
	ParseFile(path string) (*ast.Document, error)
}

// NewParser returns the built-in AIDL parser.
func NewParser() Parser {
	return fileParser{}
}

type fileParser struct{}

func (fileParser) ParseFile(path string) (*ast.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseSource(path, data)
}

func parseSource(path string, data []byte) (*ast.Document, error) {
	tokens, errs := lexFile(path, data, nil)
	if errs != nil {
		return nil, errors.Join(errs...)
	}
	doc, errs := parse(path, tokens, nil)
	if errs != nil {
		return nil, errors.Join(errs...)
	}
	return doc, nil
}

var reservedNames = map[string]struct{}{
	"package":    {},
	"import":     {},
	"parcelable": {},
	"interface":  {},
	"oneway":     {},
	"in":         {},
	"out":        {},
	"inout":      {},
}

func parse(filepath string, tokens []token, onError func(error)) (*ast.Document, []error) {
	var errors []error
	p := parser{
		tokens: tokens,
		length: len(tokens),
		onError: func(err error) {
			if filepath != "" {
				err = fmt.Errorf("%s: %w", filepath, err)
			}
			errors = append(errors, err)
			if onError != nil {
				onError(err)
			}
		},
		doc: ast.Document{
			Path:    filepath,
			Package: &ast.Package{},
		},
	}
	p.parse()
	if len(errors) > 0 {
		return nil, errors
	}
	return &p.doc, nil
}

type parser struct {
	tokens   []token
	pos      int
	length   int
	doc      ast.Document
	comments []token
	onError  func(error)
}

func (p *parser) tokenPos(t *token) ast.Position {
	return ast.Position{
		Filename: p.doc.Path,
		Line:     t.Line,
		Column:   t.Column,
	}
}

func (p *parser) errorf(format string, args ...interface{}) {
	p.onError(fmt.Errorf(format, args...))
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) advance() token {
	t := p.tokens[p.pos]
	if t.Type != tokenTypeEOF {
		p.pos++
	}
	return t
}

func (p *parser) eof() bool {
	return p.pos >= len(p.tokens) || p.peek().Type == tokenTypeEOF
}

func (p *parser) expect(expected tokenType) *token {
	pk := p.peek()
	if pk.Type != expected {
		p.errorf("Expected %s but got %s at line %d column %d", expected, pk.Type, pk.Line, pk.Column)
		return nil
	}
	p.advance()
	return &pk
}

func (p *parser) expectName(what string) *token {
	name := p.expect(tokenTypeIdentifier)
	if name == nil {
		return nil
	}
	if _, ok := reservedNames[name.Value]; ok {
		p.errorf("Unexpected %s at line %d, column %d, expected %s name", name.Value, name.Line, name.Column, what)
		return nil
	}
	return name
}

func (p *parser) consumeUntilSemiOrLinebreak() {
	currentLine := p.peek().Line
	for !p.eof() {
		if p.peek().Type == tokenTypeSemi {
			p.advance()
			break
		}
		if p.peek().Line != currentLine {
			break
		}
		p.advance()
	}
}

func (p *parser) skipComments() {
	for p.peek().Type == tokenTypeComment {
		p.advance()
	}
}

// parseQualifiedName reads Ident ('.' Ident)* and returns its components.
func (p *parser) parseQualifiedName() (*token, []string) {
	first := p.expect(tokenTypeIdentifier)
	if first == nil {
		return nil, nil
	}
	components := []string{first.Value}
	for p.peek().Type == tokenTypePeriod {
		p.advance()
		next := p.expect(tokenTypeIdentifier)
		if next == nil {
			return nil, nil
		}
		components = append(components, next.Value)
	}
	return first, components
}

func (p *parser) parse() {
	p.parseComments()
	p.comments = nil
	if pk := p.peek(); pk.Type == tokenTypeIdentifier && pk.Value == "package" {
		p.parsePackage()
	}

	for !p.eof() {
		switch p.peek().Type {
		case tokenTypeComment:
			p.parseComments()
		case tokenTypeIdentifier:
			p.parseRootItem()
		default:
			pk := p.peek()
			p.errorf("Unexpected %s at line %d, column %d; expected import, parcelable, or interface", pk.Type, pk.Line, pk.Column)
			p.advance()
			p.consumeUntilSemiOrLinebreak()
		}
	}

	if len(p.doc.Items) == 0 {
		p.errorf("No parcelable or interface declared")
	}
}

func (p *parser) parsePackage() {
	pkg := p.advance() // Consume "package"
	_, components := p.parseQualifiedName()
	if components == nil {
		p.consumeUntilSemiOrLinebreak()
		return
	}
	if p.expect(tokenTypeSemi) == nil {
		p.consumeUntilSemiOrLinebreak()
		return
	}
	p.doc.Package.Position = p.tokenPos(&pkg)
	p.doc.Package.Components = components
	p.doc.Package.Value = strings.Join(components, ".")
}

func (p *parser) parseComments() {
	p.comments = []token{}
	var lastComment token
	for p.peek().Type == tokenTypeComment {
		if lastComment.Type != tokenTypeInvalid && p.peek().Line-lastComment.Line > 1+strings.Count(lastComment.Value, "\n") {
			p.comments = []token{}
		}
		lastComment = p.advance()
		p.comments = append(p.comments, lastComment)
	}
}

func (p *parser) takeComments() []string {
	c := p.comments
	p.comments = []token{}
	// Javadoc comments keep their leading '*' in the token.
	return mapFn(c, func(t token) string {
		return strings.TrimSpace(strings.TrimPrefix(t.Value, "*"))
	})
}

func mapFn[T any, C []T, U any](c C, fn func(T) U) []U {
	result := make([]U, len(c))
	for i, u := range c {
		result[i] = fn(u)
	}
	return result
}

func (p *parser) parseRootItem() {
	pk := p.peek()
	switch pk.Value {
	case "import":
		if len(p.doc.Items) > 0 {
			p.errorf("Unexpected import at line %d, column %d; imports must precede declarations", pk.Line, pk.Column)
		}
		if imp := p.parseImport(); imp != nil {
			p.doc.Imports = append(p.doc.Imports, imp)
		}
	case "package":
		p.errorf("Unexpected package at line %d, column %d; package must be the first statement", pk.Line, pk.Column)
		p.advance()
		p.consumeUntilSemiOrLinebreak()
	case "parcelable":
		if parcel := p.parseParcelable(); parcel != nil {
			p.doc.AppendItem(parcel)
		}
	case "oneway", "interface":
		if iface := p.parseInterface(); iface != nil {
			p.doc.AppendItem(iface)
		}
	default:
		p.errorf("Unexpected %s at line %d, column %d; expected import, parcelable, or interface", pk.Value, pk.Line, pk.Column)
		p.advance()
		p.consumeUntilSemiOrLinebreak()
	}
}

func (p *parser) parseImport() *ast.Import {
	tk := p.advance() // Consume "import"
	_, components := p.parseQualifiedName()
	if components == nil {
		p.consumeUntilSemiOrLinebreak()
		return nil
	}
	if p.expect(tokenTypeSemi) == nil {
		p.consumeUntilSemiOrLinebreak()
		return nil
	}
	p.comments = nil
	return &ast.Import{
		Position:    p.tokenPos(&tk),
		NeededClass: strings.Join(components, "."),
		From:        p.doc.Path,
	}
}

func (p *parser) parseParcelable() *ast.Parcelable {
	p.advance() // Consume "parcelable"
	comments := p.takeComments()
	name, components := p.parseQualifiedName()
	if name == nil {
		p.consumeUntilSemiOrLinebreak()
		return nil
	}
	if _, ok := reservedNames[components[0]]; ok {
		p.errorf("Unexpected %s at line %d, column %d, expected parcelable name", name.Value, name.Line, name.Column)
	}
	if p.expect(tokenTypeSemi) == nil {
		p.consumeUntilSemiOrLinebreak()
		return nil
	}
	return &ast.Parcelable{
		Position: p.tokenPos(name),
		Comment:  comments,
		Package:  p.doc.PackageName(),
		Name:     strings.Join(components, "."),
	}
}

func (p *parser) parseInterface() *ast.Interface {
	iface := &ast.Interface{
		Comment: p.takeComments(),
		Package: p.doc.PackageName(),
	}
	if p.peek().Value == "oneway" {
		p.advance()
		iface.Oneway = true
	}
	kw := p.peek()
	if kw.Type != tokenTypeIdentifier || kw.Value != "interface" {
		p.errorf("Expected interface but got %s at line %d, column %d", kw.Value, kw.Line, kw.Column)
		p.consumeUntilSemiOrLinebreak()
		return nil
	}
	p.advance()

	name := p.expectName("interface")
	if name == nil {
		p.consumeUntilSemiOrLinebreak()
		return nil
	}
	iface.Name = name.Value
	iface.Position = p.tokenPos(name)

	if p.expect(tokenTypeLeftCurly) == nil {
		p.consumeUntilSemiOrLinebreak()
		return iface
	}

loop:
	for !p.eof() {
		pk := p.peek()
		switch pk.Type {
		case tokenTypeIdentifier:
			switch pk.Value {
			case "interface", "parcelable":
				p.errorf("Invalid %s declaration at line %d, column %d: declarations cannot be nested inside interfaces", pk.Value, pk.Line, pk.Column)
				p.advance()
				p.consumeUntilSemiOrLinebreak()
			default:
				if m := p.parseMethod(); m != nil {
					iface.AppendMethod(m)
				}
			}
		case tokenTypeComment:
			p.parseComments()
		case tokenTypeRightCurly:
			break loop
		default:
			p.errorf("Unexpected %s at line %d, column %d, expected method declaration", pk.Type, pk.Line, pk.Column)
			p.advance()
			p.consumeUntilSemiOrLinebreak()
		}
	}

	p.expect(tokenTypeRightCurly)
	// A trailing semicolon after the closing brace is tolerated.
	if p.peek().Type == tokenTypeSemi {
		p.advance()
	}
	return iface
}

func (p *parser) parseMethod() *ast.Method {
	method := &ast.Method{Comment: p.takeComments()}
	if p.peek().Value == "oneway" {
		p.advance()
		method.Oneway = true
	}

	method.Return = p.parseType()
	if method.Return == nil {
		p.consumeUntilSemiOrLinebreak()
		return nil
	}

	name := p.expectName("method")
	if name == nil {
		p.consumeUntilSemiOrLinebreak()
		return nil
	}
	method.Name = name.Value
	method.Position = p.tokenPos(name)

	if p.expect(tokenTypeLeftParen) == nil {
		p.consumeUntilSemiOrLinebreak()
		return nil
	}
	p.skipComments()
	if p.peek().Type != tokenTypeRightParen {
		for _, arg := range p.parseArguments() {
			method.AppendArg(arg)
		}
	}
	if p.expect(tokenTypeRightParen) == nil {
		p.consumeUntilSemiOrLinebreak()
		return nil
	}

	if p.peek().Type == tokenTypeEqual {
		p.advance() // Consume =
		id := p.expect(tokenTypeNumber)
		if id == nil {
			p.consumeUntilSemiOrLinebreak()
			return nil
		}
		method.ID = &ast.Literal{Position: p.tokenPos(id), Value: id.Value}
	}

	if p.expect(tokenTypeSemi) == nil {
		p.consumeUntilSemiOrLinebreak()
		return nil
	}
	return method
}

func (p *parser) parseArguments() []*ast.Argument {
	var res []*ast.Argument
	if a := p.parseArgument(); a != nil {
		res = append(res, a)
	}
	p.skipComments()
	for p.peek().Type == tokenTypeComma {
		p.advance() // Consume comma
		if a := p.parseArgument(); a != nil {
			res = append(res, a)
		}
		p.skipComments()
	}
	return res
}

func (p *parser) parseArgument() *ast.Argument {
	arg := &ast.Argument{}
	p.skipComments()
	pk := p.peek()
	if dir, ok := ast.ParseDirection(pk.Value); ok && pk.Type == tokenTypeIdentifier {
		p.advance()
		arg.Direction = dir
	}
	arg.Type = p.parseType()
	if arg.Type == nil {
		return nil
	}
	name := p.expectName("parameter")
	if name == nil {
		return nil
	}
	arg.Name = name.Value
	arg.Position = p.tokenPos(name)
	return arg
}

func (p *parser) parseType() *ast.TypeRef {
	first, components := p.parseQualifiedName()
	if first == nil {
		return nil
	}
	if _, ok := reservedNames[components[0]]; ok {
		p.errorf("Unexpected %s at line %d, column %d, expected type", first.Value, first.Line, first.Column)
		return nil
	}
	t := &ast.TypeRef{
		Position: p.tokenPos(first),
		Name:     strings.Join(components, "."),
	}

	if p.peek().Type == tokenTypeLeftAngled {
		p.advance() // Consume <
		for {
			arg := p.parseType()
			if arg == nil {
				return nil
			}
			t.Args = append(t.Args, arg)
			if p.peek().Type != tokenTypeComma {
				break
			}
			p.advance()
		}
		if p.expect(tokenTypeRightAngled) == nil {
			return nil
		}
	}

	for p.peek().Type == tokenTypeLeftBracket {
		open := p.advance()
		if t.Dimension == 0 {
			t.ArrayPos = p.tokenPos(&open)
		}
		if p.expect(tokenTypeRightBracket) == nil {
			return nil
		}
		t.Dimension++
	}
	return t
}
