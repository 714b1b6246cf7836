package parser

import (
	"strconv"
	"strings"

	"github.com/teranos/clad/clad/ast"
	"github.com/teranos/clad/clad/scanner"
)

// parseType parses a member type: a builtin, a string, a declared name, or an
// inline structure whose declaration is hoisted ahead of its user.
func (f *fileParser) parseType() (ast.Type, error) {
	tok := f.peek()
	switch {
	case tok.Is("string"):
		f.next()
		return f.parseStringSpec(tok)
	case tok.Is("structure"), tok.Is("message"):
		f.next()
		d, err := f.parseMessage(tok)
		if err != nil {
			return nil, err
		}
		f.pending = append(f.pending, d)
		return &ast.CompoundType{Coord: f.coord(tok), Decl: d}, nil
	case tok.Type == scanner.SYMBOL && ast.IsBuiltin(tok.Text):
		f.next()
		b, _ := ast.NewBuiltin(tok.Text, f.coord(tok))
		return b, nil
	case tok.Type != scanner.SYMBOL && tok.Type != scanner.SCOPE:
		f.next()
		return nil, f.errorf(tok, "Expected a type, found %s", describe(tok))
	}

	name, err := f.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	switch d := f.symbols.lookup(f.ns, name).(type) {
	case *ast.EnumDecl:
		return &ast.DefinedType{Coord: f.coord(tok), Decl: d}, nil
	case *ast.MessageDecl:
		return &ast.CompoundType{Coord: f.coord(tok), Decl: d}, nil
	case *ast.UnionDecl:
		return &ast.CompoundType{Coord: f.coord(tok), Decl: d}, nil
	case nil:
		return nil, f.unresolvedf(tok, "Unknown type %s", name)
	default:
		return nil, f.unresolvedf(tok, "%s is an %s, not a type", name, ast.KindOf(d))
	}
}

// parseQualifiedName reads Name or A::B::Name; a leading '::' is dropped
func (f *fileParser) parseQualifiedName() (string, error) {
	f.accept(scanner.SCOPE)
	first, err := f.expectIdent("a name")
	if err != nil {
		return "", err
	}
	parts := []string{first.Text}
	for f.peek().Type == scanner.SCOPE && f.peekAt(1).Type == scanner.SYMBOL {
		f.next()
		parts = append(parts, f.next().Text)
	}
	return strings.Join(parts, "::"), nil
}

// parseLengthType reads the builtin used as a length prefix
func (f *fileParser) parseLengthType() (*ast.BuiltinType, error) {
	tok, err := f.expect(scanner.SYMBOL, "a length type")
	if err != nil {
		return nil, err
	}
	b, ok := ast.NewBuiltin(tok.Text, f.coord(tok))
	if !ok || (b.Kind != ast.KindSigned && b.Kind != ast.KindUnsigned) {
		return nil, f.errorf(tok, "Length type must be an integer type, found %s", describe(tok))
	}
	return b, nil
}

// parseMaxLength reads the optional ":max" of a string or variable array
func (f *fileParser) parseMaxLength(lengthType *ast.BuiltinType) (int, bool, error) {
	if !f.accept(scanner.COLON) {
		return lengthType.MaxLength(), false, nil
	}
	tok, err := f.expect(scanner.NUMBER, "a maximum length")
	if err != nil {
		return 0, false, err
	}
	lit, err := numberLiteral(tok)
	if err != nil || lit.Kind == ast.LiteralFloat {
		return 0, false, f.errorf(tok, "Maximum length must be an integer, found %s", describe(tok))
	}
	if lit.Int > int64(lengthType.MaxLength()) {
		return 0, false, f.errorf(tok, "Maximum length %d does not fit in %s", lit.Int, lengthType.Name())
	}
	return int(lit.Int), true, nil
}

func (f *fileParser) parseStringSpec(kw scanner.Token) (ast.Type, error) {
	s := &ast.PascalStringType{Coord: f.coord(kw)}
	if !f.accept(scanner.OPEN_BRACKET) {
		s.LengthType, _ = ast.NewBuiltin("uint_8", f.coord(kw))
		s.MaxLength = s.LengthType.MaxLength()
		return s, nil
	}

	lengthType, err := f.parseLengthType()
	if err != nil {
		return nil, err
	}
	maxLength, _, err := f.parseMaxLength(lengthType)
	if err != nil {
		return nil, err
	}
	if _, err := f.expect(scanner.CLOSE_BRACKET, "']'"); err != nil {
		return nil, err
	}
	s.LengthType = lengthType
	s.MaxLength = maxLength
	return s, nil
}

// parseArraySuffix wraps elem in an array type when a '[' spec ']' follows the member name
func (f *fileParser) parseArraySuffix(elem ast.Type) (ast.Type, error) {
	open := f.peek()
	if !f.accept(scanner.OPEN_BRACKET) {
		return elem, nil
	}

	// A length type followed by ':' or ']' makes a variable array
	tok := f.peek()
	if tok.Type == scanner.SYMBOL && ast.IsBuiltin(tok.Text) {
		if after := f.peekAt(1).Type; after == scanner.COLON || after == scanner.CLOSE_BRACKET {
			lengthType, err := f.parseLengthType()
			if err != nil {
				return nil, err
			}
			maxLength, specified, err := f.parseMaxLength(lengthType)
			if err != nil {
				return nil, err
			}
			if _, err := f.expect(scanner.CLOSE_BRACKET, "']'"); err != nil {
				return nil, err
			}
			return &ast.VariableArrayType{
				Coord:                f.coord(open),
				MemberType:           elem,
				LengthType:           lengthType,
				MaxLength:            maxLength,
				MaxLengthIsSpecified: specified,
			}, nil
		}
	}

	lit, err := f.parseExpr(nil, scanner.CLOSE_BRACKET)
	if err != nil {
		return nil, err
	}
	f.next() // ']'
	if lit.Kind == ast.LiteralFloat || lit.Kind == ast.LiteralBool {
		return nil, f.errorf(tok, "Array length must be an integer, found %s", lit.Text)
	}
	if lit.Int < 0 {
		return nil, f.errorf(tok, "Array length must not be negative, found %s = %d", lit.Text, lit.Int)
	}

	length := lit.Text
	if lit.Kind != ast.LiteralExpr {
		length = strconv.FormatInt(lit.Int, 10)
	}
	return &ast.FixedArrayType{
		Coord:      f.coord(open),
		MemberType: elem,
		Length:     length,
		Count:      int(lit.Int),
		Symbolic:   lit.Kind == ast.LiteralExpr,
	}, nil
}

// parseInitializer reads a member initializer or enum-concept value of type typ
func (f *fileParser) parseInitializer(typ ast.Type) (*ast.Literal, error) {
	tok := f.peek()
	switch t := typ.(type) {
	case *ast.BuiltinType:
		switch {
		case t.Kind == ast.KindBool:
			f.next()
			if !tok.Is("true") && !tok.Is("false") {
				return nil, f.errorf(tok, "Expected true or false, found %s", describe(tok))
			}
			lit := &ast.Literal{Kind: ast.LiteralBool, Text: tok.Text}
			if tok.Is("true") {
				lit.Int = 1
			}
			return lit, nil
		case t.Kind == ast.KindFloat:
			lit, err := f.parseExpr(nil, scanner.COMMA, scanner.CLOSE_BRACE)
			if err != nil {
				return nil, err
			}
			if lit.Kind != ast.LiteralFloat {
				lit.Float = float64(lit.Int)
			}
			return lit, nil
		}
		lit, err := f.parseExpr(nil, scanner.COMMA, scanner.CLOSE_BRACE)
		if err != nil {
			return nil, err
		}
		if lit.Kind == ast.LiteralFloat {
			return nil, f.errorf(tok, "%s cannot hold %s", t.Name(), lit.Text)
		}
		if !fits(t, lit.Int) {
			return nil, f.errorf(tok, "Value %s does not fit in %s", lit.Text, t.Name())
		}
		return lit, nil

	case *ast.DefinedType:
		name, err := f.parseQualifiedName()
		if err != nil {
			return nil, err
		}
		member := name
		if i := strings.LastIndex(name, "::"); i >= 0 {
			member = name[i+2:]
		}
		m := t.Decl.Member(member)
		if m == nil {
			return nil, f.unresolvedf(tok, "%s is not a member of %s", member, t.Decl.FullyQualifiedName())
		}
		return &ast.Literal{Kind: ast.LiteralExpr, Text: t.Decl.FullyQualifiedName() + "::" + m.Name, Int: m.Value}, nil

	case *ast.PascalStringType:
		str, err := f.expect(scanner.STRING, "a quoted string")
		if err != nil {
			return nil, err
		}
		if len(str.Text) > t.MaxLength {
			return nil, f.errorf(str, "String of %d bytes exceeds the maximum length %d", len(str.Text), t.MaxLength)
		}
		return &ast.Literal{Kind: ast.LiteralExpr, Text: strconv.Quote(str.Text)}, nil
	}
	return nil, f.errorf(tok, "Members of type %s cannot have an initializer", typ.FullyQualifiedName())
}

// shapeOf identifies the C++ value type of a member type, for duplicate detection
func shapeOf(t ast.Type) string {
	switch t := t.(type) {
	case *ast.BuiltinType:
		return t.Name()
	case *ast.PascalStringType:
		return "string"
	case *ast.VariableArrayType:
		return "varray<" + shapeOf(t.MemberType) + ">"
	case *ast.FixedArrayType:
		return "farray<" + shapeOf(t.MemberType) + "," + t.Length + ">"
	}
	return t.FullyQualifiedName()
}
