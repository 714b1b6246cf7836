package parser

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/casbin/govaluate"

	"github.com/teranos/clad/clad/ast"
	"github.com/teranos/clad/clad/scanner"
	"github.com/teranos/clad/errors"
)

const numEntriesSuffix = "NumEntries"

// parseExpr reads a value up to (not including) one of the terminators at
// parenthesis depth zero. A lone number keeps its spelling; anything else is
// evaluated with govaluate and recorded as a symbolic expression.
// Inside an enum body, bare names resolve to that enum's earlier members.
func (f *fileParser) parseExpr(enum *ast.EnumDecl, terminators ...scanner.TokenType) (*ast.Literal, error) {
	start := f.peek()
	var toks []scanner.Token
	depth := 0
	for {
		tok := f.peek()
		if tok.Type == scanner.EOF {
			break
		}
		if depth == 0 && slices.Contains(terminators, tok.Type) {
			break
		}
		switch tok.Type {
		case scanner.OPEN_PAREN:
			depth++
		case scanner.CLOSE_PAREN:
			depth--
			if depth < 0 {
				return nil, f.errorf(tok, "Unbalanced ')'")
			}
		case scanner.SYMBOL, scanner.NUMBER, scanner.SCOPE,
			scanner.PLUS, scanner.MINUS, scanner.STAR, scanner.SLASH:
		default:
			return nil, f.errorf(tok, "Unexpected %s in expression", describe(tok))
		}
		toks = append(toks, f.next())
	}
	if len(toks) == 0 {
		return nil, f.errorf(start, "Expected a value, found %s", describe(start))
	}
	if depth != 0 {
		return nil, f.errorf(start, "Unbalanced '(' in expression")
	}

	// Plain and negated number literals
	if len(toks) == 1 && toks[0].Type == scanner.NUMBER {
		return f.number(toks[0])
	}
	if len(toks) == 2 && toks[0].Type == scanner.MINUS && toks[1].Type == scanner.NUMBER {
		lit, err := f.number(toks[1])
		if err != nil {
			return nil, err
		}
		lit.Text = "-" + lit.Text
		lit.Int = -lit.Int
		lit.Float = -lit.Float
		return lit, nil
	}

	return f.evaluate(enum, toks)
}

func (f *fileParser) number(tok scanner.Token) (*ast.Literal, error) {
	lit, err := numberLiteral(tok)
	if err != nil {
		return nil, f.errorf(tok, "%s", err.Error())
	}
	return lit, nil
}

// numberLiteral converts a NUMBER token, keeping hex, decimal and float apart
func numberLiteral(tok scanner.Token) (*ast.Literal, error) {
	text := tok.Text
	switch {
	case strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X"):
		v, err := strconv.ParseUint(text[2:], 16, 64)
		if err != nil || v > math.MaxInt64 {
			return nil, errors.Newf("Hex literal %s is out of range", text)
		}
		return &ast.Literal{Kind: ast.LiteralHex, Text: text, Int: int64(v), Float: float64(v)}, nil
	case strings.ContainsAny(text, ".fF"):
		v, err := strconv.ParseFloat(strings.TrimRight(text, "fF"), 64)
		if err != nil {
			return nil, errors.Newf("Malformed float literal %s", text)
		}
		return &ast.Literal{Kind: ast.LiteralFloat, Text: text, Float: v}, nil
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, errors.Newf("Integer literal %s is out of range", text)
	}
	return &ast.Literal{Kind: ast.LiteralDec, Text: text, Int: v, Float: float64(v)}, nil
}

// evaluate resolves the names in toks and computes the expression's value
func (f *fileParser) evaluate(enum *ast.EnumDecl, toks []scanner.Token) (*ast.Literal, error) {
	var text, expr strings.Builder
	params := map[string]interface{}{}

	for i := 0; i < len(toks); i++ {
		tok := toks[i]
		switch tok.Type {
		case scanner.SYMBOL, scanner.SCOPE:
			// Gather A::B::C into one name
			j := i
			if toks[j].Type == scanner.SCOPE {
				j++
			}
			if j >= len(toks) || toks[j].Type != scanner.SYMBOL {
				return nil, f.errorf(tok, "Expected a name after '::'")
			}
			parts := []string{toks[j].Text}
			for j+2 < len(toks) && toks[j+1].Type == scanner.SCOPE && toks[j+2].Type == scanner.SYMBOL {
				parts = append(parts, toks[j+2].Text)
				j += 2
			}
			name := strings.Join(parts, "::")

			value, err := f.symbolValue(enum, tok, name)
			if err != nil {
				return nil, err
			}
			param := fmt.Sprintf("v%d", len(params))
			params[param] = float64(value)
			text.WriteString(name)
			expr.WriteString(param)
			i = j

		case scanner.NUMBER:
			lit, err := f.number(tok)
			if err != nil {
				return nil, err
			}
			text.WriteString(tok.Text)
			expr.WriteString(strconv.FormatFloat(lit.Float, 'f', -1, 64))

		case scanner.PLUS, scanner.MINUS, scanner.STAR, scanner.SLASH:
			op := tok.Text
			if isBinary(toks, i) {
				op = " " + op + " "
			}
			text.WriteString(op)
			expr.WriteString(op)

		default:
			text.WriteString(tok.Text)
			expr.WriteString(tok.Text)
		}
	}

	expression, err := govaluate.NewEvaluableExpression(expr.String())
	if err != nil {
		return nil, f.errorf(toks[0], "Cannot parse expression %s: %v", text.String(), err)
	}
	result, err := expression.Evaluate(params)
	if err != nil {
		return nil, f.errorf(toks[0], "Cannot evaluate expression %s: %v", text.String(), err)
	}
	value, ok := result.(float64)
	if !ok || math.IsInf(value, 0) || math.IsNaN(value) {
		return nil, f.errorf(toks[0], "Expression %s does not evaluate to a number", text.String())
	}

	lit := &ast.Literal{Kind: ast.LiteralExpr, Text: text.String(), Int: int64(value), Float: value}
	if value != math.Trunc(value) {
		lit.Kind = ast.LiteralFloat
	}
	return lit, nil
}

// isBinary reports whether the operator at i has a left operand
func isBinary(toks []scanner.Token, i int) bool {
	if i == 0 {
		return false
	}
	switch toks[i-1].Type {
	case scanner.SYMBOL, scanner.NUMBER, scanner.CLOSE_PAREN:
		return true
	}
	return false
}

// symbolValue resolves an enum member (Color::Blue, or Blue inside Color's
// body) or an entry count (ColorNumEntries) to its integer value.
func (f *fileParser) symbolValue(enum *ast.EnumDecl, tok scanner.Token, name string) (int64, error) {
	if enum != nil {
		if m := enum.Member(name); m != nil {
			return m.Value, nil
		}
	}

	if stem, ok := strings.CutSuffix(name, numEntriesSuffix); ok && stem != "" {
		if d, ok := f.symbols.lookup(f.ns, stem).(*ast.EnumDecl); ok {
			return int64(len(d.Members)), nil
		}
	}

	if i := strings.LastIndex(name, "::"); i >= 0 {
		if d, ok := f.symbols.lookup(f.ns, name[:i]).(*ast.EnumDecl); ok {
			if m := d.Member(name[i+2:]); m != nil {
				return m.Value, nil
			}
			return 0, f.unresolvedf(tok, "%s is not a member of %s", name[i+2:], d.FullyQualifiedName())
		}
	}
	return 0, f.unresolvedf(tok, "Unknown symbol %s in expression", name)
}
