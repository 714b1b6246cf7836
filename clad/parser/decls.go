package parser

import (
	"github.com/teranos/clad/clad/ast"
	"github.com/teranos/clad/clad/scanner"
	"github.com/teranos/clad/errors"
)

// parseDecls parses declarations until the closing token (EOF or '}')
func (f *fileParser) parseDecls(closing scanner.TokenType) ([]ast.Decl, error) {
	var decls []ast.Decl
	for {
		tok := f.peek()
		if tok.Type == closing {
			return decls, nil
		}
		if tok.Type == scanner.EOF {
			return nil, f.errorf(tok, "Unexpected end of file, expected '}'")
		}
		if tok.Type == scanner.SEMICOLON {
			f.next()
			continue
		}

		d, err := f.parseDecl()
		if err != nil {
			return nil, err
		}
		decls = append(decls, f.pending...)
		f.pending = nil
		decls = append(decls, d)
	}
}

func (f *fileParser) parseDecl() (ast.Decl, error) {
	tok := f.next()
	switch {
	case tok.Type == scanner.HASH:
		return f.parseInclude(tok)
	case tok.Is("namespace"):
		return f.parseNamespace(tok)
	case tok.Is("enum"):
		return f.parseEnum(tok)
	case tok.Is("message"), tok.Is("structure"):
		return f.parseMessage(tok)
	case tok.Is("union"):
		return f.parseUnion(tok)
	case tok.Is("enum_concept"):
		return f.parseEnumConcept(tok)
	}
	return nil, f.errorf(tok, "Expected a declaration, found %s", describe(tok))
}

func (f *fileParser) parseInclude(hash scanner.Token) (*ast.IncludeDecl, error) {
	kw := f.next()
	if !kw.Is("include") {
		return nil, f.errorf(kw, "Expected include after '#', found %s", describe(kw))
	}
	if f.ns != nil {
		return nil, f.errorf(hash, "#include must appear outside of any namespace")
	}
	name, err := f.expect(scanner.STRING, "a quoted file name")
	if err != nil {
		return nil, err
	}

	path, ok := f.p.resolveInclude(name.Text, f.dir)
	if !ok {
		return nil, errors.Mark(f.errorf(name, "Cannot find included file %q", name.Text), errors.ErrNotFound)
	}
	included, err := f.p.parseFile(path, f.coord(name))
	if err != nil {
		return nil, err
	}
	f.symbols.include(included.symbols)

	return &ast.IncludeDecl{Coord: f.coord(hash), Name: name.Text, File: included.list}, nil
}

func (f *fileParser) parseNamespace(kw scanner.Token) (*ast.NamespaceDecl, error) {
	name, err := f.expectIdent("a namespace name")
	if err != nil {
		return nil, err
	}
	ns := &ast.NamespaceDecl{Coord: f.coord(kw), Name: name.Text, Parent: f.ns}
	if _, err := f.expect(scanner.OPEN_BRACE, "'{'"); err != nil {
		return nil, err
	}

	outer := f.ns
	f.ns = ns
	decls, err := f.parseDecls(scanner.CLOSE_BRACE)
	f.ns = outer
	if err != nil {
		return nil, err
	}
	f.next() // '}'

	ns.Decls = decls
	return ns, nil
}

func (f *fileParser) parseEnumModifiers(d *ast.EnumDecl) {
	for {
		switch {
		case f.acceptKeyword("no_cpp_class"):
			d.CppClass = false
		case f.acceptKeyword("dupes_allowed"):
			d.DupesAllowed = true
		default:
			return
		}
	}
}

// parseEnum handles both "enum uint_8 Name {...}" and "enum Name : uint_8 {...}"
func (f *fileParser) parseEnum(kw scanner.Token) (*ast.EnumDecl, error) {
	d := &ast.EnumDecl{Coord: f.coord(kw), Namespace: f.ns, CppClass: true}
	f.parseEnumModifiers(d)

	var nameTok, storageTok scanner.Token
	first, err := f.expect(scanner.SYMBOL, "an enum storage type or name")
	if err != nil {
		return nil, err
	}
	if ast.IsBuiltin(first.Text) {
		storageTok = first
		if nameTok, err = f.expectIdent("an enum name"); err != nil {
			return nil, err
		}
	} else {
		nameTok = first
		if _, err := f.expect(scanner.COLON, "':' and a storage type"); err != nil {
			return nil, err
		}
		if storageTok, err = f.expect(scanner.SYMBOL, "an enum storage type"); err != nil {
			return nil, err
		}
	}
	f.parseEnumModifiers(d)

	storage, ok := ast.NewBuiltin(storageTok.Text, f.coord(storageTok))
	if !ok || (storage.Kind != ast.KindSigned && storage.Kind != ast.KindUnsigned) {
		return nil, f.errorf(storageTok, "Enum storage type must be an integer type, found %s", describe(storageTok))
	}
	d.Name = nameTok.Text
	d.StorageType = storage
	if err := f.declare(nameTok, d); err != nil {
		return nil, err
	}

	if _, err := f.expect(scanner.OPEN_BRACE, "'{'"); err != nil {
		return nil, err
	}
	next := int64(0)
	for !f.accept(scanner.CLOSE_BRACE) {
		memberTok, err := f.expectIdent("an enum member name")
		if err != nil {
			return nil, err
		}
		if prev := d.Member(memberTok.Text); prev != nil {
			return nil, f.errorf(memberTok, "%s::%s is already declared at %s", d.Name, memberTok.Text, prev.Coord)
		}

		m := &ast.EnumMember{Coord: f.coord(memberTok), Name: memberTok.Text, Value: next}
		if f.accept(scanner.EQUALS) {
			valueTok := f.peek()
			lit, err := f.parseExpr(d, scanner.COMMA, scanner.CLOSE_BRACE)
			if err != nil {
				return nil, err
			}
			if lit.Kind == ast.LiteralFloat {
				return nil, f.errorf(valueTok, "Enum values must be integers, found %s", lit.Text)
			}
			m.Initializer = lit
			m.Value = lit.Int
		}
		if !fits(storage, m.Value) {
			return nil, f.errorf(memberTok, "Value %d of %s::%s does not fit in %s", m.Value, d.Name, m.Name, storage.Name())
		}
		for _, earlier := range d.Members {
			if earlier.Value == m.Value {
				if !d.DupesAllowed {
					return nil, f.errorf(memberTok, "%s::%s has the same value (%d) as %s::%s",
						d.Name, m.Name, m.Value, d.Name, earlier.Name)
				}
				m.IsDuplicate = true
				break
			}
		}

		d.Members = append(d.Members, m)
		next = m.Value + 1
		if !f.accept(scanner.COMMA) {
			if _, err := f.expect(scanner.CLOSE_BRACE, "',' or '}'"); err != nil {
				return nil, err
			}
			break
		}
	}
	if len(d.Members) == 0 {
		return nil, f.errorf(nameTok, "Enum %s must have at least one member", d.Name)
	}

	d.HashStr = hashDecl(d)
	return d, nil
}

func fits(storage *ast.BuiltinType, v int64) bool {
	if v < 0 {
		return v >= storage.Min
	}
	return uint64(v) <= storage.Max
}

func (f *fileParser) parseMessage(kw scanner.Token) (*ast.MessageDecl, error) {
	nameTok, err := f.expectIdent("a " + kw.Text + " name")
	if err != nil {
		return nil, err
	}
	d := &ast.MessageDecl{
		Coord:              f.coord(kw),
		Name:               nameTok.Text,
		Namespace:          f.ns,
		ObjectType:         kw.Text,
		DefaultConstructor: true,
	}
	if f.acceptKeyword("no_default_constructor") {
		d.DefaultConstructor = false
	}
	if err := f.declare(nameTok, d); err != nil {
		return nil, err
	}

	if _, err := f.expect(scanner.OPEN_BRACE, "'{'"); err != nil {
		return nil, err
	}
	names := map[string]bool{}
	for !f.accept(scanner.CLOSE_BRACE) {
		m, nameTok, err := f.parseMessageMember()
		if err != nil {
			return nil, err
		}
		if names[m.Name] {
			return nil, f.errorf(nameTok, "%s::%s is already declared", d.Name, m.Name)
		}
		names[m.Name] = true
		d.Members = append(d.Members, m)

		if !f.accept(scanner.COMMA) {
			if _, err := f.expect(scanner.CLOSE_BRACE, "',' or '}'"); err != nil {
				return nil, err
			}
			break
		}
	}

	d.HashStr = hashDecl(d)
	return d, nil
}

func (f *fileParser) parseMessageMember() (*ast.MessageMemberDecl, scanner.Token, error) {
	typ, err := f.parseType()
	if err != nil {
		return nil, scanner.Token{}, err
	}
	nameTok, err := f.expectIdent("a member name")
	if err != nil {
		return nil, nameTok, err
	}
	if typ, err = f.parseArraySuffix(typ); err != nil {
		return nil, nameTok, err
	}

	m := &ast.MessageMemberDecl{Coord: f.coord(nameTok), Name: nameTok.Text, Type: typ}
	if eq := f.peek(); f.accept(scanner.EQUALS) {
		switch typ.(type) {
		case *ast.BuiltinType, *ast.DefinedType:
		default:
			return nil, nameTok, f.errorf(eq, "Only builtin and enum members can have an initializer")
		}
		if m.Init, err = f.parseInitializer(typ); err != nil {
			return nil, nameTok, err
		}
	}
	return m, nameTok, nil
}

func (f *fileParser) parseUnion(kw scanner.Token) (*ast.UnionDecl, error) {
	d := &ast.UnionDecl{
		Coord:          f.coord(kw),
		Namespace:      f.ns,
		TagStorageType: ast.MustBuiltin(ast.UnionTagStorage),
		InvalidTag:     ast.UnionInvalidTag,
	}
	if f.acceptKeyword("dupes_allowed") {
		d.DupesAllowed = true
	}
	nameTok, err := f.expectIdent("a union name")
	if err != nil {
		return nil, err
	}
	if f.acceptKeyword("dupes_allowed") {
		d.DupesAllowed = true
	}
	d.Name = nameTok.Text
	if err := f.declare(nameTok, d); err != nil {
		return nil, err
	}

	if _, err := f.expect(scanner.OPEN_BRACE, "'{'"); err != nil {
		return nil, err
	}
	next := 0
	tags := map[int]string{}
	names := map[string]bool{}
	for !f.accept(scanner.CLOSE_BRACE) {
		typ, err := f.parseType()
		if err != nil {
			return nil, err
		}
		memberTok, err := f.expectIdent("a union member name")
		if err != nil {
			return nil, err
		}
		if typ, err = f.parseArraySuffix(typ); err != nil {
			return nil, err
		}
		if names[memberTok.Text] {
			return nil, f.errorf(memberTok, "%s::%s is already declared", d.Name, memberTok.Text)
		}
		names[memberTok.Text] = true

		m := &ast.UnionMember{Coord: f.coord(memberTok), Name: memberTok.Text, Type: typ, Tag: next}
		if f.accept(scanner.EQUALS) {
			tagTok := f.peek()
			lit, err := f.parseExpr(nil, scanner.COMMA, scanner.CLOSE_BRACE)
			if err != nil {
				return nil, err
			}
			if lit.Kind != ast.LiteralDec && lit.Kind != ast.LiteralHex {
				return nil, f.errorf(tagTok, "Union tags must be integer literals, found %s", lit.Text)
			}
			m.Init = lit
			m.Tag = int(lit.Int)
		}
		if m.Tag < 0 || m.Tag >= d.InvalidTag {
			return nil, f.errorf(memberTok, "Tag %d of %s::%s is outside 0..%d", m.Tag, d.Name, m.Name, d.InvalidTag-1)
		}
		if other, ok := tags[m.Tag]; ok {
			return nil, f.errorf(memberTok, "%s::%s has the same tag (%d) as %s::%s", d.Name, m.Name, m.Tag, d.Name, other)
		}
		tags[m.Tag] = m.Name

		d.Members = append(d.Members, m)
		next = m.Tag + 1
		if !f.accept(scanner.COMMA) {
			if _, err := f.expect(scanner.CLOSE_BRACE, "',' or '}'"); err != nil {
				return nil, err
			}
			break
		}
	}

	markDuplicates(d)
	d.HashStr = hashDecl(d)
	return d, nil
}

// markDuplicates flags members whose value type is shared with another member
func markDuplicates(d *ast.UnionDecl) {
	counts := map[string]int{}
	for _, m := range d.Members {
		counts[shapeOf(m.Type)]++
	}
	for _, m := range d.Members {
		m.HasDuplicates = counts[shapeOf(m.Type)] > 1
	}
}

func (f *fileParser) parseEnumConcept(kw scanner.Token) (*ast.EnumConceptDecl, error) {
	returnType, err := f.parseType()
	if err != nil {
		return nil, err
	}
	nameTok, err := f.expectIdent("an enum_concept name")
	if err != nil {
		return nil, err
	}
	if _, err := f.expect(scanner.OPEN_BRACKET, "'[' and the enum the concept maps"); err != nil {
		return nil, err
	}
	enumTok := f.peek()
	enumName, err := f.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	enum, ok := f.symbols.lookup(f.ns, enumName).(*ast.EnumDecl)
	if !ok {
		return nil, f.unresolvedf(enumTok, "%s is not a declared enum", enumName)
	}
	if _, err := f.expect(scanner.CLOSE_BRACKET, "']'"); err != nil {
		return nil, err
	}

	d := &ast.EnumConceptDecl{
		Coord:      f.coord(kw),
		Name:       nameTok.Text,
		Namespace:  f.ns,
		Enum:       enum,
		ReturnType: returnType,
	}
	if err := f.declare(nameTok, d); err != nil {
		return nil, err
	}

	if _, err := f.expect(scanner.OPEN_BRACE, "'{'"); err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	for !f.accept(scanner.CLOSE_BRACE) {
		memberTok, err := f.expectIdent("an enum member name")
		if err != nil {
			return nil, err
		}
		if enum.Member(memberTok.Text) == nil {
			return nil, f.unresolvedf(memberTok, "%s is not a member of %s", memberTok.Text, enum.FullyQualifiedName())
		}
		if seen[memberTok.Text] {
			return nil, f.errorf(memberTok, "%s::%s is already mapped", d.Name, memberTok.Text)
		}
		seen[memberTok.Text] = true

		if _, err := f.expect(scanner.EQUALS, "'='"); err != nil {
			return nil, err
		}
		value, err := f.parseInitializer(returnType)
		if err != nil {
			return nil, err
		}
		d.Members = append(d.Members, &ast.EnumConceptMember{Coord: f.coord(memberTok), Name: memberTok.Text, Value: value})

		if !f.accept(scanner.COMMA) {
			if _, err := f.expect(scanner.CLOSE_BRACE, "',' or '}'"); err != nil {
				return nil, err
			}
			break
		}
	}

	d.HashStr = hashDecl(d)
	return d, nil
}
