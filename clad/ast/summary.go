package ast

// Summary is a serializable view of a declaration, used by "cladcpp ast"
type Summary struct {
	Kind     string          `yaml:"kind"`
	Name     string          `yaml:"name"`
	Coord    Coord           `yaml:"coord"`
	Hash     string          `yaml:"hash,omitempty"`
	Storage  string          `yaml:"storage,omitempty"`
	Sizes    *SizeSummary    `yaml:"sizes,omitempty"`
	Members  []MemberSummary `yaml:"members,omitempty"`
	Children []Summary       `yaml:"children,omitempty"`
}

// SizeSummary reports the wire-size bounds of a message or union
type SizeSummary struct {
	Min       int  `yaml:"min"`
	Max       int  `yaml:"max"`
	Fixed     bool `yaml:"fixed"`
	Alignment int  `yaml:"alignment"`
	AllValid  bool `yaml:"all_valid"`
}

// MemberSummary describes one member of an enum, message, union or enum concept
type MemberSummary struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type,omitempty"`
	Value string `yaml:"value,omitempty"`
	Tag   *int   `yaml:"tag,omitempty"`
}

// Summarize describes decls recursively; included files appear as children of their include
func Summarize(decls []Decl) []Summary {
	out := make([]Summary, 0, len(decls))
	for _, d := range decls {
		out = append(out, summarize(d))
	}
	return out
}

func summarize(d Decl) Summary {
	s := Summary{Kind: KindOf(d), Name: d.DeclName(), Coord: d.Pos()}
	if scoped, ok := d.(Scoped); ok {
		s.Name = scoped.FullyQualifiedName()
	}

	switch d := d.(type) {
	case *IncludeDecl:
		if d.File != nil {
			s.Children = Summarize(d.File.Decls)
		}
	case *NamespaceDecl:
		s.Children = Summarize(d.Decls)
	case *EnumDecl:
		s.Hash = d.HashStr
		s.Storage = d.StorageType.Name()
		for _, m := range d.Members {
			value := m.Initializer
			text := ""
			if value != nil {
				text = value.Text
			}
			if text == "" {
				text = formatInt(m.Value)
			}
			s.Members = append(s.Members, MemberSummary{Name: m.Name, Value: text})
		}
	case *MessageDecl:
		s.Hash = d.HashStr
		s.Sizes = sizesOf(d)
		for _, m := range d.Members {
			ms := MemberSummary{Name: m.Name, Type: m.Type.FullyQualifiedName()}
			if m.Init != nil {
				ms.Value = m.Init.Text
			}
			s.Members = append(s.Members, ms)
		}
	case *UnionDecl:
		s.Hash = d.HashStr
		if d.TagStorageType != nil {
			s.Storage = d.TagStorageType.Name()
		}
		s.Sizes = sizesOf(d)
		for _, m := range d.Members {
			tag := m.Tag
			s.Members = append(s.Members, MemberSummary{Name: m.Name, Type: m.Type.FullyQualifiedName(), Tag: &tag})
		}
	case *EnumConceptDecl:
		s.Hash = d.HashStr
		s.Storage = d.ReturnType.FullyQualifiedName()
		for _, m := range d.Members {
			s.Members = append(s.Members, MemberSummary{Name: m.Name, Type: d.Enum.FullyQualifiedName(), Value: m.Value.Text})
		}
	}
	return s
}

func sizesOf(c Compound) *SizeSummary {
	return &SizeSummary{
		Min:       c.MinMessageSize(),
		Max:       c.MaxMessageSize(),
		Fixed:     c.IsMessageSizeFixed(),
		Alignment: c.Alignment(),
		AllValid:  c.AreAllRepresentationsValid(),
	}
}
