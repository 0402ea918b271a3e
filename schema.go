package typemock

// InterfaceSchema describes one extracted declaration.
type InterfaceSchema struct {
	Name   string         `json:"name"   yaml:"name"`
	Docs   string         `json:"docs"   yaml:"docs"`
	Fields []*FieldSchema `json:"fields" yaml:"fields"`
}

// FieldSchema describes one field of a declaration or of an inline object.
type FieldSchema struct {
	Name       string `json:"name"       yaml:"name"`
	Type       string `json:"type"       yaml:"type"`
	Docs       string `json:"docs"       yaml:"docs"`
	IsRequired bool   `json:"isRequired" yaml:"isRequired"`
	// Children is set only for inline object types with properties.
	Children []*FieldSchema `json:"children,omitempty" yaml:"children,omitempty"`
}

// FieldNames returns the names of s's top-level fields in order.
func (s *InterfaceSchema) FieldNames() []string {
	names := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		names = append(names, f.Name)
	}

	return names
}

// Field returns the top-level field with the given name, or nil.
func (s *InterfaceSchema) Field(name string) *FieldSchema {
	for _, f := range s.Fields {
		if f.Name == name {
			return f
		}
	}

	return nil
}

// Child returns the child field with the given name, or nil.
func (f *FieldSchema) Child(name string) *FieldSchema {
	for _, c := range f.Children {
		if c.Name == name {
			return c
		}
	}

	return nil
}
