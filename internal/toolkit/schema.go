package toolkit

// Schema is a JSON Schema fragment describing an operation's parameters.
// It is metadata only: decoding happens through the typed request structs,
// never by interpreting the schema at runtime.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
}

// ObjectSchema creates a schema for an object with the given properties.
func ObjectSchema(desc string, props map[string]*Schema, required ...string) *Schema {
	return &Schema{
		Type:        "object",
		Description: desc,
		Properties:  props,
		Required:    required,
	}
}

// StringProp creates a schema for a string property.
func StringProp(desc string) *Schema {
	return &Schema{Type: "string", Description: desc}
}

// NumberProp creates a schema for a number property.
func NumberProp(desc string) *Schema {
	return &Schema{Type: "number", Description: desc}
}

// IntProp creates a schema for an integer property.
func IntProp(desc string) *Schema {
	return &Schema{Type: "integer", Description: desc}
}

// EnumProp creates a schema for a string enum property.
func EnumProp(desc string, values ...string) *Schema {
	return &Schema{Type: "string", Description: desc, Enum: values}
}

// ArrayProp creates a schema for an array property.
func ArrayProp(desc string, items *Schema) *Schema {
	return &Schema{Type: "array", Description: desc, Items: items}
}

// NumberArrayProp creates a schema for an array of numbers.
func NumberArrayProp(desc string) *Schema {
	return ArrayProp(desc, &Schema{Type: "number"})
}
