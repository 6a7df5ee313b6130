package aggregator

// FieldMapping maps a source field holding a user ID to the target field that receives
// the resolved profile.
type FieldMapping map[string]string

// Config describes how one level of a document is enriched. Nested, when nil, means the
// children under NestedArrayField use this same Config, which is what self-similar trees
// such as comment threads need.
type Config struct {
	Fields           FieldMapping
	NestedArrayField string
	Nested           *Config
}

func (c *Config) child() *Config {
	if c.Nested != nil {
		return c.Nested
	}
	return c
}

func (c *Config) flat() *Config {
	if c == nil {
		return nil
	}
	return &Config{Fields: c.Fields}
}
