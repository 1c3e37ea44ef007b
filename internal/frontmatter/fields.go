package frontmatter

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"
)

// Fields is an ordered front matter mapping. Key order, comments and scalar
// styles survive a parse and marshal round trip.
type Fields struct {
	node *yaml.Node
}

// NewFields returns an empty mapping
func NewFields() *Fields {
	return &Fields{node: &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}}
}

// Parse decodes a YAML mapping. Blank input yields an empty mapping.
func Parse(front []byte) (*Fields, error) {
	if len(bytes.TrimSpace(front)) == 0 {
		return NewFields(), nil
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(front, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return NewFields(), nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, ErrNotMapping
	}
	return &Fields{node: root}, nil
}

// Len returns the number of keys
func (f *Fields) Len() int {
	return len(f.node.Content) / 2
}

// Keys returns the keys in document order
func (f *Fields) Keys() []string {
	keys := make([]string, 0, f.Len())
	for i := 0; i+1 < len(f.node.Content); i += 2 {
		keys = append(keys, f.node.Content[i].Value)
	}
	return keys
}

func (f *Fields) find(key string) int {
	for i := 0; i+1 < len(f.node.Content); i += 2 {
		if f.node.Content[i].Value == key {
			return i
		}
	}
	return -1
}

// Has reports whether key is present
func (f *Fields) Has(key string) bool {
	return f.find(key) >= 0
}

// Node returns the value node of key
func (f *Fields) Node(key string) (*yaml.Node, bool) {
	i := f.find(key)
	if i < 0 {
		return nil, false
	}
	return f.node.Content[i+1], true
}

// Delete removes key and reports whether it was present
func (f *Fields) Delete(key string) bool {
	i := f.find(key)
	if i < 0 {
		return false
	}
	f.node.Content = append(f.node.Content[:i], f.node.Content[i+2:]...)
	return true
}

// Decode decodes the value of key into out
func (f *Fields) Decode(key string, out interface{}) (bool, error) {
	n, ok := f.Node(key)
	if !ok {
		return false, nil
	}
	return true, n.Decode(out)
}

// String returns a scalar value
func (f *Fields) String(key string) (string, bool) {
	n, ok := f.Node(key)
	if !ok || n.Kind != yaml.ScalarNode || n.Tag == "!!null" {
		return "", false
	}
	return n.Value, true
}

// Strings returns a string scalar as a one-item list, or the string items of
// a sequence. Other values yield nil.
func (f *Fields) Strings(key string) []string {
	n, ok := f.Node(key)
	if !ok {
		return nil
	}
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!str" {
			return []string{n.Value}
		}
	case yaml.SequenceNode:
		var out []string
		for _, item := range n.Content {
			if item.Kind == yaml.ScalarNode && item.Tag == "!!str" {
				out = append(out, item.Value)
			}
		}
		return out
	}
	return nil
}

// SetStrings stores values as a block sequence, replacing an existing key in
// place or appending a new one
func (f *Fields) SetStrings(key string, values []string) {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, v := range values {
		seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v})
	}
	if i := f.find(key); i >= 0 {
		f.node.Content[i+1] = seq
		return
	}
	f.node.Content = append(f.node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		seq,
	)
}

// Title returns the title key
func (f *Fields) Title() (string, bool) {
	return f.String("title")
}

// DocsID returns the docs key holding the documentation id
func (f *Fields) DocsID() (string, bool) {
	return f.String("docs")
}

// Types returns the type key as a list
func (f *Fields) Types() []string {
	return f.Strings("type")
}

// Marshal encodes the mapping with the given indent width. An empty mapping
// encodes to nothing.
func (f *Fields) Marshal(indent int) ([]byte, error) {
	if f.Len() == 0 {
		return nil, nil
	}
	if indent <= 0 {
		indent = 2
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)
	if err := enc.Encode(f.node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	out := buf.Bytes()
	if !strings.HasSuffix(string(out), "\n") {
		out = append(out, '\n')
	}
	return out, nil
}
