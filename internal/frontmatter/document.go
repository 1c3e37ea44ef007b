package frontmatter

import (
	"bytes"
)

// Document is a Markdown file split into front matter and body
type Document struct {
	Fields         *Fields
	Body           []byte
	HasFrontMatter bool
}

// ParseDocument splits and decodes content. Files without front matter get
// empty Fields and HasFrontMatter false.
func ParseDocument(content []byte) (*Document, error) {
	front, body, found, err := Split(content)
	if err != nil {
		return nil, err
	}
	if !found {
		return &Document{Fields: NewFields(), Body: body}, nil
	}
	fields, err := Parse(front)
	if err != nil {
		return nil, err
	}
	return &Document{Fields: fields, Body: body, HasFrontMatter: true}, nil
}

// Bytes renders the document. A document that had front matter keeps a
// block even when all keys were removed.
func (d *Document) Bytes(indent int) ([]byte, error) {
	if !d.HasFrontMatter && d.Fields.Len() == 0 {
		return d.Body, nil
	}
	front, err := d.Fields.Marshal(indent)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString(delimiter + "\n")
	buf.Write(front)
	buf.WriteString(delimiter + "\n")
	buf.Write(d.Body)
	return buf.Bytes(), nil
}
