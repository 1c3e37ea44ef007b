package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	front, body, found, err := Split([]byte("---\ntitle: A\n---\n# Body\n"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "title: A\n", string(front))
	assert.Equal(t, "# Body\n", string(body))
}

func TestSplit_NoFrontMatter(t *testing.T) {
	_, body, found, err := Split([]byte("# Title\n---\n"))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, "# Title\n---\n", string(body))
}

func TestSplit_Unterminated(t *testing.T) {
	_, _, found, err := Split([]byte("---\ntitle: A\n"))
	assert.True(t, found)
	assert.ErrorIs(t, err, ErrUnterminated)
}

func TestSplit_ClosingAtEOF(t *testing.T) {
	front, body, found, err := Split([]byte("---\ntitle: A\n---"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "title: A\n", string(front))
	assert.Empty(t, body)
}

func TestStrip(t *testing.T) {
	assert.Equal(t, "text\n", string(Strip([]byte("---\na: 1\n---\ntext\n"))))
	assert.Equal(t, "text\n", string(Strip([]byte("text\n"))))
}

func TestParse_NotMapping(t *testing.T) {
	_, err := Parse([]byte("- a\n- b\n"))
	assert.ErrorIs(t, err, ErrNotMapping)
}

func TestFields_PreservesOrder(t *testing.T) {
	f, err := Parse([]byte("title: Guide\nauthor: x\ntype: how-to\nweight: 3\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"title", "author", "type", "weight"}, f.Keys())

	assert.True(t, f.Delete("author"))
	assert.False(t, f.Delete("author"))

	out, err := f.Marshal(2)
	require.NoError(t, err)
	assert.Equal(t, "title: Guide\ntype: how-to\nweight: 3\n", string(out))
}

func TestFields_Strings(t *testing.T) {
	f, err := Parse([]byte("a: one\nb: [x, 2, y]\nc: 5\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"one"}, f.Strings("a"))
	assert.Equal(t, []string{"x", "y"}, f.Strings("b"))
	assert.Nil(t, f.Strings("c"))
	assert.Nil(t, f.Strings("missing"))
}

func TestFields_SetStrings(t *testing.T) {
	f, err := Parse([]byte("type: guide\ntitle: T\n"))
	require.NoError(t, err)
	f.SetStrings("type", []string{"how-to", "reference"})
	f.SetStrings("tags", []string{"a"})

	out, err := f.Marshal(2)
	require.NoError(t, err)
	assert.Equal(t, "type:\n  - how-to\n  - reference\ntitle: T\ntags:\n  - a\n", string(out))
}

func TestFields_TypedAccessors(t *testing.T) {
	f, err := Parse([]byte("title: Install\ndocs: DOCS-1\ntype: [guide]\n"))
	require.NoError(t, err)

	title, ok := f.Title()
	assert.True(t, ok)
	assert.Equal(t, "Install", title)
	id, ok := f.DocsID()
	assert.True(t, ok)
	assert.Equal(t, "DOCS-1", id)
	assert.Equal(t, []string{"guide"}, f.Types())
}

func TestDocument_RoundTrip(t *testing.T) {
	src := "---\ntitle: \"Quoted\"\nweight: 1\n---\nBody text\n"
	doc, err := ParseDocument([]byte(src))
	require.NoError(t, err)
	assert.True(t, doc.HasFrontMatter)

	out, err := doc.Bytes(2)
	require.NoError(t, err)
	assert.Equal(t, src, string(out))
}

func TestDocument_EmptyAfterDelete(t *testing.T) {
	doc, err := ParseDocument([]byte("---\nauthor: x\n---\nBody\n"))
	require.NoError(t, err)
	doc.Fields.Delete("author")

	out, err := doc.Bytes(2)
	require.NoError(t, err)
	assert.Equal(t, "---\n---\nBody\n", string(out))
}

func TestDocument_WithoutFrontMatter(t *testing.T) {
	doc, err := ParseDocument([]byte("Just text\n"))
	require.NoError(t, err)
	assert.False(t, doc.HasFrontMatter)

	out, err := doc.Bytes(2)
	require.NoError(t, err)
	assert.Equal(t, "Just text\n", string(out))
}
