package frontmatter

import (
	"bytes"
	"errors"
)

const delimiter = "---"

var (
	// ErrUnterminated is returned when an opening delimiter has no closing one
	ErrUnterminated = errors.New("front matter block is not terminated")
	// ErrNotMapping is returned when the front matter is not a YAML mapping
	ErrNotMapping = errors.New("front matter is not a mapping")
)

// Split separates a leading front matter block from the body. found is false
// when content does not open with a delimiter line.
func Split(content []byte) (front, body []byte, found bool, err error) {
	content = bytes.TrimPrefix(content, []byte("\uFEFF"))
	first, rest, hasRest := cutLine(content)
	if !isDelimiter(first) {
		return nil, content, false, nil
	}
	if !hasRest {
		return nil, content, true, ErrUnterminated
	}

	offset := 0
	for {
		line, next, more := cutLine(rest[offset:])
		if isDelimiter(line) {
			front = rest[:offset]
			if more {
				body = next
			}
			return front, body, true, nil
		}
		if !more {
			return nil, content, true, ErrUnterminated
		}
		offset = len(rest) - len(next)
	}
}

// Strip returns content without its leading front matter block. Content with
// a malformed block is returned unchanged.
func Strip(content []byte) []byte {
	_, body, found, err := Split(content)
	if !found || err != nil {
		return content
	}
	return body
}

func cutLine(b []byte) (line, rest []byte, found bool) {
	i := bytes.IndexByte(b, '\n')
	if i < 0 {
		return b, nil, false
	}
	return b[:i], b[i+1:], true
}

func isDelimiter(line []byte) bool {
	return string(bytes.TrimRight(line, " \t\r")) == delimiter
}
