// Package frontmatter handles YAML front matter (`---` delimited) on
// generated and inspected Markdown pages.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates an opening `---` without a matching close.
var ErrMissingClosingDelimiter = errors.New("front matter: missing closing delimiter")

var delim = []byte("---\n")

// Split separates YAML front matter from the Markdown body.
//
// If the document does not start with a front matter delimiter, had is false
// and body is the full input.
func Split(content []byte) (fm []byte, body []byte, had bool, err error) {
	if !bytes.HasPrefix(content, delim) {
		return nil, content, false, nil
	}

	rest := content[len(delim):]
	if bytes.HasPrefix(rest, delim) {
		return []byte{}, rest[len(delim):], true, nil
	}

	idx := bytes.Index(rest, []byte("\n---\n"))
	if idx < 0 {
		return nil, nil, false, ErrMissingClosingDelimiter
	}
	return rest[:idx+1], rest[idx+len("\n---\n"):], true, nil
}

// Parse decodes raw front matter (without delimiters) into a map.
func Parse(fm []byte) (map[string]any, error) {
	if len(fm) == 0 {
		return map[string]any{}, nil
	}
	var fields map[string]any
	if err := yaml.Unmarshal(fm, &fields); err != nil {
		return nil, fmt.Errorf("parse front matter: %w", err)
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// Compose emits a document with the given fields as YAML front matter
// followed by the body.
//
// Field order within the YAML block follows key sort order so repeated builds
// produce byte-identical output.
func Compose(fields map[string]any, body string) ([]byte, error) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ordered := yaml.Node{Kind: yaml.MappingNode}
	for _, k := range keys {
		var key, val yaml.Node
		key.SetString(k)
		if err := val.Encode(fields[k]); err != nil {
			return nil, fmt.Errorf("encode front matter field %q: %w", k, err)
		}
		ordered.Content = append(ordered.Content, &key, &val)
	}

	data, err := yaml.Marshal(&ordered)
	if err != nil {
		return nil, fmt.Errorf("marshal front matter: %w", err)
	}

	var buf bytes.Buffer
	buf.Write(delim)
	buf.Write(data)
	buf.Write(delim)
	buf.WriteByte('\n')
	buf.WriteString(body)
	return buf.Bytes(), nil
}
