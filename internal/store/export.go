package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ExportJSON writes the dataset to path as pretty-printed JSON. The
// export is lossless with respect to the source YAML: entry order and
// per-entry key order are preserved (including unknown keys), and
// Unicode content is written as-is, not escaped.
func (d *Dataset) ExportJSON(path string) error {
	data, err := d.JSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// JSON renders the dataset as indented JSON with a trailing newline.
func (d *Dataset) JSON() ([]byte, error) {
	var buf bytes.Buffer
	if d.root == nil {
		buf.WriteString("[]")
	} else if err := writeJSONNode(&buf, d.root, 0); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

const jsonIndent = "  "

func writeJSONNode(buf *bytes.Buffer, n *yaml.Node, depth int) error {
	switch n.Kind {
	case yaml.SequenceNode:
		if len(n.Content) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteString("[\n")
		for i, c := range n.Content {
			buf.WriteString(strings.Repeat(jsonIndent, depth+1))
			if err := writeJSONNode(buf, c, depth+1); err != nil {
				return err
			}
			if i < len(n.Content)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		buf.WriteString(strings.Repeat(jsonIndent, depth))
		buf.WriteByte(']')
		return nil

	case yaml.MappingNode:
		if len(n.Content) == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{\n")
		for i := 0; i+1 < len(n.Content); i += 2 {
			buf.WriteString(strings.Repeat(jsonIndent, depth+1))
			if err := writeJSONScalar(buf, n.Content[i].Value); err != nil {
				return err
			}
			buf.WriteString(": ")
			if err := writeJSONNode(buf, n.Content[i+1], depth+1); err != nil {
				return err
			}
			if i+2 < len(n.Content) {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		buf.WriteString(strings.Repeat(jsonIndent, depth))
		buf.WriteByte('}')
		return nil

	case yaml.AliasNode:
		if n.Alias != nil {
			return writeJSONNode(buf, n.Alias, depth)
		}
		buf.WriteString("null")
		return nil

	default:
		return writeJSONScalar(buf, nodeValue(n))
	}
}

// writeJSONScalar marshals a single scalar without HTML escaping, so
// link URLs and Unicode text survive the round trip untouched.
func writeJSONScalar(buf *bytes.Buffer, v any) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}
