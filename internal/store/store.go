package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	appLog "github.com/takagi171832/paper-readings/internal/log"
	"github.com/takagi171832/paper-readings/internal/model"
)

// allowedKeys is the schema of one dataset item. Anything else is an
// unknown key and only produces a warning.
var allowedKeys = map[string]bool{
	"title":    true,
	"category": true,
	"date":     true,
	"link":     true,
	"note":     true,
}

// Dataset is one loaded reading log. The raw decoded YAML is kept twice:
// as the node tree (for order-preserving lossless export) and as plain
// Go values (for validation). Entries is the typed view the rest of the
// pipeline consumes.
type Dataset struct {
	// root is the top-level sequence node, nil for an empty document.
	root *yaml.Node

	// Items mirrors the sequence as plain values, unknown keys included.
	Items []any

	Entries []model.Entry
}

// Load reads and parses a local dataset file.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML dataset payload. The top level must be a list;
// anything else is a structural error that fails the whole run. An empty
// document is a valid empty dataset.
//
// Scalars are kept as their source text rather than YAML-resolved values
// where it matters: an unquoted date like 2024-01-01 stays the string
// "2024-01-01" instead of becoming a timestamp.
func Parse(data []byte) (*Dataset, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return &Dataset{}, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.SequenceNode {
		return nil, errors.New("top-level YAML must be a list")
	}

	ds := &Dataset{root: root}
	for _, item := range root.Content {
		v := nodeValue(item)
		ds.Items = append(ds.Items, v)
		if m, ok := v.(map[string]any); ok {
			ds.Entries = append(ds.Entries, decodeEntry(m))
		}
		// Non-mapping items are reported by Validate; they have no
		// typed representation.
	}
	return ds, nil
}

// Open resolves the configured dataset location: an http(s) URL goes
// through the caching fetcher, anything else is a local file path.
func Open(ctx context.Context, location, cacheDir string) (*Dataset, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		body, fromCache, err := NewFetcher(cacheDir).Fetch(ctx, location)
		if err != nil {
			return nil, err
		}
		appLog.Info("remote dataset loaded", "url", location, "from_cache", fromCache)
		return Parse(body)
	}
	return Load(location)
}

// decodeEntry builds the typed entry from a raw mapping. Known fields
// that are not strings stay zero-valued; the validator reports them the
// same way as missing fields. Unknown keys are dropped here; the
// validator warns about them from the raw Items.
func decodeEntry(m map[string]any) model.Entry {
	var e model.Entry
	e.Title, _ = m["title"].(string)
	e.Category, _ = m["category"].(string)
	e.Date, _ = m["date"].(string)
	e.Link, _ = m["link"].(string)
	e.Note, _ = m["note"].(string)
	return e
}

// nodeValue converts a YAML node into a plain Go value. Strings and
// timestamp-shaped scalars keep their source text; only unambiguous
// ints, floats, bools and nulls are converted.
func nodeValue(n *yaml.Node) any {
	switch n.Kind {
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!null":
			return nil
		case "!!bool":
			b, err := strconv.ParseBool(strings.ToLower(n.Value))
			if err != nil {
				return n.Value
			}
			return b
		case "!!int":
			i, err := strconv.ParseInt(n.Value, 0, 64)
			if err != nil {
				return n.Value
			}
			return i
		case "!!float":
			f, err := strconv.ParseFloat(n.Value, 64)
			if err != nil {
				return n.Value
			}
			return f
		default:
			return n.Value
		}
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			out = append(out, nodeValue(c))
		}
		return out
	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			out[n.Content[i].Value] = nodeValue(n.Content[i+1])
		}
		return out
	case yaml.AliasNode:
		if n.Alias != nil {
			return nodeValue(n.Alias)
		}
	}
	return nil
}
