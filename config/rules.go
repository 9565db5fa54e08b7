package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroachievements/legacy-redirector/redirector"
	"gopkg.in/yaml.v3"
)

// ErrInvalidRules is returned for rule files that do not have the
// expected shape.
var ErrInvalidRules = errors.New("config: invalid rules")

// LoadRules reads a redirect table from a YAML file.
func LoadRules(path string) (*redirector.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open rules: %w", err)
	}
	defer f.Close()

	return ParseRules(f)
}

// ParseRules decodes a redirect table. The document is a mapping from
// request path to either a target string or a mapping from query
// parameter to target, optionally nested under a "redirects" key:
//
//	redirects:
//	  /download.php: /downloads
//	  /gameList.php:
//	    c: /system/{c}/games
//	    "": /games
//
// Mapping order is kept, so the first listed parameter present in the
// query wins.
func ParseRules(r io.Reader) (*redirector.Table, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return redirector.NewTable(nil)
		}
		return nil, fmt.Errorf("config: decode rules: %w", err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}

	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return redirector.NewTable(nil)
	}

	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: expected a mapping", ErrInvalidRules, root.Line)
	}

	if len(root.Content) == 2 && root.Content[0].Value == "redirects" {
		root = root.Content[1]
		if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
			return redirector.NewTable(nil)
		}
		if root.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%w: line %d: redirects must be a mapping", ErrInvalidRules, root.Line)
		}
	}

	entries := make([]redirector.TableEntry, 0, len(root.Content)/2)

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]

		entry, err := decodeEntry(key, value)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	table, err := redirector.NewTable(entries)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return table, nil
}

func decodeEntry(key, value *yaml.Node) (redirector.TableEntry, error) {
	if key.Kind != yaml.ScalarNode {
		return redirector.TableEntry{}, fmt.Errorf("%w: line %d: path must be a string", ErrInvalidRules, key.Line)
	}

	entry := redirector.TableEntry{Path: key.Value}

	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			return redirector.TableEntry{}, fmt.Errorf("%w: line %d: %s: target is empty", ErrInvalidRules, value.Line, key.Value)
		}
		entry.Target = value.Value

	case yaml.MappingNode:
		for j := 0; j+1 < len(value.Content); j += 2 {
			param, target := value.Content[j], value.Content[j+1]

			if param.Kind != yaml.ScalarNode || target.Kind != yaml.ScalarNode {
				return redirector.TableEntry{}, fmt.Errorf("%w: line %d: %s: parameter targets must be strings", ErrInvalidRules, param.Line, key.Value)
			}

			name := param.Value
			if param.Tag == "!!null" {
				name = ""
			}

			entry.Params = append(entry.Params, redirector.ParamTarget{
				Param:  name,
				Target: target.Value,
			})
		}

	default:
		return redirector.TableEntry{}, fmt.Errorf("%w: line %d: %s: target must be a string or a mapping", ErrInvalidRules, value.Line, key.Value)
	}

	return entry, nil
}
