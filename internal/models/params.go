package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParamKey is one of the fixed keys allowed in a Params bag
type ParamKey string

const (
	ParamAuthors              ParamKey = "authors"
	ParamSubjects             ParamKey = "subjects"
	ParamPublishers           ParamKey = "publishers"
	ParamOpenLibraryEditionID ParamKey = "openlibraryEditionId"
	ParamOpenLibraryWorkID    ParamKey = "openlibraryWorkId"
	ParamOpenLibraryAuthorID  ParamKey = "openlibraryAuthorId"
	ParamOpenLibraryTagKey    ParamKey = "openlibraryTagKey"
)

// ParamKeys lists every known key in canonical order.
var ParamKeys = []ParamKey{
	ParamAuthors,
	ParamSubjects,
	ParamPublishers,
	ParamOpenLibraryEditionID,
	ParamOpenLibraryWorkID,
	ParamOpenLibraryAuthorID,
	ParamOpenLibraryTagKey,
}

type param struct {
	key   ParamKey
	value any // string or []string
}

// Params is an insertion-ordered bag of catalog specific fields.
// The zero value is empty and ready to use.
type Params struct {
	entries []param
}

// SetString stores a single string value
func (p *Params) SetString(key ParamKey, value string) {
	p.set(key, value)
}

// SetStrings stores a copy of a string list
func (p *Params) SetStrings(key ParamKey, values []string) {
	p.set(key, append([]string(nil), values...))
}

func (p *Params) set(key ParamKey, value any) {
	for i := range p.entries {
		if p.entries[i].key == key {
			p.entries[i].value = value
			return
		}
	}
	p.entries = append(p.entries, param{key: key, value: value})
}

// String returns a single string value
func (p Params) String(key ParamKey) (string, bool) {
	v, ok := p.get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Strings returns a string list value
func (p Params) Strings(key ParamKey) ([]string, bool) {
	v, ok := p.get(key)
	if !ok {
		return nil, false
	}
	s, ok := v.([]string)
	return s, ok
}

func (p Params) get(key ParamKey) (any, bool) {
	for _, e := range p.entries {
		if e.key == key {
			return e.value, true
		}
	}
	return nil, false
}

// Keys returns the keys in insertion order
func (p Params) Keys() []ParamKey {
	keys := make([]ParamKey, 0, len(p.entries))
	for _, e := range p.entries {
		keys = append(keys, e.key)
	}
	return keys
}

func (p Params) Len() int { return len(p.entries) }

func (p Params) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range p.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(e.key))
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(e.value)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal param %s: %w", e.key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (p *Params) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode params: %w", err)
	}

	p.entries = nil
	// Map iteration order is random; rebuild in canonical key order.
	for _, key := range ParamKeys {
		value, ok := raw[string(key)]
		if !ok {
			continue
		}
		var list []string
		if err := json.Unmarshal(value, &list); err == nil {
			p.SetStrings(key, list)
			continue
		}
		var text string
		if err := json.Unmarshal(value, &text); err != nil {
			return fmt.Errorf("param %s must be a string or a list of strings: %w", key, err)
		}
		p.SetString(key, text)
	}
	return nil
}

func (p Params) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range p.entries {
		var value yaml.Node
		if err := value.Encode(e.value); err != nil {
			return nil, fmt.Errorf("failed to encode param %s: %w", e.key, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(e.key)},
			&value,
		)
	}
	return node, nil
}
