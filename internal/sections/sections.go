// Package sections interprets the free-form "sections" payload attached to a
// product into ordered, typed display blocks.
package sections

import (
	"bytes"
	"encoding/json"
	"errors"

	"spice-storefront/internal/model"

	"github.com/rs/zerolog"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Known section types.
const (
	TypeProductSpecifications = "product_specifications"
	TypeIngredients           = "ingredients"
	TypeMoreDetails           = "more_details"
)

var titles = map[string]string{
	TypeProductSpecifications: "Product Specifications",
	TypeIngredients:           "Nutrition Facts",
	TypeMoreDetails:           "More Details",
}

// Title returns the display title for a section type. Unknown types are
// displayed under their raw name.
func Title(sectionType string) string {
	if t, ok := titles[sectionType]; ok {
		return t
	}
	return sectionType
}

type body struct {
	Type   string            `json:"type"`
	Labels []json.RawMessage `json:"labels"`
}

type label struct {
	Key   json.RawMessage `json:"key"`
	Value json.RawMessage `json:"value"`
}

// Interpret decodes a raw sections value. The value may be an object keyed by
// section name, an array of section bodies, or a string holding either of
// those. Malformed input is logged and yields an empty list; it never fails.
func Interpret(raw json.RawMessage, logger zerolog.Logger) []model.Section {
	bodies, err := decode(raw, 0)
	if err != nil {
		logger.Warn().Err(err).Int("bytes", len(raw)).Msg("invalid sections payload")
		return []model.Section{}
	}

	out := make([]model.Section, 0, len(bodies))
	for _, b := range bodies {
		out = append(out, interpretBody(b))
	}
	return out
}

// decode unwraps the tagged union of accepted encodings into an ordered list
// of section bodies. depth guards against strings nesting strings.
func decode(raw json.RawMessage, depth int) ([]body, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	switch raw[0] {
	case '{':
		om := orderedmap.New[string, json.RawMessage]()
		if err := json.Unmarshal(raw, om); err != nil {
			return nil, err
		}
		var bodies []body
		for pair := om.Oldest(); pair != nil; pair = pair.Next() {
			if b, ok := decodeBody(pair.Value); ok {
				bodies = append(bodies, b)
			}
		}
		return bodies, nil

	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		var bodies []body
		for _, item := range items {
			if b, ok := decodeBody(item); ok {
				bodies = append(bodies, b)
			}
		}
		return bodies, nil

	case '"':
		if depth > 0 {
			return nil, nil
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return decode(json.RawMessage(s), depth+1)

	default:
		if !json.Valid(raw) {
			return nil, errors.New("sections payload is not valid JSON")
		}
		return nil, nil
	}
}

func decodeBody(raw json.RawMessage) (body, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return body{}, false
	}

	var b body
	if err := json.Unmarshal(raw, &b); err != nil {
		// A body whose labels are not a list still renders its title.
		var typeOnly struct {
			Type string `json:"type"`
		}
		if json.Unmarshal(raw, &typeOnly) != nil {
			return body{}, false
		}
		return body{Type: typeOnly.Type}, true
	}
	return b, true
}

func interpretBody(b body) model.Section {
	s := model.Section{
		Type:    b.Type,
		Title:   Title(b.Type),
		Entries: make([]model.SectionEntry, 0, len(b.Labels)),
	}

	for _, raw := range b.Labels {
		var l label
		if err := json.Unmarshal(raw, &l); err != nil {
			continue
		}

		entry := model.SectionEntry{Kind: model.EntryBullet, Key: scalarText(l.Key)}
		if b.Type == TypeProductSpecifications {
			if v := scalarText(l.Value); v != "" {
				entry.Kind = model.EntryKeyValue
				entry.Value = v
			}
		}
		s.Entries = append(s.Entries, entry)
	}
	return s
}

// scalarText renders a JSON scalar for display. Objects, arrays and null
// render as "".
func scalarText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case 't':
		return "true"
	case 'f':
		return "false"
	case 'n', '{', '[':
		return ""
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return ""
		}
		return n.String()
	}
}
