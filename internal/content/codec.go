package content

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// EmptyList is the encoding of a body without blocks.
const EmptyList = "[]"

// wireBlock is the JSON shape of a single block. Pointer fields let Decode
// tell a missing field from a zero value.
type wireBlock struct {
	Type    string   `json:"type"`
	Content *string  `json:"content,omitempty"`
	URI     *string  `json:"uri,omitempty"`
	Scale   *float32 `json:"scale,omitempty"`
	Align   *string  `json:"align,omitempty"`
}

func toWire(b Block) (wireBlock, error) {
	switch v := b.(type) {
	case Text:
		c := v.Content
		return wireBlock{Type: string(KindText), Content: &c}, nil
	case Image:
		uri, scale, align := v.URI, v.Scale, string(v.Align)
		// JSON has no NaN or Inf; one such block must not sink the whole body.
		if math.IsNaN(float64(scale)) || math.IsInf(float64(scale), 0) {
			scale = DefaultScale
		}
		if !v.Align.Valid() {
			align = string(AlignStart)
		}
		return wireBlock{Type: string(KindImage), URI: &uri, Scale: &scale, Align: &align}, nil
	default:
		return wireBlock{}, fmt.Errorf("unsupported block %T", b)
	}
}

func fromWire(w wireBlock) (Block, bool) {
	switch Kind(w.Type) {
	case KindText:
		t := Text{}
		if w.Content != nil {
			t.Content = *w.Content
		}
		return t, true
	case KindImage:
		img := NewImage("")
		if w.URI != nil {
			img.URI = *w.URI
		}
		if w.Scale != nil {
			img.Scale = *w.Scale
		}
		if w.Align != nil && Align(*w.Align).Valid() {
			img.Align = Align(*w.Align)
		}
		return img, true
	default:
		return nil, false
	}
}

// Encode serializes blocks into their JSON array form, preserving order.
// A nil or empty slice encodes to "[]".
func Encode(blocks []Block) string {
	out := make([]wireBlock, 0, len(blocks))
	for _, b := range blocks {
		w, err := toWire(b)
		if err != nil {
			continue
		}
		out = append(out, w)
	}

	data, err := json.Marshal(out)
	if err != nil {
		return EmptyList
	}
	return string(data)
}

// Decode parses the JSON array produced by Encode.
//
// Blank or unparsable text yields an empty slice. Elements that are not
// objects, carry an unknown type, or have fields of the wrong JSON type are
// skipped; the remaining blocks keep their relative order.
func Decode(text string) []Block {
	if strings.TrimSpace(text) == "" {
		return []Block{}
	}

	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return []Block{}
	}

	blocks := make([]Block, 0, len(raw))
	for _, r := range raw {
		var w wireBlock
		if err := json.Unmarshal(r, &w); err != nil {
			continue
		}
		if b, ok := fromWire(w); ok {
			blocks = append(blocks, b)
		}
	}
	return blocks
}
