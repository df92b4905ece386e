package content

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		blocks []Block
	}{
		{name: "empty", blocks: []Block{}},
		{name: "single text", blocks: []Block{Text{Content: "hello"}}},
		{name: "empty text", blocks: []Block{Text{Content: ""}}},
		{name: "mixed order", blocks: []Block{
			Text{Content: "first"},
			Image{URI: "file:///data/a.jpg", Scale: 0.5, Align: AlignCenter},
			Text{Content: "second\nline"},
			Image{URI: "content://media/external/images/media/42", Scale: 1, Align: AlignEnd},
			Image{URI: "backup://img_1_a.jpg", Scale: 0.25, Align: AlignStart},
		}},
		{name: "unicode", blocks: []Block{Text{Content: "想法 ✨ \"quoted\""}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decode(Encode(tt.blocks))
			assert.Empty(t, cmp.Diff(tt.blocks, got))
		})
	}
}

func TestEncode_Empty(t *testing.T) {
	assert.Equal(t, EmptyList, Encode(nil))
	assert.Equal(t, EmptyList, Encode([]Block{}))
}

func TestEncode_NormalizesImageFields(t *testing.T) {
	blocks := []Block{
		Text{Content: "keep me"},
		Image{URI: "file:///a.jpg", Scale: float32(math.NaN()), Align: AlignCenter},
		Image{URI: "file:///b.jpg", Scale: float32(math.Inf(1))},
		Image{URI: "file:///c.jpg", Scale: 0.5, Align: "middle"},
		Text{Content: "and me"},
	}

	want := []Block{
		Text{Content: "keep me"},
		Image{URI: "file:///a.jpg", Scale: DefaultScale, Align: AlignCenter},
		Image{URI: "file:///b.jpg", Scale: DefaultScale, Align: AlignStart},
		Image{URI: "file:///c.jpg", Scale: 0.5, Align: AlignStart},
		Text{Content: "and me"},
	}

	encoded := Encode(blocks)
	require.NotEqual(t, EmptyList, encoded)
	assert.Empty(t, cmp.Diff(want, Decode(encoded)))
	assert.Equal(t, "keep me\nand me", TextContent(Decode(encoded)))
}

func TestEncode_ZeroAlignWritesStart(t *testing.T) {
	var wire []map[string]any
	require.NoError(t, json.Unmarshal([]byte(Encode([]Block{Image{URI: "x", Scale: 1}})), &wire))
	require.Len(t, wire, 1)
	assert.Equal(t, "START", wire[0]["align"])
}

func TestEncode_WireShape(t *testing.T) {
	s := Encode([]Block{
		Text{Content: "hi"},
		Image{URI: "u", Scale: 0.5, Align: AlignEnd},
	})

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &got))
	require.Len(t, got, 2)

	assert.Equal(t, map[string]any{"type": "text", "content": "hi"}, got[0])
	assert.Equal(t, map[string]any{"type": "image", "uri": "u", "scale": 0.5, "align": "END"}, got[1])
}

func TestDecode_Resilience(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Block
	}{
		{name: "blank", in: "", want: []Block{}},
		{name: "whitespace", in: "  \n\t", want: []Block{}},
		{name: "not json", in: "{{{not json", want: []Block{}},
		{name: "object instead of array", in: `{"type":"text","content":"x"}`, want: []Block{}},
		{name: "unknown tag dropped", in: `[{"type":"video","uri":"v"},{"type":"text","content":"keep"}]`,
			want: []Block{Text{Content: "keep"}}},
		{name: "non-object element dropped", in: `[42,"str",null,{"type":"text","content":"ok"}]`,
			want: []Block{Text{Content: "ok"}}},
		{name: "wrong field type dropped", in: `[{"type":"image","uri":"a","scale":"big"},{"type":"image","uri":"b"}]`,
			want: []Block{Image{URI: "b", Scale: 1, Align: AlignStart}}},
		{name: "missing tag dropped", in: `[{"content":"orphan"}]`, want: []Block{}},
		{name: "defaults applied", in: `[{"type":"image"},{"type":"text"}]`,
			want: []Block{Image{URI: "", Scale: 1, Align: AlignStart}, Text{Content: ""}}},
		{name: "unknown align falls back", in: `[{"type":"image","uri":"x","scale":0.3,"align":"MIDDLE"}]`,
			want: []Block{Image{URI: "x", Scale: 0.3, Align: AlignStart}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []Block
			require.NotPanics(t, func() { got = Decode(tt.in) })
			require.NotNil(t, got)
			assert.Empty(t, cmp.Diff(tt.want, got))
		})
	}
}

func TestHasImagesAndTextContent(t *testing.T) {
	blocks := []Block{
		Text{Content: "a"},
		NewImage("file:///x.png"),
		Text{Content: "b"},
	}

	assert.True(t, HasImages(blocks))
	assert.Equal(t, "a\nb", TextContent(blocks))

	textOnly := []Block{Text{Content: "only"}}
	assert.False(t, HasImages(textOnly))
	assert.Equal(t, "only", TextContent(textOnly))

	assert.False(t, HasImages(nil))
	assert.Equal(t, "", TextContent(nil))
}

func TestMapImages_KeepsOrderAndText(t *testing.T) {
	blocks := []Block{
		Image{URI: "one", Scale: 0.5, Align: AlignCenter},
		Text{Content: "mid"},
		Image{URI: "two", Scale: 1, Align: AlignStart},
	}

	got := MapImages(blocks, func(img Image) Image {
		img.URI = "backup://" + img.URI
		return img
	})

	want := []Block{
		Image{URI: "backup://one", Scale: 0.5, Align: AlignCenter},
		Text{Content: "mid"},
		Image{URI: "backup://two", Scale: 1, Align: AlignStart},
	}
	assert.Empty(t, cmp.Diff(want, got))
	assert.Equal(t, "one", blocks[0].(Image).URI, "input must not be modified")

	assert.Len(t, Images(got), 2)
}
