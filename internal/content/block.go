// Package content defines the building blocks of an idea body and their
// JSON encoding.
//
// A body is an ordered list of blocks. Each block is either a Text span or a
// placed Image. The list is persisted as a JSON array of tagged objects:
//
//	[{"type":"text","content":"hello"},
//	 {"type":"image","uri":"file:///x.jpg","scale":0.5,"align":"CENTER"}]
//
// Decoding is best-effort: malformed input yields an empty list and
// elements that cannot be understood are dropped without failing the rest.
package content

// Kind is the discriminator written into the "type" field of every block.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Align is the horizontal placement of an image block.
type Align string

const (
	AlignStart  Align = "START"
	AlignCenter Align = "CENTER"
	AlignEnd    Align = "END"
)

// DefaultScale is used when an image block carries no scale.
const DefaultScale float32 = 1

// Valid reports whether a is one of the known placements.
func (a Align) Valid() bool {
	switch a {
	case AlignStart, AlignCenter, AlignEnd:
		return true
	}
	return false
}

// Block is a closed set of body elements: Text or Image.
// The unexported marker keeps other packages from adding variants.
type Block interface {
	Kind() Kind
	block()
}

// Text is a plain text span.
type Text struct {
	Content string
}

// Image references a local or remote resource placed in the body.
// Scale is expected in (0, 1]. Encode writes an unknown or empty Align as
// START and a non-finite Scale as DefaultScale.
type Image struct {
	URI   string
	Scale float32
	Align Align
}

func (Text) Kind() Kind  { return KindText }
func (Image) Kind() Kind { return KindImage }

func (Text) block()  {}
func (Image) block() {}

// NewImage returns an image block with the default scale and alignment.
func NewImage(uri string) Image {
	return Image{URI: uri, Scale: DefaultScale, Align: AlignStart}
}
