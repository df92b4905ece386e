package content

import "strings"

// HasImages reports whether any block is an Image.
func HasImages(blocks []Block) bool {
	for _, b := range blocks {
		switch b.(type) {
		case Image:
			return true
		case Text:
		}
	}
	return false
}

// TextContent joins the content of all Text blocks with a newline, in order.
// Images are skipped. The result is what search indexes against.
func TextContent(blocks []Block) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		switch v := b.(type) {
		case Text:
			parts = append(parts, v.Content)
		case Image:
		}
	}
	return strings.Join(parts, "\n")
}

// Images returns the image blocks in order.
func Images(blocks []Block) []Image {
	var out []Image
	for _, b := range blocks {
		if img, ok := b.(Image); ok {
			out = append(out, img)
		}
	}
	return out
}

// MapImages returns a copy of blocks where every Image has been replaced by
// fn(image). Text blocks and ordering are left untouched.
func MapImages(blocks []Block, fn func(Image) Image) []Block {
	out := make([]Block, len(blocks))
	for i, b := range blocks {
		switch v := b.(type) {
		case Image:
			out[i] = fn(v)
		case Text:
			out[i] = v
		}
	}
	return out
}
