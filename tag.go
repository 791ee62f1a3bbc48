package sfnt

import (
	"fmt"
)

// Tag is a 4-byte table identifier like 'head' or 'OS/2', stored big-endian.
type Tag uint32

// ParseTag converts a string of up to 4 printable ASCII characters into
// a Tag. Shorter strings are padded with spaces, so "cvt" becomes 'cvt '.
func ParseTag(s string) (Tag, error) {
	if len(s) == 0 || len(s) > 4 {
		return 0, fmt.Errorf("invalid tag %q: must be 1 to 4 characters", s)
	}
	var t Tag
	for i := 0; i < 4; i++ {
		c := byte(' ')
		if i < len(s) {
			c = s[i]
		}
		if c < 0x20 || c > 0x7E {
			return 0, fmt.Errorf("invalid tag %q: non-printable character 0x%02x", s, c)
		}
		t = t<<8 | Tag(c)
	}
	return t, nil
}

// MakeTag is like ParseTag but panics on invalid input.
func MakeTag(s string) Tag {
	return must(ParseTag(s))
}

func (t Tag) String() string {
	return string([]byte{byte(t >> 24), byte(t >> 16), byte(t >> 8), byte(t)})
}
