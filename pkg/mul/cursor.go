package mul

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// cursor is a bounds-checked little-endian reader over file data.
// The offset never exceeds the buffer length; any read demanding more
// bytes than remain fails with ErrTruncatedData instead of returning
// partial data.
type cursor struct {
	data []byte
	off  int
}

func newCursor(data []byte) *cursor {
	return &cursor{data: data}
}

func (c *cursor) remaining() int { return len(c.data) - c.off }

func (c *cursor) atEnd() bool { return c.off >= len(c.data) }

func (c *cursor) readN(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: invalid read length %d", ErrTruncatedData, n)
	}
	if c.off+n > len(c.data) {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, %d remain",
			ErrTruncatedData, n, c.off, len(c.data)-c.off)
	}
	b := c.data[c.off : c.off+n]
	c.off += n
	return b, nil
}

func (c *cursor) skip(n int) error {
	_, err := c.readN(n)
	return err
}

func (c *cursor) seek(off int) error {
	if off < 0 || off > len(c.data) {
		return fmt.Errorf("%w: offset %d outside %d bytes", ErrTruncatedData, off, len(c.data))
	}
	c.off = off
	return nil
}

func (c *cursor) readU16() (uint16, error) {
	b, err := c.readN(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *cursor) readI16() (int16, error) {
	v, err := c.readU16()
	return int16(v), err
}

func (c *cursor) readU32() (uint32, error) {
	b, err := c.readN(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *cursor) readI32() (int32, error) {
	v, err := c.readU32()
	return int32(v), err
}

// readText reads a fixed-length text field and decodes it from the
// acquisition software's codepage.
func (c *cursor) readText(n int) (string, error) {
	b, err := c.readN(n)
	if err != nil {
		return "", err
	}
	return decodeText(b)
}

// decodeText converts a fixed-length field into a string. Fields are
// written by a Windows program, NUL padded to their declared length.
func decodeText(b []byte) (string, error) {
	b = bytes.TrimRight(b, "\x00")
	s, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(s)), nil
}
