package mul

import "fmt"

// FileHeader is the decoded fixed prefix of a container file.
// Created once per load and immutable afterwards.
type FileHeader struct {
	Version     int // record layout version
	RecordCount int // declared record or entry count; <= 0 means decode to EOF
	DataStart   int // byte offset of the first record or index entry
}

// decodeFileHeader reads the record count and data address at the
// start of a file. The format has no magic value; the data address
// doubles as the layout selector. Current-generation files store the
// block index of their first record there, legacy files have no header
// at all, so the bytes just read belong to their first record and the
// caller must seek back to DataStart.
func decodeFileHeader(c *cursor) (FileHeader, error) {
	count, err := c.readI16()
	if err != nil {
		return FileHeader{}, fmt.Errorf("file header: %w", err)
	}
	addr, err := c.readI32()
	if err != nil {
		return FileHeader{}, fmt.Errorf("file header: %w", err)
	}

	if cur := layouts[layoutCurrent]; int(addr) == cur.headerBlocks {
		return FileHeader{
			Version:     cur.version,
			RecordCount: int(count),
			DataStart:   cur.headerBlocks * blockSize,
		}, nil
	}

	legacy := layouts[layoutLegacy]
	return FileHeader{
		Version:   legacy.version,
		DataStart: legacy.headerBlocks * blockSize,
	}, nil
}
