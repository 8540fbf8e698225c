package mul

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Metadata holds the decoded fields of one record's metadata block.
// Integer fields the acquisition software stores raw stay raw; fields
// with a declared scale carry the physical value.
type Metadata struct {
	ImageNum   int       `json:"img_num"`
	Size       int       `json:"size"` // record extent in blocks
	XRes       int       `json:"xres"`
	YRes       int       `json:"yres"`
	ZRes       int       `json:"zres"`
	Timestamp  time.Time `json:"timestamp"`
	XSize      float64   `json:"xsize_nm"`
	YSize      float64   `json:"ysize_nm"`
	XOffset    float64   `json:"xoffset_nm"`
	YOffset    float64   `json:"yoffset_nm"`
	ZScale     int       `json:"zscale_v"`   // ADC range
	Tilt       int       `json:"tilt_deg"`   // scan direction rotation
	Speed      float64   `json:"speed_s"`    // image acquisition time
	LineTime   float64   `json:"line_time_ms"`
	Bias       float64   `json:"bias_mv"`
	Current    float64   `json:"current_na"` // tunneling setpoint
	Sample     string    `json:"sample"`
	Title      string    `json:"title"`
	Postpr     int       `json:"postpr"`
	Postd1     int       `json:"postd1"`
	Mode       int       `json:"mode"`
	CurrFac    int       `json:"currfac"`
	PointScans int       `json:"num_pointscans"`
	UnitNum    int       `json:"unitnr"`
	Version    int       `json:"version"`
	Gain       int       `json:"gain"` // PI gain
}

// Record is one decoded image: its metadata plus the sample array in
// nanometres, row-major with XRes rows of YRes samples each, ordered
// by scanning sequence. Records are immutable once decoded and may be
// shared across collection views.
type Record struct {
	ID   string `json:"id"` // source basename + "_" + image number
	Path string `json:"path"`
	Metadata
	Data [][]float64 `json:"-"`
}

// rawFields carries one metadata block's values keyed by layout field
// name, before assembly into Metadata.
type rawFields struct {
	ints   map[string]int
	floats map[string]float64
	texts  map[string]string
}

func decodeFields(block []byte, lay *recordLayout) (rawFields, error) {
	raw := rawFields{
		ints:   make(map[string]int, len(lay.fields)),
		floats: make(map[string]float64, 8),
		texts:  make(map[string]string, 2),
	}
	for _, f := range lay.fields {
		switch f.kind {
		case fieldI16:
			raw.ints[f.name] = int(int16(binary.LittleEndian.Uint16(block[f.offset:])))
		case fieldScaled:
			v := int(int16(binary.LittleEndian.Uint16(block[f.offset:])))
			raw.floats[f.name] = float64(v) * f.scale
		case fieldText:
			s, err := decodeText(block[f.offset : f.offset+f.length])
			if err != nil {
				return rawFields{}, fmt.Errorf("field %s: %w", f.name, err)
			}
			raw.texts[f.name] = s
		}
	}
	return raw, nil
}

// metadataFromRaw assembles the Metadata struct and computes the
// values derived from more than one field: the setpoint current is the
// raw value times the current factor, the line time follows from speed
// and line count.
func metadataFromRaw(raw rawFields) Metadata {
	yres := raw.ints["yres"]
	speed := raw.floats["speed"]
	return Metadata{
		ImageNum: raw.ints["img_num"],
		Size:     raw.ints["size"],
		XRes:     raw.ints["xres"],
		YRes:     yres,
		ZRes:     raw.ints["zres"],
		Timestamp: time.Date(
			raw.ints["year"], time.Month(raw.ints["month"]), raw.ints["day"],
			raw.ints["hour"], raw.ints["minute"], raw.ints["second"], 0, time.UTC,
		),
		XSize:      raw.floats["xsize"],
		YSize:      raw.floats["ysize"],
		XOffset:    raw.floats["xoffset"],
		YOffset:    raw.floats["yoffset"],
		ZScale:     raw.ints["zscale"],
		Tilt:       raw.ints["tilt"],
		Speed:      speed,
		LineTime:   speed / float64(yres) * 1000,
		Bias:       raw.floats["bias"],
		Current:    float64(raw.ints["current"]) * float64(raw.ints["currfac"]) * 0.01,
		Sample:     raw.texts["sample"],
		Title:      raw.texts["title"],
		Postpr:     raw.ints["postpr"],
		Postd1:     raw.ints["postd1"],
		Mode:       raw.ints["mode"],
		CurrFac:    raw.ints["currfac"],
		PointScans: raw.ints["num_pointscans"],
		UnitNum:    raw.ints["unitnr"],
		Version:    raw.ints["version"],
		Gain:       raw.ints["gain"],
	}
}

// sampleScale is the nanometre value of one raw ADC count for a record
// with the given z range.
func sampleScale(zscale int) float64 {
	return -0.1 / 1.36 * float64(zscale) / 2000
}

// decodeRecord consumes one record at the cursor: the metadata block,
// the pixel block, and the remainder of the declared extent, which
// covers block padding and any embedded point-scan blocks. Point scans
// are not decoded. The cursor ends on the next record boundary, or at
// EOF when the extent's trailing bytes are cut off; a record whose
// samples decoded completely is kept either way.
func decodeRecord(c *cursor, lay *recordLayout) (*Record, error) {
	start := c.off
	block, err := c.readN(blockSize)
	if err != nil {
		return nil, fmt.Errorf("metadata block at offset %d: %w", start, err)
	}
	raw, err := decodeFields(block, lay)
	if err != nil {
		return nil, fmt.Errorf("metadata block at offset %d: %w", start, err)
	}

	size := raw.ints["size"]
	xres := raw.ints["xres"]
	yres := raw.ints["yres"]
	if size < 1 || xres < 1 || yres < 1 {
		return nil, fmt.Errorf("%w: implausible geometry %dx%d in %d blocks at offset %d",
			ErrCorruptRecord, xres, yres, size, start)
	}
	pixelBytes := xres * yres * sampleBytes
	if blockSize+pixelBytes > size*blockSize {
		return nil, fmt.Errorf("%w: %dx%d samples do not fit the declared %d-block extent at offset %d",
			ErrCorruptRecord, xres, yres, size, start)
	}

	pixels, err := c.readN(pixelBytes)
	if err != nil {
		return nil, fmt.Errorf("pixel block at offset %d: %w", start, err)
	}

	scale := sampleScale(raw.ints["zscale"])
	data := make([][]float64, xres)
	for row := range data {
		line := make([]float64, yres)
		base := row * yres * sampleBytes
		for col := range line {
			v := int16(binary.LittleEndian.Uint16(pixels[base+col*sampleBytes:]))
			line[col] = float64(v) * scale
		}
		data[row] = line
	}

	trailer := start + size*blockSize - c.off
	if trailer > c.remaining() {
		trailer = c.remaining()
	}
	if err := c.skip(trailer); err != nil {
		return nil, err
	}

	return &Record{Metadata: metadataFromRaw(raw), Data: data}, nil
}

// checkLeadRecord rejects headerless files whose first block cannot be
// a record. There is no magic value to test, so this geometry check is
// the only precondition available for the legacy layout.
func checkLeadRecord(data []byte, lay *recordLayout) error {
	if len(data) < blockSize {
		return fmt.Errorf("%w: %d bytes cannot hold a record", ErrInvalidHeader, len(data))
	}
	raw, err := decodeFields(data[:blockSize], lay)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}
	size, xres, yres := raw.ints["size"], raw.ints["xres"], raw.ints["yres"]
	if size < 1 || xres < 1 || yres < 1 || blockSize+xres*yres*sampleBytes > size*blockSize {
		return fmt.Errorf("%w: lead block is not a record (%dx%d in %d blocks)",
			ErrInvalidHeader, xres, yres, size)
	}
	return nil
}
