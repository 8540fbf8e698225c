package mul

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"
)

// Load decodes the file at path into a collection of image records.
// The extension selects the variant: a combined container (.mul) holds
// every record inline, an index file (.flm) lists standalone
// single-record files resolved relative to the index. Decoding is all
// or nothing; on error no partial collection is returned.
func Load(path string, opts ...Option) (*Collection, error) {
	cfg := newLoadConfig(opts)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mul":
		return loadCombined(path, &cfg)
	case ".flm":
		return loadIndex(path, &cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFile, filepath.Ext(path))
	}
}

func loadCombined(path string, cfg *loadConfig) (*Collection, error) {
	data, release, err := readFile(path)
	if err != nil {
		return nil, err
	}
	defer release()

	c, lay, hdr, err := prepare(data)
	if err != nil {
		return nil, err
	}

	cfg.log().Debug("decoding container",
		"path", path, "layout", hdr.Version, "declared", hdr.RecordCount, "bytes", len(data))

	base := recordBaseName(path)
	var records []*Record
	for !c.atEnd() {
		if hdr.RecordCount > 0 && len(records) == hdr.RecordCount {
			break
		}
		rec, err := decodeRecord(c, lay)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", len(records), err)
		}
		rec.Path = path
		rec.ID = base + "_" + strconv.Itoa(rec.ImageNum)
		records = append(records, rec)
	}

	cfg.log().Debug("decoded container", "path", path, "records", len(records))
	return newCollection(records), nil
}

func loadIndex(path string, cfg *loadConfig) (*Collection, error) {
	data, release, err := readFile(path)
	if err != nil {
		return nil, err
	}
	defer release()

	c := newCursor(data)
	hdr, err := decodeFileHeader(c)
	if err != nil {
		return nil, err
	}
	if hdr.Version != layoutCurrent {
		return nil, fmt.Errorf("%w: index files require the versioned layout", ErrInvalidHeader)
	}
	if err := c.seek(hdr.DataStart); err != nil {
		return nil, fmt.Errorf("%w: entry list starts at %d in a %d-byte file",
			ErrInvalidHeader, hdr.DataStart, len(data))
	}

	// One block per entry, NUL padded. An all-zero entry ends the
	// list early; producers size the count optimistically just like
	// the record count in combined files.
	var names []string
	for !c.atEnd() {
		if hdr.RecordCount > 0 && len(names) == hdr.RecordCount {
			break
		}
		name, err := c.readText(blockSize)
		if err != nil {
			return nil, fmt.Errorf("index entry %d: %w", len(names), err)
		}
		if name == "" {
			break
		}
		names = append(names, name)
	}

	cfg.log().Debug("loading index",
		"path", path, "entries", len(names), "workers", cfg.workers)

	dir := filepath.Dir(path)
	records := make([]*Record, len(names))
	var g errgroup.Group
	g.SetLimit(cfg.workers)
	for i, name := range names {
		g.Go(func() error {
			rec, err := loadReferenced(dir, name)
			if err != nil {
				return fmt.Errorf("index entry %d: %w", i, err)
			}
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return newCollection(records), nil
}

// loadReferenced reads the file named by one index entry and decodes
// its single record. Entries are relative to the index file's
// directory and may carry Windows path separators.
func loadReferenced(dir, name string) (*Record, error) {
	rel := filepath.FromSlash(strings.ReplaceAll(name, `\`, "/"))
	full := filepath.Join(dir, rel)
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingFile, full)
	}

	c, lay, _, err := prepare(data)
	if err != nil {
		return nil, err
	}
	rec, err := decodeRecord(c, lay)
	if err != nil {
		return nil, err
	}
	rec.Path = full
	rec.ID = recordBaseName(full) + "_" + strconv.Itoa(rec.ImageNum)
	return rec, nil
}

// prepare decodes the file header, selects the record layout and
// positions the cursor on the first record.
func prepare(data []byte) (*cursor, *recordLayout, FileHeader, error) {
	c := newCursor(data)
	hdr, err := decodeFileHeader(c)
	if err != nil {
		return nil, nil, FileHeader{}, err
	}
	lay := layouts[hdr.Version]
	if err := c.seek(hdr.DataStart); err != nil {
		return nil, nil, FileHeader{}, fmt.Errorf("%w: data starts at %d in a %d-byte file",
			ErrInvalidHeader, hdr.DataStart, len(data))
	}
	if hdr.Version == layoutLegacy {
		if err := checkLeadRecord(data[hdr.DataStart:], lay); err != nil {
			return nil, nil, FileHeader{}, err
		}
	}
	return c, lay, hdr, nil
}

func recordBaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// readFile maps path read-only, falling back to a plain read where
// mmap is unavailable. The release func must be called once decoding
// is done; decoded records never alias the mapping.
func readFile(path string) ([]byte, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	size64 := stat.Size()
	if size64 > int64(int(^uint(0)>>1)) {
		return nil, nil, fmt.Errorf("mul: file too large to load: %d bytes", size64)
	}
	size := int(size64)
	if size == 0 {
		return nil, func() {}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err == nil {
		return data, func() { _ = unix.Munmap(data) }, nil
	}

	data, err = readAllAt(f, size)
	if err != nil {
		return nil, nil, err
	}
	return data, func() {}, nil
}

func readAllAt(r io.ReaderAt, size int) ([]byte, error) {
	out := make([]byte, size)
	var off int64
	for off < int64(size) {
		n, err := r.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if err == io.EOF && off == int64(size) {
			break
		}
		return nil, err
	}
	return out, nil
}
