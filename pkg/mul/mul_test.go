package mul

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func putI16(b []byte, off, v int) {
	binary.LittleEndian.PutUint16(b[off:], uint16(int16(v)))
}

func seqSamples(n int) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = int16(i + 1)
	}
	return out
}

// buildRecord serializes one record: a metadata block followed by the
// row-major pixel block, zero padded to a whole number of blocks. All
// fields not passed in carry fixed plausible instrument values.
func buildRecord(imgNum, xres, yres, zscale int, samples []int16) []byte {
	size := (blockSize + len(samples)*sampleBytes + blockSize - 1) / blockSize
	buf := make([]byte, size*blockSize)

	putI16(buf, 0, imgNum)
	putI16(buf, 2, size)
	putI16(buf, 4, xres)
	putI16(buf, 6, yres)
	putI16(buf, 8, 1) // zres
	putI16(buf, 10, 2024)
	putI16(buf, 12, 6)
	putI16(buf, 14, 15)
	putI16(buf, 16, 10)
	putI16(buf, 18, 30)
	putI16(buf, 20, 45)
	putI16(buf, 22, 100) // xsize 10 nm
	putI16(buf, 24, 100)
	putI16(buf, 26, 20) // xoffset 2 nm
	putI16(buf, 28, 20)
	putI16(buf, 30, zscale)
	putI16(buf, 32, 51)     // tilt
	putI16(buf, 34, 400)    // speed 4 s
	putI16(buf, 36, -32768) // bias 10000 mV
	putI16(buf, 38, 200)    // current 2 nA at currfac 1
	copy(buf[40:], "sample-a")
	copy(buf[61:], "scan-1")
	putI16(buf, 82, 1) // postpr
	putI16(buf, 88, 1) // currfac
	putI16(buf, 92, 1) // unitnr
	putI16(buf, 94, 3) // version
	putI16(buf, 120, 955)
	for i, s := range samples {
		putI16(buf, blockSize+i*sampleBytes, int(s))
	}
	return buf
}

// buildCombined assembles a versioned container with the given
// declared count around the record images.
func buildCombined(count int, records ...[]byte) []byte {
	hdrBlocks := layouts[layoutCurrent].headerBlocks
	buf := make([]byte, hdrBlocks*blockSize)
	putI16(buf, 0, count)
	binary.LittleEndian.PutUint32(buf[2:], uint32(hdrBlocks))
	for _, r := range records {
		buf = append(buf, r...)
	}
	return buf
}

// buildIndex assembles an index file whose entries name standalone
// single-record files, one NUL-padded block per entry.
func buildIndex(count int, names ...string) []byte {
	hdrBlocks := layouts[layoutCurrent].headerBlocks
	buf := make([]byte, hdrBlocks*blockSize)
	putI16(buf, 0, count)
	binary.LittleEndian.PutUint32(buf[2:], uint32(hdrBlocks))
	for _, n := range names {
		entry := make([]byte, blockSize)
		copy(entry, n)
		buf = append(buf, entry...)
	}
	return buf
}

func writeTestFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
