// Package mul decodes the binary image files written by the Aarhus STM
// acquisition software.
//
// A container is a sequence of 128-byte blocks. Combined files (.mul)
// hold a short header followed by the records inline; index files
// (.flm) hold the same header followed by one block per referenced
// single-record file. Every record is a 128-byte metadata block of
// fixed-offset little-endian fields followed by its raw pixel block,
// and occupies a whole number of blocks declared by its size field.
package mul

const (
	// blockSize is the allocation unit of the format. Headers,
	// records and index entries all start on block boundaries.
	blockSize = 128

	// sampleBytes is the width of one raw pixel sample.
	sampleBytes = 2
)
