package mul

import (
	"io"

	json "github.com/goccy/go-json"
)

// WriteMetadataJSON writes the view's metadata as an indented JSON
// array, one object per record in view order. Pixel data is omitted;
// the dump is meant for quick inspection of instrument parameters.
func (c *Collection) WriteMetadataJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c.Records())
}
