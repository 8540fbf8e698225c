package mul

import (
	"fmt"
	"time"

	"github.com/robert-malhotra/go-hdf5/hdf5"
)

// SaveHDF5 writes every record in the view into one HDF5 archive.
// Each record becomes a float64 dataset at the file root named by the
// record ID, flattened row-major, with the metadata set attached as
// attributes; the pixel shape travels in the xres_px/yres_px
// attributes. Archive failures surface from the hdf5 library
// unmodified apart from the record ID.
func (c *Collection) SaveHDF5(path string) error {
	f, err := hdf5.Create(path)
	if err != nil {
		return err
	}
	for i := 0; i < c.Len(); i++ {
		if err := writeRecord(f.Root(), c.At(i)); err != nil {
			_ = f.Close()
			return err
		}
	}
	return f.Close()
}

// SaveHDF5 writes the record into a single-record HDF5 archive.
func (r *Record) SaveHDF5(path string) error {
	f, err := hdf5.Create(path)
	if err != nil {
		return err
	}
	if err := writeRecord(f.Root(), r); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writeRecord(root *hdf5.Group, r *Record) error {
	flat := make([]float64, 0, r.XRes*r.YRes)
	for _, row := range r.Data {
		flat = append(flat, row...)
	}
	if _, err := root.CreateDataset(r.ID, flat, recordAttrs(r)...); err != nil {
		return fmt.Errorf("record %s: %w", r.ID, err)
	}
	return nil
}

func recordAttrs(r *Record) []hdf5.DatasetOption {
	return []hdf5.DatasetOption{
		hdf5.WithAttribute("id", r.ID),
		hdf5.WithAttribute("xres_px", int64(r.XRes)),
		hdf5.WithAttribute("yres_px", int64(r.YRes)),
		hdf5.WithAttribute("zres", int64(r.ZRes)),
		hdf5.WithAttribute("timestamp", r.Timestamp.Format(time.RFC3339)),
		hdf5.WithAttribute("xsize_nm", r.XSize),
		hdf5.WithAttribute("ysize_nm", r.YSize),
		hdf5.WithAttribute("xoffset_nm", r.XOffset),
		hdf5.WithAttribute("yoffset_nm", r.YOffset),
		hdf5.WithAttribute("zscale_v", int64(r.ZScale)),
		hdf5.WithAttribute("tilt_deg", int64(r.Tilt)),
		hdf5.WithAttribute("speed_s", r.Speed),
		hdf5.WithAttribute("line_time_ms", r.LineTime),
		hdf5.WithAttribute("bias_mv", r.Bias),
		hdf5.WithAttribute("current_na", r.Current),
		hdf5.WithAttribute("sample", r.Sample),
		hdf5.WithAttribute("title", r.Title),
		hdf5.WithAttribute("mode", int64(r.Mode)),
		hdf5.WithAttribute("postprocessing", int64(r.Postpr)),
		hdf5.WithAttribute("gain", int64(r.Gain)),
	}
}
