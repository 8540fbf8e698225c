package mul

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed layout.yaml
var layoutYAML []byte

// layouts holds every record layout the decoder understands, keyed by
// layout version. The table ships with the binary, so a table that
// fails to parse is a build defect.
var layouts = mustParseLayouts(layoutYAML)

const (
	layoutLegacy  = 0
	layoutCurrent = 3
)

type fieldKind int

const (
	fieldI16 fieldKind = iota
	fieldScaled
	fieldText
)

type layoutField struct {
	name   string
	kind   fieldKind
	offset int
	length int     // text fields
	scale  float64 // scaled fields
}

type recordLayout struct {
	version      int
	headerBlocks int
	fields       []layoutField
}

// requiredFields is the contract between the layout table and the
// Metadata struct: every layout version must declare these fields with
// these kinds, so the record decoder can look them up by name.
var requiredFields = map[string]fieldKind{
	"img_num":        fieldI16,
	"size":           fieldI16,
	"xres":           fieldI16,
	"yres":           fieldI16,
	"zres":           fieldI16,
	"year":           fieldI16,
	"month":          fieldI16,
	"day":            fieldI16,
	"hour":           fieldI16,
	"minute":         fieldI16,
	"second":         fieldI16,
	"xsize":          fieldScaled,
	"ysize":          fieldScaled,
	"xoffset":        fieldScaled,
	"yoffset":        fieldScaled,
	"zscale":         fieldI16,
	"tilt":           fieldI16,
	"speed":          fieldScaled,
	"bias":           fieldScaled,
	"current":        fieldI16,
	"sample":         fieldText,
	"title":          fieldText,
	"postpr":         fieldI16,
	"postd1":         fieldI16,
	"mode":           fieldI16,
	"currfac":        fieldI16,
	"num_pointscans": fieldI16,
	"unitnr":         fieldI16,
	"version":        fieldI16,
	"gain":           fieldI16,
}

func mustParseLayouts(raw []byte) map[int]*recordLayout {
	tbl, err := parseLayouts(raw)
	if err != nil {
		panic("mul: " + err.Error())
	}
	return tbl
}

func parseLayouts(raw []byte) (map[int]*recordLayout, error) {
	var doc struct {
		BlockSize int `yaml:"block_size"`
		Versions  []struct {
			Version      int `yaml:"version"`
			HeaderBlocks int `yaml:"header_blocks"`
			Fields       []struct {
				Name   string  `yaml:"name"`
				Offset int     `yaml:"offset"`
				Type   string  `yaml:"type"`
				Length int     `yaml:"length"`
				Scale  float64 `yaml:"scale"`
			} `yaml:"fields"`
		} `yaml:"versions"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse layout table: %w", err)
	}
	if doc.BlockSize != blockSize {
		return nil, fmt.Errorf("layout table block size is %d, decoder assumes %d", doc.BlockSize, blockSize)
	}

	out := make(map[int]*recordLayout, len(doc.Versions))
	for _, v := range doc.Versions {
		if _, dup := out[v.Version]; dup {
			return nil, fmt.Errorf("duplicate layout version %d", v.Version)
		}
		if v.HeaderBlocks < 0 {
			return nil, fmt.Errorf("layout version %d: negative header size", v.Version)
		}
		lay := &recordLayout{version: v.Version, headerBlocks: v.HeaderBlocks}
		seen := make(map[string]fieldKind, len(v.Fields))
		for _, f := range v.Fields {
			var kind fieldKind
			width := 2
			switch f.Type {
			case "i16":
				kind = fieldI16
			case "scaled":
				kind = fieldScaled
				if f.Scale == 0 {
					return nil, fmt.Errorf("layout version %d: scaled field %q needs a scale", v.Version, f.Name)
				}
			case "text":
				kind = fieldText
				if f.Length < 1 {
					return nil, fmt.Errorf("layout version %d: text field %q needs a length", v.Version, f.Name)
				}
				width = f.Length
			default:
				return nil, fmt.Errorf("layout version %d: field %q has unknown type %q", v.Version, f.Name, f.Type)
			}
			if f.Offset < 0 || f.Offset+width > blockSize {
				return nil, fmt.Errorf("layout version %d: field %q spans outside the metadata block", v.Version, f.Name)
			}
			if _, dup := seen[f.Name]; dup {
				return nil, fmt.Errorf("layout version %d: duplicate field %q", v.Version, f.Name)
			}
			seen[f.Name] = kind
			lay.fields = append(lay.fields, layoutField{
				name:   f.Name,
				kind:   kind,
				offset: f.Offset,
				length: f.Length,
				scale:  f.Scale,
			})
		}
		for name, kind := range requiredFields {
			got, ok := seen[name]
			if !ok {
				return nil, fmt.Errorf("layout version %d: missing field %q", v.Version, name)
			}
			if got != kind {
				return nil, fmt.Errorf("layout version %d: field %q has the wrong type", v.Version, name)
			}
		}
		out[v.Version] = lay
	}

	for _, required := range []int{layoutCurrent, layoutLegacy} {
		if _, ok := out[required]; !ok {
			return nil, fmt.Errorf("layout table missing version %d", required)
		}
	}
	return out, nil
}
