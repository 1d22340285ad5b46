package region

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"color-verifier/pkg/colorutil"
	"color-verifier/pkg/geometry"

	"gopkg.in/yaml.v3"
)

// rawEntry is one region as stored by the configuration collaborator.
// extremes_of_ROI is accepted but ignored; the box is always rederived.
type rawEntry struct {
	Coordinates [][]int `json:"coordinates" yaml:"coordinates"`
	MeanColor   []int   `json:"mean_color" yaml:"mean_color"`
	Extremes    []int   `json:"extremes_of_ROI" yaml:"extremes_of_ROI"`
}

func (e rawEntry) region(id string) (Region, error) {
	r := Region{ID: id, Vertices: make([]geometry.PointInt, 0, len(e.Coordinates))}
	for i, xy := range e.Coordinates {
		if len(xy) != 2 {
			return Region{}, fmt.Errorf("region %q: coordinate %d: expected [x, y], got %d values", id, i, len(xy))
		}
		r.Vertices = append(r.Vertices, geometry.Pt(xy[0], xy[1]))
	}
	if e.MeanColor != nil {
		if len(e.MeanColor) < 3 {
			return Region{}, fmt.Errorf("region %q: mean_color: expected [R, G, B]", id)
		}
		for i, v := range e.MeanColor[:3] {
			if v < 0 || v > 255 {
				return Region{}, fmt.Errorf("region %q: mean_color channel %d out of range: %d", id, i, v)
			}
		}
		c := colorutil.RGB{R: uint8(e.MeanColor[0]), G: uint8(e.MeanColor[1]), B: uint8(e.MeanColor[2])}
		r.Reference = &c
	}
	return r, nil
}

// Decode reads a region configuration: an object mapping region id to
// {"coordinates": [[x, y], ...]} with optional "mean_color". Both JSON and
// YAML are accepted. Key order in the document becomes the set order.
func Decode(r io.Reader) (*Set, error) {
	br := bufio.NewReader(r)
	for {
		b, err := br.Peek(1)
		if err == io.EOF {
			return NewSet(), nil
		}
		if err != nil {
			return nil, err
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n':
			_, _ = br.ReadByte()
			continue
		case '{':
			return decodeJSON(br)
		}
		return decodeYAML(br)
	}
}

func decodeJSON(r io.Reader) (*Set, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode regions: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("decode regions: expected object, got %v", tok)
	}

	s := NewSet()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode regions: %w", err)
		}
		id := tok.(string)
		var e rawEntry
		if err := dec.Decode(&e); err != nil {
			return nil, fmt.Errorf("decode region %q: %w", id, err)
		}
		reg, err := e.region(id)
		if err != nil {
			return nil, err
		}
		if err := s.Add(reg); err != nil {
			return nil, err
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode regions: %w", err)
	}
	return s, nil
}

func decodeYAML(r io.Reader) (*Set, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return NewSet(), nil
		}
		return nil, fmt.Errorf("decode regions: %w", err)
	}
	if len(doc.Content) == 0 {
		return NewSet(), nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("decode regions: line %d: expected mapping", root.Line)
	}

	s := NewSet()
	for i := 0; i+1 < len(root.Content); i += 2 {
		id := root.Content[i].Value
		var e rawEntry
		if err := root.Content[i+1].Decode(&e); err != nil {
			return nil, fmt.Errorf("decode region %q: %w", id, err)
		}
		reg, err := e.region(id)
		if err != nil {
			return nil, err
		}
		if err := s.Add(reg); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// LoadFile reads a region configuration from path.
func LoadFile(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// MarshalJSON encodes the set in the region configuration shape.
func (s *Set) MarshalJSON() ([]byte, error) {
	keys := make([]string, len(s.order))
	values := make([]any, len(s.order))
	for i, id := range s.order {
		r := s.byID[id]
		e := struct {
			Coordinates []geometry.PointInt `json:"coordinates"`
			MeanColor   *colorutil.RGB      `json:"mean_color,omitempty"`
		}{r.Vertices, r.Reference}
		keys[i] = id
		values[i] = e
	}
	return marshalOrdered(keys, values)
}

// SaveFile writes v (a *Set, *Calibration or *Comparison) as indented JSON.
func SaveFile(path string, v json.Marshaler) error {
	data, err := v.MarshalJSON()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// marshalOrdered writes a JSON object whose members appear in keys order.
func marshalOrdered(keys []string, values []any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(values[i])
		if err != nil {
			return nil, fmt.Errorf("region %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
