package rdf

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Codec converts between a Graph and one serialization format.
type Codec interface {
	Format() Format
	// Serialize writes g to w. Output is produced only when serialization
	// succeeds as a whole.
	Serialize(w io.Writer, g *Graph) error
	// Deserialize parses a complete document. On error no graph is returned.
	Deserialize(r io.Reader) (*Graph, error)
}

// NewCodec returns the codec for format.
func NewCodec(format Format, opts ...Option) (Codec, error) {
	options := buildOptions(opts)
	switch format {
	case FormatNTriples:
		return &ntriplesCodec{opts: options}, nil
	case FormatTurtle:
		return &turtleCodec{opts: options}, nil
	case FormatTriX:
		return &trixCodec{opts: options}, nil
	case FormatRDFXML:
		return &rdfxmlCodec{opts: options}, nil
	case FormatJSONLD:
		return &jsonldCodec{opts: options}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Serialize writes g to w in the given format.
func Serialize(format Format, g *Graph, w io.Writer, opts ...Option) error {
	codec, err := NewCodec(format, opts...)
	if err != nil {
		return err
	}
	return codec.Serialize(w, g)
}

// SerializeFile writes g to path. The file is replaced only when
// serialization succeeds.
func SerializeFile(format Format, g *Graph, path string, opts ...Option) error {
	var buf bytes.Buffer
	if err := Serialize(format, g, &buf, opts...); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Deserialize parses a graph from r.
func Deserialize(format Format, r io.Reader, opts ...Option) (*Graph, error) {
	codec, err := NewCodec(format, opts...)
	if err != nil {
		return nil, err
	}
	return codec.Deserialize(r)
}

// DeserializeFile parses a graph from path.
func DeserializeFile(format Format, path string, opts ...Option) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Deserialize(format, f, opts...)
}

// Convert parses r as from and writes the graph to w as to.
func Convert(from, to Format, r io.Reader, w io.Writer, opts ...Option) error {
	g, err := Deserialize(from, r, opts...)
	if err != nil {
		return err
	}
	return Serialize(to, g, w, opts...)
}

func readAllString(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func writeAll(w io.Writer, data []byte) error {
	_, err := w.Write(data)
	return err
}
