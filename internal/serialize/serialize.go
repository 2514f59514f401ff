package serialize

import (
	"bytes"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/tsreflect/tsreflect/internal/model"
)

// Format names an output encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// Options controls encoding.
type Options struct {
	Format Format
	// Pretty indents JSON output. It has no effect on MessagePack.
	Pretty bool
}

// Write encodes the project to w.
func Write(w io.Writer, p *model.Project, opts Options) error {
	return WriteDocument(w, Build(p), opts)
}

// WriteDocument encodes an already built document.
func WriteDocument(w io.Writer, doc *Document, opts Options) error {
	switch opts.Format {
	case FormatJSON, "":
		jsonOpts := []json.Options{json.Deterministic(true)}
		if opts.Pretty {
			jsonOpts = append(jsonOpts, jsontext.WithIndent("  "))
		}
		if err := json.MarshalWrite(w, doc, jsonOpts...); err != nil {
			return errors.Wrap(err, "encoding json")
		}
		if opts.Pretty {
			_, err := io.WriteString(w, "\n")
			return err
		}
		return nil
	case FormatMsgpack:
		enc := msgpack.NewEncoder(w)
		enc.UseCompactInts(true)
		if err := enc.Encode(doc); err != nil {
			return errors.Wrap(err, "encoding msgpack")
		}
		return nil
	}
	return errors.Newf("unknown format %q", opts.Format)
}

// Marshal encodes the project into memory.
func Marshal(p *model.Project, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, p, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Read decodes a document written by Write. Documents with a newer schema
// version are rejected.
func Read(r io.Reader, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatJSON, "":
		if err := json.UnmarshalRead(r, &doc); err != nil {
			return nil, errors.Wrap(err, "decoding json")
		}
	case FormatMsgpack:
		if err := msgpack.NewDecoder(r).Decode(&doc); err != nil {
			return nil, errors.Wrap(err, "decoding msgpack")
		}
	default:
		return nil, errors.Newf("unknown format %q", format)
	}
	if doc.SchemaVersion > SchemaVersion {
		return nil, errors.WithHint(
			errors.Newf("document schema version %d is newer than %d", doc.SchemaVersion, SchemaVersion),
			"upgrade tsreflect to read this file")
	}
	return &doc, nil
}
