package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// CurrentVersion is the document format version written by this package.
const CurrentVersion = 1

var (
	ErrDuplicateID   = errors.New("duplicate block id")
	ErrMissingID     = errors.New("block without id")
	ErrMissingType   = errors.New("block without type")
	ErrNestedColumns = errors.New("columns block nested inside columns")
)

// Document is a complete block tree plus its canvas settings. It is always
// persisted as a whole.
type Document struct {
	Blocks         []Block        `json:"blocks"`
	CanvasSettings CanvasSettings `json:"canvasSettings"`
	Version        int            `json:"version"`
}

// NewDocument returns an empty document at the current version.
func NewDocument(blocks ...Block) *Document {
	if blocks == nil {
		blocks = []Block{}
	}
	return &Document{Blocks: blocks, Version: CurrentVersion}
}

// DecodeDocument parses a JSON document.
func DecodeDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	if doc.Blocks == nil {
		doc.Blocks = []Block{}
	}
	if doc.Version == 0 {
		doc.Version = CurrentVersion
	}
	return &doc, nil
}

// DecodeDocumentYAML parses a YAML document. The YAML tree is re-encoded as
// JSON so both inputs share a single decoding path.
func DecodeDocumentYAML(data []byte) (*Document, error) {
	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to decode YAML document: %w", err)
	}
	js, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("failed to convert YAML document: %w", err)
	}
	return DecodeDocument(js)
}

// LoadDocument reads a document file. Files ending in .yaml or .yml are
// parsed as YAML, everything else as JSON.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeDocumentYAML(data)
	}
	return DecodeDocument(data)
}

// Encode returns the indented JSON form of the document.
func (d *Document) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return buf.Bytes(), nil
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() (*Document, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to clone document: %w", err)
	}
	return DecodeDocument(data)
}

// Walk visits every block depth-first in document order. Returning false
// from fn stops the walk.
func (d *Document) Walk(fn func(b Block, depth int) bool) {
	walk(d.Blocks, 0, fn)
}

func walk(blocks []Block, depth int, fn func(Block, int) bool) bool {
	for _, b := range blocks {
		if !fn(b, depth) {
			return false
		}
		if !walk(b.Children(), depth+1, fn) {
			return false
		}
	}
	return true
}

// Find returns the block with the given id anywhere in the tree.
func (d *Document) Find(id string) (Block, bool) {
	var found Block
	var ok bool
	d.Walk(func(b Block, _ int) bool {
		if b.ID == id {
			found, ok = b, true
			return false
		}
		return true
	})
	return found, ok
}

// Count returns the total number of blocks in the tree.
func (d *Document) Count() int {
	n := 0
	d.Walk(func(Block, int) bool {
		n++
		return true
	})
	return n
}

// Validate checks the structural invariants of the tree: every block has an
// id and a type, ids are unique and columns are not nested inside columns.
// All violations are reported together.
func (d *Document) Validate() error {
	var errs error
	seen := make(map[string]bool)
	var check func(blocks []Block, inColumns bool)
	check = func(blocks []Block, inColumns bool) {
		for _, b := range blocks {
			switch {
			case b.ID == "":
				errs = multierr.Append(errs, fmt.Errorf("%w (type %q)", ErrMissingID, b.Type))
			case seen[b.ID]:
				errs = multierr.Append(errs, fmt.Errorf("%w: %s", ErrDuplicateID, b.ID))
			default:
				seen[b.ID] = true
			}
			if b.Type == "" {
				errs = multierr.Append(errs, fmt.Errorf("%w: %s", ErrMissingType, b.ID))
			}
			if b.Type == TypeColumns && inColumns {
				errs = multierr.Append(errs, fmt.Errorf("%w: %s", ErrNestedColumns, b.ID))
			}
			check(b.Children(), inColumns || b.Type == TypeColumns)
		}
	}
	check(d.Blocks, false)
	return errs
}
