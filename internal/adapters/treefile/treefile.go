// Package treefile reads and writes hierarchy documents.
//
// A document is one nested node:
//
//	name: Memory
//	attributes:
//	  average_cost: 0
//	  max_speed: 0
//	  max_storage_capacity: 0
//	  release_year: 0
//	  general_purpose: false
//	children:
//	  - name: RAM
//	    ...
//
// JSON documents are accepted as well since JSON is a YAML subset.
package treefile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/okian/memtree/internal/domain/hierarchy"
	"gopkg.in/yaml.v3"
)

// Sentinel kinds for document errors.
var (
	ErrEmptyDocument = errors.New("empty tree document")
	ErrDecode        = errors.New("decode tree document")
)

// document is the on-disk shape of one node.
type document struct {
	Name       string               `yaml:"name"`
	Attributes hierarchy.Attributes `yaml:"attributes"`
	Children   []document           `yaml:"children,omitempty"`
}

// Load reads a hierarchy document from path.
func Load(path string) (*hierarchy.Tree, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open tree file: %w", err)
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// LoadOrDefault loads path, or returns the built-in hierarchy when path is
// empty.
func LoadOrDefault(path string) (*hierarchy.Tree, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Parse decodes a hierarchy document and builds the tree.
func Parse(r io.Reader) (*hierarchy.Tree, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDocument
		}
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if doc.Name == "" && len(doc.Children) == 0 {
		return nil, ErrEmptyDocument
	}

	t, err := hierarchy.New(doc.Name, doc.Attributes)
	if err != nil {
		return nil, err
	}
	if err := addChildren(t, doc.Name, doc.Children); err != nil {
		return nil, err
	}
	return t, nil
}

func addChildren(t *hierarchy.Tree, parent string, children []document) error {
	for _, c := range children {
		if _, err := t.AddChild(parent, c.Name, c.Attributes); err != nil {
			return fmt.Errorf("under %q: %w", parent, err)
		}
		if err := addChildren(t, c.Name, c.Children); err != nil {
			return err
		}
	}
	return nil
}

// Encode writes t in the document format.
func Encode(w io.Writer, t *hierarchy.Tree) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toDocument(t.Root())); err != nil {
		return fmt.Errorf("encode tree document: %w", err)
	}
	return enc.Close()
}

func toDocument(n *hierarchy.Node) document {
	d := document{Name: n.Name(), Attributes: n.Attributes()}
	for _, c := range n.Children() {
		d.Children = append(d.Children, toDocument(c))
	}
	return d
}
