package resource

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// documentFile is the on-disk JSON shape of a Document.
type documentFile struct {
	Elements []Element `json:"elements"`
}

// LoadDocument reads a model document from a JSON file.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model file %s: %w", path, err)
	}
	var file documentFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse model file %s: %w", path, err)
	}
	doc := NewDocument()
	for _, el := range file.Elements {
		if el.ID == "" {
			return nil, fmt.Errorf("parse model file %s: element with empty id", path)
		}
		if _, exists := doc.elements[el.ID]; exists {
			return nil, fmt.Errorf("parse model file %s: duplicate element id %q", path, el.ID)
		}
		doc.elements[el.ID] = el
	}
	return doc, nil
}

// Save writes the document to a JSON file. It refuses to run while a scope
// is open, since the document's state would be provisional.
func (d *Document) Save(path string) error {
	if len(d.scopes) > 0 {
		return fmt.Errorf("save model file %s: %d scope(s) still open", path, len(d.scopes))
	}
	file := documentFile{Elements: make([]Element, 0, len(d.elements))}
	for _, el := range d.elements {
		file.Elements = append(file.Elements, el)
	}
	sort.Slice(file.Elements, func(i, j int) bool {
		return file.Elements[i].ID < file.Elements[j].ID
	})
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encode model file %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write model file %s: %w", path, err)
	}
	return nil
}
