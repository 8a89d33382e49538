package model

import (
	"errors"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrInvalidJSON is returned when a JSONProxy is given a malformed
// document.
var ErrInvalidJSON = errors.New("invalid JSON document")

// JSONProxy holds a JSON document and exposes path-based access to it.
// Paths use gjson syntax, e.g. "user.addresses.0.city". The document is
// stored as the proxy data (a string), so generic registry consumers see
// it like any other payload.
type JSONProxy struct {
	BaseProxy
}

// NewJSONProxy creates a JSON proxy with the given document. An empty
// document defaults to "{}".
func NewJSONProxy(name, document string) (*JSONProxy, error) {
	if document == "" {
		document = "{}"
	}
	if !gjson.Valid(document) {
		return nil, ErrInvalidJSON
	}
	return &JSONProxy{BaseProxy: NewBaseProxy(name, document)}, nil
}

// Document returns the current JSON document.
func (p *JSONProxy) Document() string {
	doc, _ := p.Data().(string)
	return doc
}

// Get returns the value at path. The zero gjson.Result is returned when
// the path does not exist; check Result.Exists().
func (p *JSONProxy) Get(path string) gjson.Result {
	return gjson.Get(p.Document(), path)
}

// Set writes value at path, replacing the held document.
func (p *JSONProxy) Set(path string, value any) error {
	doc, err := sjson.Set(p.Document(), path, value)
	if err != nil {
		return err
	}
	p.SetData(doc)
	return nil
}

// Delete removes the value at path, replacing the held document.
func (p *JSONProxy) Delete(path string) error {
	doc, err := sjson.Delete(p.Document(), path)
	if err != nil {
		return err
	}
	p.SetData(doc)
	return nil
}
