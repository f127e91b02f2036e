// Package jsonapi provides JSON:API style envelope types for API responses.
package jsonapi

// Meta holds non-standard meta-information about a document, such as
// pagination counts.
type Meta map[string]any

// Links holds pagination links associated with a list document.
type Links struct {
	Self  string `json:"self,omitempty"`
	First string `json:"first,omitempty"`
	Last  string `json:"last,omitempty"`
	Prev  string `json:"prev,omitempty"`
	Next  string `json:"next,omitempty"`
}
