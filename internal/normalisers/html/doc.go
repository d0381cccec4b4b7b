// Package html provides a Normaliser implementation for HTML documents.
// It walks the DOM, drops navigation and boilerplate elements and emits one
// line per block element. Web pages flagged for readability are reduced to
// their main article first.
package html
