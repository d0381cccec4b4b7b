// Package analysis holds the text primitives shared by indexing and
// retrieval: tokenisation, accent and case folding, fold-aware substring
// location, snippets, sentence splitting and a string similarity ratio.
//
// Both index engines and the retriever tokenise through this package so
// that query terms and indexed terms always agree.
package analysis
