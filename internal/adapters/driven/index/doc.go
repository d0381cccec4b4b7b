// Package index holds the search engine adapters.
//
// Two engines implement driven.SearchEngine:
//
//   - memory: an inverted index with BM25 or term-frequency scoring, rebuilt
//     from the stores at start-up
//   - bleve: an on-disk bleve index under the data directory
//
// Both tokenise entry text with analysis.Tokenize so that query terms and
// indexed terms are folded the same way.
package index
