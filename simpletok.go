// Package simpletok only holds the version of the set of tools for word-level tokenization of plain-text corpora.
//
// There are 3 main sub-packages:
//
//   - corpus: to download (and cache) plain-text corpora and load them as text.
//   - tokenizers: to build vocabularies from a corpus and create tokenizers on top of them.
//   - tokenizers/simple: the encoders/decoders themselves, with or without support for unknown tokens.
package simpletok

// Version of the library.
// Manually kept in sync with project releases.
var Version = "v0.0.0-dev"
