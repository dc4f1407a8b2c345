// Package tokenize turns raw field values into ordered word tokens.
//
// A Tokenizer applies, in order: the punctuation policy (strip or isolate),
// case folding, whitespace splitting, and an optional Stemmer. Non-text values
// bypass all of this and become a single token equal to their string form;
// a missing cell becomes the token "nan".
// Output is a pure function of the input and Options.
package tokenize
