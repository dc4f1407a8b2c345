// Package dataset reads and writes the delimited text files a run transforms.
//
// A Frame holds the header and every record in memory. Columns are typed on
// read: a column whose every non-empty cell parses as a number is numeric and
// its cells surface as int64 or float64 values, everything else is text.
// Empty cells surface as nil. Input and output text encodings are resolved
// through golang.org/x/text so Latin-1 exports can be read without
// pre-conversion.
package dataset
