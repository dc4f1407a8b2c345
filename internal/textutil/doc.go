// Package textutil sanitizes the free-form strings (column names, salts,
// output bases) that end up in output file names.
package textutil
