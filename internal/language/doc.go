// Package language maps user-supplied language codes and names onto the
// stemmer languages the tokenizer can use.
//
// Config values may be ISO 639-1 codes ("en"), ISO 639-2 codes ("eng",
// "fre"), or English names ("english"); all resolve to one entry.
package language
