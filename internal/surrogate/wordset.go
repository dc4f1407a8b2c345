package surrogate

import (
	"fmt"
	"slices"
	"strings"
)

// WordSet is a set of tokens.
type WordSet map[string]struct{}

// NewWordSet builds a set from words, ignoring empty strings.
func NewWordSet(words ...string) WordSet {
	set := make(WordSet, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		set[w] = struct{}{}
	}
	return set
}

// ParseWordSet splits a whitespace-joined word list into a set.
func ParseWordSet(list string) WordSet {
	return NewWordSet(strings.Fields(list)...)
}

// Has reports membership. A nil set has no members.
func (s WordSet) Has(word string) bool {
	_, ok := s[word]
	return ok
}

// Sorted returns the members in byte order.
func (s WordSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for w := range s {
		out = append(out, w)
	}
	slices.Sort(out)
	return out
}

// Join returns the sorted members joined by single spaces.
func (s WordSet) Join() string {
	return strings.Join(s.Sorted(), " ")
}

func (s WordSet) add(word string) {
	s[word] = struct{}{}
}

func (s WordSet) union(other WordSet) WordSet {
	out := make(WordSet, len(s)+len(other))
	for w := range s {
		out.add(w)
	}
	for w := range other {
		out.add(w)
	}
	return out
}

// BucketSet holds the three stop-word sets whose members share a reserved surrogate.
type BucketSet struct {
	StopWords WordSet
	StopAbove WordSet
	StopBelow WordSet
}

// Empty reports whether no set has members.
func (b BucketSet) Empty() bool {
	return len(b.StopWords) == 0 && len(b.StopAbove) == 0 && len(b.StopBelow) == 0
}

// Validate rejects tokens that appear in more than one set.
func (b BucketSet) Validate() error {
	seen := make(map[string]string)
	for _, named := range []struct {
		name string
		set  WordSet
	}{
		{"stop_above_words", b.StopAbove},
		{"stop_below_words", b.StopBelow},
		{"stop_words", b.StopWords},
	} {
		for _, w := range named.set.Sorted() {
			if prev, ok := seen[w]; ok {
				return fmt.Errorf("%w: %q in %s and %s", ErrOverlappingBuckets, w, prev, named.name)
			}
			seen[w] = named.name
		}
	}
	return nil
}

// Merge unions two bucket sets member-wise.
func (b BucketSet) Merge(other BucketSet) BucketSet {
	return BucketSet{
		StopWords: b.StopWords.union(other.StopWords),
		StopAbove: b.StopAbove.union(other.StopAbove),
		StopBelow: b.StopBelow.union(other.StopBelow),
	}
}
