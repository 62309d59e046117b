package keyring

import (
	"sort"
	"strings"
)

// RecipientSet is a set of opaque recipient strings. Duplicates collapse and
// blank entries are ignored.
type RecipientSet struct {
	m map[string]struct{}
}

// NewRecipientSet builds a set from the given recipients.
func NewRecipientSet(recipients ...string) RecipientSet {
	var s RecipientSet
	s.Add(recipients...)
	return s
}

// Add inserts recipients, trimming surrounding whitespace.
func (s *RecipientSet) Add(recipients ...string) {
	for _, r := range recipients {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if s.m == nil {
			s.m = make(map[string]struct{})
		}
		s.m[r] = struct{}{}
	}
}

// Union returns a new set holding the recipients of both sets.
func (s RecipientSet) Union(other RecipientSet) RecipientSet {
	out := NewRecipientSet(s.Sorted()...)
	out.Add(other.Sorted()...)
	return out
}

// Contains reports whether r is in the set.
func (s RecipientSet) Contains(r string) bool {
	_, ok := s.m[strings.TrimSpace(r)]
	return ok
}

func (s RecipientSet) Len() int {
	return len(s.m)
}

func (s RecipientSet) IsEmpty() bool {
	return len(s.m) == 0
}

// Sorted returns the recipients in lexical order.
func (s RecipientSet) Sorted() []string {
	out := make([]string, 0, len(s.m))
	for r := range s.m {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}
