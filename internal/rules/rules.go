// Package rules holds the knowledge base of minimum-version requirements:
// read-only tables mapping feature signatures (module paths, qualified
// members, keyword-argument pairs, strftime directives, array typecodes,
// codec names) to the version pair they demand.
//
// The analysis core consumes a Ruleset but never mutates it; callers may
// inject a custom Ruleset, typically a superset or trimmed copy of
// Default().
package rules

import (
	"strings"

	"github.com/cbergh/pyfloor/internal/version"
)

// Kwarg is a (qualified function, keyword name) signature.
type Kwarg struct {
	Function string
	Keyword  string
}

// Encoding is one codec family: a canonical name plus accepted aliases,
// matched case-insensitively.
type Encoding struct {
	Name    string
	Aliases []string
	Req     version.Pair
}

// Ruleset is the injected knowledge base. All maps are keyed by exact
// spelling except encodings, which go through MatchEncoding.
type Ruleset struct {
	Modules             map[string]version.Pair
	Members             map[string]version.Pair
	Kwargs              map[Kwarg]version.Pair
	Strftime            map[string]version.Pair
	ArrayTypecodes      map[string]version.Pair
	CodecsErrorHandlers map[string]version.Pair
	CodecsEncodings     []Encoding

	// CodecsErrorsIndices maps qualified functions that accept an error
	// handler to the positional index of that argument.
	CodecsErrorsIndices map[string]int

	// CodecsEncodingsIndices maps qualified functions that accept encoding
	// names to the positional indices to inspect.
	CodecsEncodingsIndices map[string][]int
}

// HasMember reports whether qualified name is a known member signature.
func (r *Ruleset) HasMember(name string) bool {
	_, ok := r.Members[name]
	return ok
}

// HasKwarg reports whether (function, keyword) is a known signature.
func (r *Ruleset) HasKwarg(function, keyword string) bool {
	_, ok := r.Kwargs[Kwarg{Function: function, Keyword: keyword}]
	return ok
}

// MatchEncoding resolves an encoding name, case-insensitively, against the
// canonical alias sets. Returns the canonical name and requirement.
func (r *Ruleset) MatchEncoding(name string) (string, version.Pair, bool) {
	lower := strings.ToLower(name)
	for _, enc := range r.CodecsEncodings {
		if lower == strings.ToLower(enc.Name) {
			return enc.Name, enc.Req, true
		}
		for _, alias := range enc.Aliases {
			if lower == strings.ToLower(alias) {
				return enc.Name, enc.Req, true
			}
		}
	}
	return "", version.Pair{}, false
}
