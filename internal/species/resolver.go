package species

import (
	"strings"
)

// MatchRule names the ladder rule that produced a match.
type MatchRule string

const (
	RuleScientificExact  MatchRule = "scientific-exact"
	RuleCommonName       MatchRule = "common-name"
	RuleScientificPrefix MatchRule = "scientific-prefix"
	RuleGenusFallback    MatchRule = "genus-fallback"
)

// Match is a resolver result. GenusFallback marks an approximate match so
// callers can warn the user.
type Match struct {
	Record        *Record
	Rule          MatchRule
	GenusFallback bool
}

// matcher is one rung of the resolution ladder: a pure predicate over the
// catalog and the normalized query.
type matcher struct {
	rule  MatchRule
	match func(catalog *Catalog, query string) *Record
}

// Resolver matches free-text species queries against an injected catalog.
// The ladder is an ordered list of matchers, first hit wins, ties broken
// by catalog order.
type Resolver struct {
	catalog *Catalog
	ladder  []matcher
}

// NewResolver creates a resolver over the given catalog.
func NewResolver(catalog *Catalog) *Resolver {
	return &Resolver{
		catalog: catalog,
		ladder: []matcher{
			{rule: RuleScientificExact, match: matchScientificExact},
			{rule: RuleCommonName, match: matchCommonName},
			{rule: RuleScientificPrefix, match: matchScientificPrefix},
			{rule: RuleGenusFallback, match: matchGenusFallback},
		},
	}
}

// Resolve runs the ladder over the query. Returns nil when no rule
// matches. Pure function over its inputs; the catalog is never mutated.
func (r *Resolver) Resolve(query string) *Match {
	normalized := Normalize(query)
	if normalized == "" {
		return nil
	}

	for i := range r.ladder {
		rung := &r.ladder[i]
		if record := rung.match(r.catalog, normalized); record != nil {
			return &Match{
				Record:        record,
				Rule:          rung.rule,
				GenusFallback: rung.rule == RuleGenusFallback,
			}
		}
	}
	return nil
}

// matchScientificExact matches the normalized scientific name exactly.
func matchScientificExact(catalog *Catalog, query string) *Record {
	for i := range catalog.Records {
		if Normalize(catalog.Records[i].ScientificName) == query {
			return &catalog.Records[i]
		}
	}
	return nil
}

// matchCommonName matches any normalized common name across all languages.
func matchCommonName(catalog *Catalog, query string) *Record {
	for i := range catalog.Records {
		for _, names := range catalog.Records[i].CommonNames {
			for _, name := range names {
				if Normalize(name) == query {
					return &catalog.Records[i]
				}
			}
		}
	}
	return nil
}

// matchScientificPrefix matches when the query is a prefix of the
// normalized scientific name.
func matchScientificPrefix(catalog *Catalog, query string) *Record {
	for i := range catalog.Records {
		if strings.HasPrefix(Normalize(catalog.Records[i].ScientificName), query) {
			return &catalog.Records[i]
		}
	}
	return nil
}

// matchGenusFallback takes the first token of the query as a genus and
// returns the first record of that genus.
func matchGenusFallback(catalog *Catalog, query string) *Record {
	genus := firstToken(query)
	if genus == "" {
		return nil
	}
	prefix := genus + " "
	for i := range catalog.Records {
		if strings.HasPrefix(Normalize(catalog.Records[i].ScientificName), prefix) {
			return &catalog.Records[i]
		}
	}
	return nil
}
