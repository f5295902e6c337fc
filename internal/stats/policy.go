package stats

import "fmt"

// AnonymousPolicy decides how submissions without a client are aggregated.
type AnonymousPolicy string

const (
	// AnonymousInclude aggregates anonymous submissions like any other.
	AnonymousInclude AnonymousPolicy = "include"
	// AnonymousExclude drops anonymous submissions before aggregation.
	AnonymousExclude AnonymousPolicy = "exclude"
	// AnonymousSeparate aggregates everything and adds a source breakdown.
	AnonymousSeparate AnonymousPolicy = "separate"
)

const (
	SourceAnonymous = "anonym"
	SourceAssigned  = "zugewiesen"
)

func ParseAnonymousPolicy(s string) (AnonymousPolicy, error) {
	switch p := AnonymousPolicy(s); p {
	case AnonymousInclude, AnonymousExclude, AnonymousSeparate:
		return p, nil
	case "":
		return AnonymousInclude, nil
	default:
		return "", fmt.Errorf("unknown anonymous policy %q", s)
	}
}
