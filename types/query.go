package types

import (
	"net/netip"
	"slices"

	"ipapi-go/errors"
)

// Query is one input item for a location lookup. Target is required;
// Fields and Lang are optional per-item overrides layered over the
// call-level defaults, which in turn are layered over the service's
// implicit defaults (item > call > service).
type Query struct {
	// Target is an IP literal or a domain name.
	// Domain names are only accepted by the single-query endpoint.
	Target string

	// Fields limits which response fields the service returns.
	// Empty means "inherit".
	Fields []string

	// Lang selects the language of the textual response fields.
	// Empty means "inherit".
	Lang string
}

func NewQuery(target string) Query {
	return Query{Target: target}
}

// Defaults holds the call-level Fields/Lang applied to every query
// that does not carry its own override.
type Defaults struct {
	Fields []string
	Lang   string
}

// CanonicalQuery is a fully resolved query as transmitted to the batch
// endpoint: one element of the POST /batch JSON array. Fields and Lang
// are omitted on the wire when the service defaults apply.
type CanonicalQuery struct {
	Query  string   `json:"query"`
	Fields []string `json:"fields,omitempty"`
	Lang   string   `json:"lang,omitempty"`
}

// Canonical merges the query with the call-level defaults into a
// canonical request record. The result is immutable from the caller's
// point of view: Fields is always a fresh slice.
func (q Query) Canonical(call Defaults) (CanonicalQuery, error) {
	if q.Target == "" {
		return CanonicalQuery{}, &errors.InvalidQueryError{
			Reason: "target must not be empty",
		}
	}

	fields := q.Fields
	if len(fields) == 0 {
		fields = call.Fields
	}

	lang := q.Lang
	if lang == "" {
		lang = call.Lang
	}

	return CanonicalQuery{
		Query:  q.Target,
		Fields: WithServiceFields(fields),
		Lang:   lang,
	}, nil
}

// IsDomain reports whether the canonical target is a domain name
// rather than an IP literal.
func (c CanonicalQuery) IsDomain() bool {
	_, err := netip.ParseAddr(c.Query)
	return err != nil
}

// WithServiceFields appends the always-required service fields
// (status, message, query) to a user field selection, preserving the
// user's order and without duplicating fields already present.
// A nil selection stays nil: no fields parameter is sent and the
// service applies its own default set.
func WithServiceFields(fields []string) []string {
	if len(fields) == 0 {
		return nil
	}
	out := slices.Clone(fields)
	for _, f := range ServiceFields {
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}
