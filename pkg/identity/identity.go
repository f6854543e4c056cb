// Package identity resolves a human identifier (an email address) to a
// principal known to AWS. Lookups run against an ordered list of
// backends and stop at the first hit.
package identity

import (
	"context"

	"github.com/common-fate/clio"
	"github.com/pkg/errors"
)

// Identity is a resolved principal.
type Identity struct {
	// PrincipalID is the platform identifier used for assignments
	// (the Identity Center user ID, or the IAM user ID).
	PrincipalID string
	// ARN is set for IAM users and is required for bucket policy
	// statements. Identity Center users have no principal ARN.
	ARN      string
	Username string
	// Source names the backend which produced the match.
	Source string
}

// Backend is a single identity store. Lookup returns (nil, nil) when
// the identifier is simply not present in this backend; an error means
// the backend itself could not be queried.
type Backend interface {
	Name() string
	Lookup(ctx context.Context, identifier string) (*Identity, error)
}

// Resolver queries backends in priority order.
type Resolver struct {
	backends []Backend
}

func NewResolver(backends ...Backend) *Resolver {
	return &Resolver{backends: backends}
}

// Resolve returns the first match across the backends. A backend
// failure is not fatal as long as a later backend can still answer;
// only if every backend fails does the error propagate. No match
// anywhere returns (nil, nil).
func (r *Resolver) Resolve(ctx context.Context, identifier string) (*Identity, error) {
	clio.Infof("Looking up user: %s", identifier)

	var failed int
	var lastErr error
	for _, b := range r.backends {
		id, err := b.Lookup(ctx, identifier)
		if err != nil {
			clio.Debugw("identity backend lookup failed", "backend", b.Name(), "error", err.Error())
			failed++
			lastErr = err
			continue
		}
		if id != nil {
			clio.Successf("Found user in %s: %s", b.Name(), id.Username)
			return id, nil
		}
	}
	if len(r.backends) > 0 && failed == len(r.backends) {
		return nil, errors.Wrap(lastErr, "all identity backends failed")
	}
	clio.Warnf("No user found with identifier: %s", identifier)
	return nil, nil
}
