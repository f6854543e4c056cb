package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	name    string
	result  *Identity
	err     error
	lookups int
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) Lookup(ctx context.Context, identifier string) (*Identity, error) {
	f.lookups++
	return f.result, f.err
}

func TestResolverShortCircuitsOnFirstMatch(t *testing.T) {
	ctx := context.Background()
	match := &Identity{PrincipalID: "u-1", Username: "jane@example.com", Source: "identity-center"}
	a := &fakeBackend{name: "A", result: match}
	b := &fakeBackend{name: "B"}

	got, err := NewResolver(a, b).Resolve(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, match, got)
	assert.Equal(t, 1, a.lookups)
	assert.Equal(t, 0, b.lookups, "backend B must not be queried when A matches")
}

func TestResolverFallsThroughToSecondBackend(t *testing.T) {
	ctx := context.Background()
	match := &Identity{PrincipalID: "AIDAEXAMPLE", Username: "jane", Source: "iam"}
	a := &fakeBackend{name: "A"}
	b := &fakeBackend{name: "B", result: match}

	got, err := NewResolver(a, b).Resolve(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, match, got)
	assert.Equal(t, 1, a.lookups)
	assert.Equal(t, 1, b.lookups)
}

// The result must not depend on which backend holds the match.
func TestResolverSameResultEitherBackend(t *testing.T) {
	ctx := context.Background()
	match := &Identity{PrincipalID: "u-1", Username: "jane"}

	fromA, err := NewResolver(&fakeBackend{name: "A", result: match}, &fakeBackend{name: "B"}).Resolve(ctx, "jane")
	require.NoError(t, err)
	fromB, err := NewResolver(&fakeBackend{name: "A"}, &fakeBackend{name: "B", result: match}).Resolve(ctx, "jane")
	require.NoError(t, err)
	assert.Equal(t, fromA, fromB)
}

func TestResolverSkipsFailingBackend(t *testing.T) {
	ctx := context.Background()
	match := &Identity{PrincipalID: "AIDAEXAMPLE", Username: "jane", Source: "iam"}
	a := &fakeBackend{name: "A", err: errors.New("identity store unreachable")}
	b := &fakeBackend{name: "B", result: match}

	got, err := NewResolver(a, b).Resolve(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, match, got)
}

func TestResolverNotFoundIsNotAnError(t *testing.T) {
	ctx := context.Background()
	got, err := NewResolver(&fakeBackend{name: "A"}, &fakeBackend{name: "B"}).Resolve(ctx, "ghost@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResolverAllBackendsFailing(t *testing.T) {
	ctx := context.Background()
	a := &fakeBackend{name: "A", err: errors.New("identity store unreachable")}
	b := &fakeBackend{name: "B", err: errors.New("iam unreachable")}

	got, err := NewResolver(a, b).Resolve(ctx, "jane@example.com")
	assert.Error(t, err)
	assert.Nil(t, got)
}
