package refs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	records map[uint]string
	fail    bool
}

func (f *fakeResolver) Exists(_ context.Context, id uint) (bool, error) {
	if f.fail {
		return false, errors.New("store down")
	}
	_, ok := f.records[id]
	return ok, nil
}

func (f *fakeResolver) DisplayName(_ context.Context, id uint) (string, error) {
	if f.fail {
		return "", errors.New("store down")
	}
	name, ok := f.records[id]
	if !ok {
		return "", errors.New("not found")
	}
	return name, nil
}

func TestDisplayName(t *testing.T) {
	ctx := context.Background()
	registry := NewRegistry()
	registry.Register("widget", &fakeResolver{records: map[uint]string{1: "The Widget"}})
	registry.Register("broken", &fakeResolver{fail: true})

	require.Equal(t, "", registry.DisplayName(ctx, "", 1))
	require.Equal(t, "", registry.DisplayName(ctx, "widget", 0))
	require.Equal(t, "The Widget", registry.DisplayName(ctx, "widget", 1))
	require.Equal(t, "Deleted widget #2", registry.DisplayName(ctx, "widget", 2))
	require.Equal(t, "Invalid nonexistent.model #7", registry.DisplayName(ctx, "nonexistent.model", 7))
	require.Equal(t, "Invalid broken #1", registry.DisplayName(ctx, "broken", 1))
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	registry := NewRegistry()
	registry.Register("widget", &fakeResolver{records: map[uint]string{1: "The Widget"}})
	registry.Register("broken", &fakeResolver{fail: true})

	target := registry.Resolve(ctx, "widget", 1)
	require.NotNil(t, target)
	require.Equal(t, Target{Model: "widget", ID: 1, DisplayName: "The Widget"}, *target)

	require.Nil(t, registry.Resolve(ctx, "", 1))
	require.Nil(t, registry.Resolve(ctx, "widget", 0))
	require.Nil(t, registry.Resolve(ctx, "widget", 2))
	require.Nil(t, registry.Resolve(ctx, "nonexistent.model", 7))
	require.Nil(t, registry.Resolve(ctx, "broken", 1))
}
