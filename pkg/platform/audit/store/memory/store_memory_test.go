package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "swissshield/pkg/platform/audit"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	require.NoError(t, s.Append(ctx, audit.Event{Action: "a", SessionID: "cs_1"}))
	require.NoError(t, s.Append(ctx, audit.Event{Action: "b", SessionID: "cs_2"}))
	require.NoError(t, s.Append(ctx, audit.Event{Action: "c", SessionID: "cs_1"}))

	bySession, err := s.ListBySession(ctx, "cs_1")
	require.NoError(t, err)
	require.Len(t, bySession, 2)
	assert.Equal(t, "a", bySession[0].Action)
	assert.Equal(t, "c", bySession[1].Action)

	recent, err := s.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "c", recent[0].Action)
	assert.Equal(t, "b", recent[1].Action)

	all, err := s.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byAction, err := s.ListByActions(ctx, 0, "a", "c")
	require.NoError(t, err)
	require.Len(t, byAction, 2)
	assert.Equal(t, "c", byAction[0].Action)

	byAction, err = s.ListByActions(ctx, 1, "a", "b")
	require.NoError(t, err)
	require.Len(t, byAction, 1)
	assert.Equal(t, "b", byAction[0].Action)

	s.Clear()
	all, err = s.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
