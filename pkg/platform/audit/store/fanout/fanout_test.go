package fanout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "swissshield/pkg/platform/audit"
	"swissshield/pkg/platform/audit/store/memory"
)

type failingStore struct{ calls int }

func (f *failingStore) Append(context.Context, audit.Event) error {
	f.calls++
	return errors.New("broker down")
}

func TestAppendReachesEveryStore(t *testing.T) {
	primary := memory.NewInMemoryStore()
	broken := &failingStore{}
	secondary := memory.NewInMemoryStore()
	s := New(primary, broken, secondary)

	err := s.Append(context.Background(), audit.Event{Action: "checkout_started", SessionID: "cs_1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
	assert.Equal(t, 1, broken.calls)

	for _, st := range []*memory.InMemoryStore{primary, secondary} {
		events, err := st.ListBySession(context.Background(), "cs_1")
		require.NoError(t, err)
		assert.Len(t, events, 1)
	}

	events, err := s.ListBySession(context.Background(), "cs_1")
	require.NoError(t, err)
	assert.Len(t, events, 1)

	events, err = s.ListByActions(context.Background(), 10, audit.EventCheckoutStarted)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestReadsNeedReadablePrimary(t *testing.T) {
	s := New(&failingStore{}, memory.NewInMemoryStore())
	_, err := s.ListRecent(context.Background(), 10)
	assert.ErrorIs(t, err, ErrNotReadable)
	_, err = s.ListByActions(context.Background(), 10, audit.EventDownloadDenied)
	assert.ErrorIs(t, err, ErrNotReadable)
}
