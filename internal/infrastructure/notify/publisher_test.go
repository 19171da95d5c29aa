package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/survivor-fantasy/internal/domain/signal"
	"github.com/riskibarqy/survivor-fantasy/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type enqueueCall struct {
	path    string
	payload any
	dedupID string
}

type recordingQueue struct {
	calls []enqueueCall
	err   error
}

func (q *recordingQueue) Enqueue(_ context.Context, path string, payload any, _ time.Duration, dedupID string) error {
	q.calls = append(q.calls, enqueueCall{path: path, payload: payload, dedupID: dedupID})
	return q.err
}

func TestQueuePublisher_Publish(t *testing.T) {
	t.Parallel()

	queue := &recordingQueue{}
	publisher := NewQueuePublisher(queue, "", logging.NewNop())

	at := time.Date(2026, 3, 5, 1, 0, 0, 0, time.UTC)
	err := publisher.Publish(context.Background(), signal.Signal{
		Kind:       signal.KindTorchSnuffed,
		LeagueID:   "league-official-48",
		EpisodeID:  "season-48-ep-03",
		UserID:     "user 07",
		OccurredAt: at,
	})
	require.NoError(t, err)
	require.Len(t, queue.calls, 1)

	call := queue.calls[0]
	assert.Equal(t, DefaultTargetPath, call.path)
	assert.Equal(t, "torch_snuffed-league-official-48-season-48-ep-03-user-07", call.dedupID)
	body, ok := call.payload.(payload)
	require.True(t, ok)
	assert.Equal(t, "torch_snuffed", body.Kind)
	assert.Equal(t, at, body.OccurredAt)
}

func TestQueuePublisher_WrapsQueueError(t *testing.T) {
	t.Parallel()

	boom := errors.New("queue down")
	publisher := NewQueuePublisher(&recordingQueue{err: boom}, "/hooks/signals", logging.NewNop())

	err := publisher.Publish(context.Background(), signal.Signal{Kind: signal.KindEpisodeScored, EpisodeID: "ep-1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	err = publisher.Publish(context.Background(), signal.Signal{})
	require.Error(t, err)
}

func TestLogPublisher_NeverFails(t *testing.T) {
	t.Parallel()

	var p signal.Publisher = NewLogPublisher(logging.NewNop())
	require.NoError(t, p.Publish(context.Background(), signal.Signal{Kind: signal.KindDraftPickMade}))
}
