package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tws-events/checkin/internal/mailer"
	"github.com/tws-events/checkin/internal/models"
	"github.com/tws-events/checkin/pkg/queue"
)

type fakeMailer struct {
	mu    sync.Mutex
	sent  []*mailer.Message
	fails int
}

func (f *fakeMailer) Send(_ context.Context, msg *mailer.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fails > 0 {
		f.fails--
		return "", errors.New("provider unavailable")
	}
	f.sent = append(f.sent, msg)
	return "msg-1", nil
}

func (f *fakeMailer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func setupQueue(t *testing.T) *queue.Queue {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return queue.NewQueue(client, nil)
}

func newNotifier(t *testing.T, q *queue.Queue, m mailer.Mailer) *PassNotifier {
	t.Helper()
	r, err := mailer.NewRenderer()
	require.NoError(t, err)
	p := NewPassNotifier(q, r, m, "TWS 2026", nil)
	p.backoff = 10 * time.Millisecond
	return p
}

var ada = &models.Registration{
	RegistrationID: "TWS-AB12-CD34",
	FullName:       "Ada Lovelace",
	Email:          "ada@example.com",
	Institution:    "Analytical Society",
}

func TestPassNotifier_Process(t *testing.T) {
	q := setupQueue(t)
	m := &fakeMailer{}
	p := newNotifier(t, q, m)
	ctx := context.Background()

	require.NoError(t, q.PassIssued(ctx, ada))
	job, err := q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, job)

	require.NoError(t, p.Process(ctx, job))
	require.Equal(t, 1, m.count())
	assert.Equal(t, "ada@example.com", m.sent[0].To)
	assert.Contains(t, m.sent[0].Subject, "TWS-AB12-CD34")
}

func TestPassNotifier_ProcessRejectsUnknownType(t *testing.T) {
	p := newNotifier(t, setupQueue(t), &fakeMailer{})
	err := p.Process(context.Background(), &queue.Job{ID: "x", Type: "recording_upload"})
	assert.Error(t, err)
}

func TestPassNotifier_RunRetriesThenDelivers(t *testing.T) {
	q := setupQueue(t)
	m := &fakeMailer{fails: 1}
	p := newNotifier(t, q, m)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, q.PassIssued(ctx, ada))

	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return m.count() == 1 }, 5*time.Second, 10*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(queue.DequeueTimeout + 2*time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	dlq, err := q.Len(context.Background(), queue.QueueDLQ)
	require.NoError(t, err)
	assert.Zero(t, dlq)
}

func TestPassNotifier_RunDeadLettersAfterMaxRetries(t *testing.T) {
	q := setupQueue(t)
	m := &fakeMailer{fails: 100}
	p := newNotifier(t, q, m)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, q.PassIssued(ctx, ada))
	go p.Run(ctx)

	require.Eventually(t, func() bool {
		n, err := q.Len(context.Background(), queue.QueueDLQ)
		return err == nil && n == 1
	}, 5*time.Second, 10*time.Millisecond)
	assert.Zero(t, m.count())
}

type memDeliveryLog struct {
	mu   sync.Mutex
	logs []models.EmailLog
}

func (m *memDeliveryLog) Record(_ context.Context, el *models.EmailLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, *el)
	return nil
}

func (m *memDeliveryLog) snapshot() []models.EmailLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.EmailLog(nil), m.logs...)
}

func TestPassNotifier_RecordsEachAttempt(t *testing.T) {
	q := setupQueue(t)
	m := &fakeMailer{fails: 1}
	p := newNotifier(t, q, m)
	log := &memDeliveryLog{}
	p.SetDeliveryLog(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, q.PassIssued(ctx, ada))
	go p.Run(ctx)

	require.Eventually(t, func() bool { return len(log.snapshot()) == 2 }, 5*time.Second, 10*time.Millisecond)
	logs := log.snapshot()
	assert.Equal(t, models.EmailLogStatusFailed, logs[0].Status)
	assert.Equal(t, "provider unavailable", logs[0].ErrorMessage)
	assert.Equal(t, 0, logs[0].Attempt)
	assert.Equal(t, models.EmailLogStatusSent, logs[1].Status)
	assert.Equal(t, "msg-1", logs[1].MessageID)
	assert.Equal(t, 1, logs[1].Attempt)
	for _, el := range logs {
		assert.Equal(t, "TWS-AB12-CD34", el.RegistrationID)
		assert.Equal(t, "ada@example.com", el.RecipientEmail)
		assert.Equal(t, models.EmailTypePassConfirmation, el.EmailType)
	}
}
