package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tnqbao/gau-wiki-gateway/entity"
	"github.com/tnqbao/gau-wiki-gateway/infra"
	"github.com/tnqbao/gau-wiki-gateway/infra/produce"
	"github.com/tnqbao/gau-wiki-gateway/repository"
	"gorm.io/datatypes"
)

type ackRecorder struct {
	mu      sync.Mutex
	acked   int
	nacked  int
	requeue bool
}

func (a *ackRecorder) Ack(uint64, bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acked++
	return nil
}

func (a *ackRecorder) Nack(_ uint64, _ bool, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nacked++
	a.requeue = requeue
	return nil
}

func (a *ackRecorder) Reject(_ uint64, requeue bool) error {
	return a.Nack(0, false, requeue)
}

type update struct {
	id     uuid.UUID
	status entity.ParseStatus
	result string
	err    string
}

type stubStore struct {
	errs    []error
	updates []update
}

func (s *stubStore) UpdateParseResult(_ context.Context, id uuid.UUID, status entity.ParseStatus, result datatypes.JSON, parseErr string) error {
	s.updates = append(s.updates, update{id: id, status: status, result: string(result), err: parseErr})
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		return err
	}
	return nil
}

func newTestConsumer(store *stubStore) *ParseResultConsumer {
	c := NewParseResultConsumer(nil, store, infra.NewLoggerClient(nil))
	c.backoff = time.Millisecond
	return c
}

func delivery(body string, ack *ackRecorder) amqp.Delivery {
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte(body)}
}

func TestHandle_StoresResult(t *testing.T) {
	store := &stubStore{}
	ack := &ackRecorder{}
	id := uuid.New()

	newTestConsumer(store).handle(context.Background(),
		delivery(`{"file_id":"`+id.String()+`","parse_status":"parsed","result":{"pages":3}}`, ack))

	require.Len(t, store.updates, 1)
	assert.Equal(t, id, store.updates[0].id)
	assert.Equal(t, entity.ParseStatusParsed, store.updates[0].status)
	assert.JSONEq(t, `{"pages":3}`, store.updates[0].result)
	assert.Equal(t, 1, ack.acked)
	assert.Zero(t, ack.nacked)
}

func TestHandle_MalformedIsDropped(t *testing.T) {
	for _, body := range []string{
		`not json`,
		`{"file_id":"nope","parse_status":"parsed"}`,
		`{"file_id":"` + uuid.NewString() + `","parse_status":"weird"}`,
	} {
		store := &stubStore{}
		ack := &ackRecorder{}
		newTestConsumer(store).handle(context.Background(), delivery(body, ack))

		assert.Empty(t, store.updates, body)
		assert.Equal(t, 1, ack.nacked, body)
		assert.False(t, ack.requeue, body)
	}
}

func TestHandle_UnknownFileIsAcked(t *testing.T) {
	store := &stubStore{errs: []error{repository.ErrNotFound}}
	ack := &ackRecorder{}

	newTestConsumer(store).handle(context.Background(),
		delivery(`{"file_id":"`+uuid.NewString()+`","parse_status":"failed","error":"bad pdf"}`, ack))

	assert.Len(t, store.updates, 1)
	assert.Equal(t, "bad pdf", store.updates[0].err)
	assert.Equal(t, 1, ack.acked)
}

func TestHandle_RetriesThenRequeues(t *testing.T) {
	dbDown := errors.New("db down")
	store := &stubStore{errs: []error{dbDown, dbDown, dbDown}}
	ack := &ackRecorder{}

	newTestConsumer(store).handle(context.Background(),
		delivery(`{"file_id":"`+uuid.NewString()+`","parse_status":"parsed"}`, ack))

	assert.Len(t, store.updates, 3)
	assert.Equal(t, 1, ack.nacked)
	assert.True(t, ack.requeue)
}

func TestHandle_RecoversOnRetry(t *testing.T) {
	store := &stubStore{errs: []error{errors.New("timeout")}}
	ack := &ackRecorder{}

	newTestConsumer(store).handle(context.Background(),
		delivery(`{"file_id":"`+uuid.NewString()+`","parse_status":"parsing"}`, ack))

	assert.Len(t, store.updates, 2)
	assert.Equal(t, 1, ack.acked)
}

type stubChannel struct {
	queue string
	msgs  chan amqp.Delivery
}

func (s *stubChannel) Consume(queue, _ string, _, _, _, _ bool, _ amqp.Table) (<-chan amqp.Delivery, error) {
	s.queue = queue
	return s.msgs, nil
}

func TestStart_ConsumesUntilCancelled(t *testing.T) {
	ch := &stubChannel{msgs: make(chan amqp.Delivery, 1)}
	store := &stubStore{}
	c := NewParseResultConsumer(ch, store, infra.NewLoggerClient(nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, c.Start(ctx))
	assert.Equal(t, produce.FileParseResultQueue, ch.queue)

	ack := &ackRecorder{}
	ch.msgs <- delivery(`{"file_id":"`+uuid.NewString()+`","parse_status":"parsed"}`, ack)

	assert.Eventually(t, func() bool {
		ack.mu.Lock()
		defer ack.mu.Unlock()
		return ack.acked == 1
	}, time.Second, 5*time.Millisecond)
}
