package file

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-wiki-gateway/entity"
	"github.com/tnqbao/gau-wiki-gateway/repository"
)

type fakeObjectStore struct {
	mu        sync.Mutex
	nextID    int
	initiated []string
	presigned []int
	completed map[string][]entity.ObjectPart
	parts     map[string][]entity.ObjectPart
	objects   map[string]bool
	aborted   []string
	closed    map[string]bool
	calls     int

	initErr error
	listErr error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{
		completed: make(map[string][]entity.ObjectPart),
		parts:     make(map[string][]entity.ObjectPart),
		objects:   make(map[string]bool),
		closed:    make(map[string]bool),
	}
}

func (f *fakeObjectStore) InitiateMultipartUpload(_ context.Context, key, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.initErr != nil {
		return "", f.initErr
	}
	f.nextID++
	id := fmt.Sprintf("upload-%d", f.nextID)
	f.initiated = append(f.initiated, key)
	return id, nil
}

func (f *fakeObjectStore) AbortMultipartUpload(_ context.Context, _, uploadID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.closed[uploadID] {
		return errNoSuchUpload
	}
	f.aborted = append(f.aborted, uploadID)
	f.closed[uploadID] = true
	return nil
}

func (f *fakeObjectStore) PresignPartURL(_ context.Context, key, uploadID string, partNumber int, _ time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.presigned = append(f.presigned, partNumber)
	return fmt.Sprintf("https://store/%s?uploadId=%s&partNumber=%d", key, uploadID, partNumber), nil
}

func (f *fakeObjectStore) ListUploadedParts(_ context.Context, _, uploadID string) ([]entity.ObjectPart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.closed[uploadID] {
		return nil, errNoSuchUpload
	}
	return f.parts[uploadID], nil
}

func (f *fakeObjectStore) CompleteMultipartUpload(_ context.Context, key, uploadID string, parts []entity.ObjectPart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.closed[uploadID] {
		return errNoSuchUpload
	}
	f.completed[uploadID] = parts
	f.closed[uploadID] = true
	f.objects[key] = true
	return nil
}

func (f *fakeObjectStore) PresignGetURL(_ context.Context, key string, _ time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return "https://store/" + key + "?signed", nil
}

func (f *fakeObjectStore) ObjectExists(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.objects[key], nil
}

type fakeFileStore struct {
	mu         sync.Mutex
	files      map[uuid.UUID]*entity.File
	batchCalls int
	calls      int

	// raceWinner, when set, is inserted right before the next Create so it loses the race.
	raceWinner *entity.File
	findErr    error
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{files: make(map[uuid.UUID]*entity.File)}
}

func (f *fakeFileStore) Create(_ context.Context, file *entity.File) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.raceWinner != nil {
		f.files[f.raceWinner.ID] = f.raceWinner
		f.raceWinner = nil
	}
	for _, existing := range f.files {
		if existing.FileHash == file.FileHash {
			return repository.ErrDuplicate
		}
	}
	cp := *file
	f.files[file.ID] = &cp
	return nil
}

func (f *fakeFileStore) FindByHash(_ context.Context, hash string) (*entity.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	for _, file := range f.files {
		if file.FileHash == hash {
			cp := *file
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeFileStore) FindOneByHashAndStatus(_ context.Context, hash string, status entity.FileStatus) (*entity.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, file := range f.files {
		if file.FileHash == hash && file.Status == status {
			cp := *file
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeFileStore) FindByID(_ context.Context, id uuid.UUID) (*entity.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	file, ok := f.files[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *file
	return &cp, nil
}

func (f *fakeFileStore) FindByIDs(_ context.Context, ids []uuid.UUID) ([]entity.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.batchCalls++
	var out []entity.File
	for _, id := range ids {
		if file, ok := f.files[id]; ok && file.Status == entity.FileStatusUploaded {
			out = append(out, *file)
		}
	}
	return out, nil
}

func (f *fakeFileStore) UpdateStatus(_ context.Context, id uuid.UUID, status entity.FileStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	file, ok := f.files[id]
	if !ok {
		return repository.ErrNotFound
	}
	file.Status = status
	return nil
}

func (f *fakeFileStore) put(file entity.File) *entity.File {
	f.mu.Lock()
	defer f.mu.Unlock()
	if file.ID == uuid.Nil {
		file.ID = uuid.New()
	}
	f.files[file.ID] = &file
	return &file
}

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]entity.UploadSession
	ttls     map[string]time.Duration
	calls    int

	createErr error
	partErr   error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions: make(map[string]entity.UploadSession),
		ttls:     make(map[string]time.Duration),
	}
}

func (f *fakeSessionStore) Create(_ context.Context, s *entity.UploadSession, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.createErr != nil {
		return f.createErr
	}
	f.sessions[s.UploadID] = *s
	f.ttls[s.UploadID] = ttl
	return nil
}

func (f *fakeSessionStore) AddPart(_ context.Context, uploadID string, partNumber int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.partErr != nil {
		return f.partErr
	}
	s, ok := f.sessions[uploadID]
	if !ok {
		return repository.ErrNotFound
	}
	if !slices.Contains(s.UploadedPartNumbers, partNumber) {
		s.UploadedPartNumbers = append(slices.Clone(s.UploadedPartNumbers), partNumber)
	}
	f.sessions[uploadID] = s
	return nil
}

func (f *fakeSessionStore) FindByID(_ context.Context, uploadID string) (*entity.UploadSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	s, ok := f.sessions[uploadID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	s.UploadedPartNumbers = append([]int(nil), s.UploadedPartNumbers...)
	return &s, nil
}

func (f *fakeSessionStore) Delete(_ context.Context, uploadID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	delete(f.sessions, uploadID)
	delete(f.ttls, uploadID)
	return nil
}

type fakePublisher struct {
	events []entity.FileUploadedEvent
	err    error
}

func (f *fakePublisher) PublishFileUploaded(_ context.Context, event entity.FileUploadedEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

type recordingLogger struct {
	mu       sync.Mutex
	warnings []string
	errors   []string
}

func (l *recordingLogger) InfoWithContextf(context.Context, string, ...any) {}

func (l *recordingLogger) WarningWithContextf(_ context.Context, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) ErrorWithContextf(_ context.Context, err error, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, fmt.Sprintf(format, args...)+": "+err.Error())
}

var (
	errStoreDown    = errors.New("connection refused")
	errNoSuchUpload = errors.New("NoSuchUpload: the specified multipart upload does not exist")
)

type harness struct {
	store     *fakeObjectStore
	files     *fakeFileStore
	sessions  *fakeSessionStore
	publisher *fakePublisher
	logger    *recordingLogger
	svc       *Service
}

func newHarness(opts Options) *harness {
	h := &harness{
		store:     newFakeObjectStore(),
		files:     newFakeFileStore(),
		sessions:  newFakeSessionStore(),
		publisher: &fakePublisher{},
		logger:    &recordingLogger{},
	}
	h.svc = NewService(h.store, h.files, h.sessions, h.publisher, h.logger, opts)
	return h
}
