package file

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-wiki-gateway/entity"
	"github.com/tnqbao/gau-wiki-gateway/repository"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName = "github.com/tnqbao/gau-wiki-gateway/service/file"

	AnonymousUploader = "anonymous"
	MaxPartNumber     = 10000
)

type ObjectStore interface {
	InitiateMultipartUpload(ctx context.Context, key, contentType string) (string, error)
	PresignPartURL(ctx context.Context, key, uploadID string, partNumber int, expiry time.Duration) (string, error)
	ListUploadedParts(ctx context.Context, key, uploadID string) ([]entity.ObjectPart, error)
	CompleteMultipartUpload(ctx context.Context, key, uploadID string, parts []entity.ObjectPart) error
	AbortMultipartUpload(ctx context.Context, key, uploadID string) error
	PresignGetURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	ObjectExists(ctx context.Context, key string) (bool, error)
}

// FileStore returns repository.ErrNotFound for absent records and repository.ErrDuplicate
// when a second record for the same hash is created.
type FileStore interface {
	Create(ctx context.Context, file *entity.File) error
	FindByHash(ctx context.Context, hash string) (*entity.File, error)
	FindOneByHashAndStatus(ctx context.Context, hash string, status entity.FileStatus) (*entity.File, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.File, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.File, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.FileStatus) error
}

type SessionStore interface {
	Create(ctx context.Context, session *entity.UploadSession, ttl time.Duration) error
	AddPart(ctx context.Context, uploadID string, partNumber int) error
	FindByID(ctx context.Context, uploadID string) (*entity.UploadSession, error)
	Delete(ctx context.Context, uploadID string) error
}

type EventPublisher interface {
	PublishFileUploaded(ctx context.Context, event entity.FileUploadedEvent) error
}

type Logger interface {
	InfoWithContextf(ctx context.Context, format string, args ...any)
	WarningWithContextf(ctx context.Context, format string, args ...any)
	ErrorWithContextf(ctx context.Context, err error, format string, args ...any)
}

type Options struct {
	MaxFileSize   int64 // bytes
	SessionTTL    time.Duration
	PartURLTTL    time.Duration
	FileURLTTL    time.Duration
	PublicBaseURL string
}

func DefaultOptions() Options {
	return Options{
		MaxFileSize: 100 << 20,
		SessionTTL:  24 * time.Hour,
		PartURLTTL:  time.Hour,
		FileURLTTL:  7 * 24 * time.Hour,
	}
}

// Service runs the resumable upload flow: init (or instant dedup), per-part signing and
// completion, plus batch lookups of finished files.
type Service struct {
	store     ObjectStore
	files     FileStore
	sessions  SessionStore
	publisher EventPublisher
	logger    Logger
	opts      Options

	tracer  trace.Tracer
	inits   metric.Int64Counter
	signs   metric.Int64Counter
	uploads metric.Int64Counter
}

// NewService wires the upload flow. publisher may be nil.
func NewService(store ObjectStore, files FileStore, sessions SessionStore, publisher EventPublisher, logger Logger, opts Options) *Service {
	meter := otel.Meter(instrumentationName)
	inits, _ := meter.Int64Counter("file.upload.init", metric.WithDescription("Upload initializations by outcome"))
	signs, _ := meter.Int64Counter("file.upload.sign", metric.WithDescription("Presigned part URLs issued"))
	uploads, _ := meter.Int64Counter("file.upload.complete", metric.WithDescription("Completed multipart uploads"))

	return &Service{
		store:     store,
		files:     files,
		sessions:  sessions,
		publisher: publisher,
		logger:    logger,
		opts:      opts,
		tracer:    otel.Tracer(instrumentationName),
		inits:     inits,
		signs:     signs,
		uploads:   uploads,
	}
}

type InitUploadParams struct {
	FileHash   string
	FileName   string
	FileSize   int64
	MimeType   string
	UploadedBy string
}

type InitUploadResult struct {
	Exists   bool   `json:"exists"`
	FileID   string `json:"fileId,omitempty"`
	UploadID string `json:"uploadId,omitempty"`
	URL      string `json:"url,omitempty"`
}

type CompleteUploadResult struct {
	FileID string `json:"fileId"`
	URL    string `json:"url"`
}

// InitUpload starts (or short-circuits) an upload for content identified by its hash.
// Content that is already stored is answered at once with no object store work. Otherwise a
// fresh multipart upload is opened for the hash's uploading record, creating that record
// on first use.
func (s *Service) InitUpload(ctx context.Context, params InitUploadParams) (*InitUploadResult, error) {
	const op = "InitUpload"
	ctx, span := s.tracer.Start(ctx, "file.InitUpload")
	defer span.End()

	params.FileHash = strings.TrimSpace(params.FileHash)
	if params.UploadedBy == "" {
		params.UploadedBy = AnonymousUploader
	}
	if err := s.validateInit(params); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("file.hash", params.FileHash), attribute.Int64("file.size", params.FileSize))

	uploaded, err := s.files.FindOneByHashAndStatus(ctx, params.FileHash, entity.FileStatusUploaded)
	switch {
	case err == nil:
		return s.instantResult(ctx, op, uploaded)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, newError(KindUpstream, op, fmt.Errorf("lookup uploaded file: %w", err))
	}

	record, err := s.uploadingRecord(ctx, params)
	if err != nil {
		return nil, err
	}
	if record.Status == entity.FileStatusUploaded {
		// Lost a race against a concurrent upload of the same content.
		return s.instantResult(ctx, op, record)
	}

	uploadID, err := s.store.InitiateMultipartUpload(ctx, record.OssKey, params.MimeType)
	if err != nil {
		return nil, newError(KindUpstream, op, err)
	}

	session := &entity.UploadSession{
		UploadID:            uploadID,
		FileID:              record.ID,
		OssKey:              record.OssKey,
		FileHash:            params.FileHash,
		FileName:            params.FileName,
		FileSize:            params.FileSize,
		MimeType:            params.MimeType,
		UploadedBy:          params.UploadedBy,
		UploadedPartNumbers: []int{},
		CreatedAt:           time.Now().UTC(),
	}
	if err := s.sessions.Create(ctx, session, s.opts.SessionTTL); err != nil {
		if abortErr := s.store.AbortMultipartUpload(ctx, record.OssKey, uploadID); abortErr != nil {
			s.logger.WarningWithContextf(ctx, "[File] Failed to abort orphaned upload %s: %v", uploadID, abortErr)
		}
		return nil, newError(KindUpstream, op, fmt.Errorf("save upload session: %w", err))
	}

	s.inits.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "multipart")))
	s.logger.InfoWithContextf(ctx, "[File] Upload %s started for file %s (%s)", uploadID, record.ID, record.OssKey)

	return &InitUploadResult{
		Exists:   false,
		FileID:   record.ID.String(),
		UploadID: uploadID,
	}, nil
}

func (s *Service) validateInit(params InitUploadParams) error {
	const op = "InitUpload"
	switch {
	case params.FileHash == "":
		return validationError(op, "fileHash is required")
	case strings.TrimSpace(params.FileName) == "":
		return validationError(op, "fileName is required")
	case strings.TrimSpace(params.MimeType) == "":
		return validationError(op, "mimeType is required")
	case params.FileSize <= 0:
		return validationError(op, "fileSize must be positive")
	case s.opts.MaxFileSize > 0 && params.FileSize > s.opts.MaxFileSize:
		return newError(KindValidation, op, fmt.Errorf("%w: %d bytes > %d bytes", ErrFileTooLarge, params.FileSize, s.opts.MaxFileSize))
	}
	return nil
}

func (s *Service) instantResult(ctx context.Context, op string, file *entity.File) (*InitUploadResult, error) {
	url, err := s.fileURL(ctx, file.OssKey)
	if err != nil {
		return nil, newError(KindUpstream, op, err)
	}

	s.inits.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "instant")))
	s.logger.InfoWithContextf(ctx, "[File] Instant upload hit for hash %s (file %s)", file.FileHash, file.ID)

	return &InitUploadResult{Exists: true, FileID: file.ID.String(), URL: url}, nil
}

// uploadingRecord returns the record an upload for params should attach to. The hash is
// unique, so losing a create race resolves to whatever record won it.
func (s *Service) uploadingRecord(ctx context.Context, params InitUploadParams) (*entity.File, error) {
	const op = "InitUpload"

	record, err := s.files.FindOneByHashAndStatus(ctx, params.FileHash, entity.FileStatusUploading)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, newError(KindUpstream, op, fmt.Errorf("lookup uploading file: %w", err))
	}

	record = &entity.File{
		ID:          uuid.New(),
		FileHash:    params.FileHash,
		FileName:    params.FileName,
		FileSize:    params.FileSize,
		MimeType:    params.MimeType,
		OssKey:      ObjectKey(params.FileHash, params.FileName),
		Status:      entity.FileStatusUploading,
		UploadedBy:  params.UploadedBy,
		ParseStatus: entity.ParseStatusPending,
	}
	err = s.files.Create(ctx, record)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, repository.ErrDuplicate) {
		return nil, newError(KindUpstream, op, fmt.Errorf("create file record: %w", err))
	}

	existing, err := s.files.FindByHash(ctx, params.FileHash)
	if err != nil {
		return nil, newError(KindUpstream, op, fmt.Errorf("reload file record: %w", err))
	}
	if existing.Status == entity.FileStatusFailed {
		if err := s.files.UpdateStatus(ctx, existing.ID, entity.FileStatusUploading); err != nil {
			return nil, newError(KindUpstream, op, fmt.Errorf("reset failed file record: %w", err))
		}
		existing.Status = entity.FileStatusUploading
	}
	return existing, nil
}

// GetUploadPartURL presigns the PUT for one part of an active upload.
func (s *Service) GetUploadPartURL(ctx context.Context, uploadID string, partNumber int) (string, error) {
	const op = "GetUploadPartURL"
	ctx, span := s.tracer.Start(ctx, "file.GetUploadPartURL")
	defer span.End()

	if uploadID == "" {
		return "", validationError(op, "uploadId is required")
	}
	if partNumber < 1 || partNumber > MaxPartNumber {
		return "", validationError(op, "partNumber must be between 1 and %d", MaxPartNumber)
	}

	session, err := s.session(ctx, op, uploadID)
	if err != nil {
		return "", err
	}

	url, err := s.store.PresignPartURL(ctx, session.OssKey, uploadID, partNumber, s.opts.PartURLTTL)
	if err != nil {
		return "", newError(KindUpstream, op, err)
	}
	s.signs.Add(ctx, 1)

	if !slices.Contains(session.UploadedPartNumbers, partNumber) {
		if err := s.sessions.AddPart(ctx, uploadID, partNumber); err != nil {
			s.logger.WarningWithContextf(ctx, "[File] Failed to record part %d for upload %s: %v", partNumber, uploadID, err)
		}
	}

	return url, nil
}

// CompleteUpload assembles the parts the object store holds, marks the file uploaded and
// retires the session. Unknown or expired sessions fail before any object store call.
func (s *Service) CompleteUpload(ctx context.Context, uploadID string) (*CompleteUploadResult, error) {
	const op = "CompleteUpload"
	ctx, span := s.tracer.Start(ctx, "file.CompleteUpload")
	defer span.End()

	if uploadID == "" {
		return nil, validationError(op, "uploadId is required")
	}

	session, err := s.session(ctx, op, uploadID)
	if err != nil {
		return nil, err
	}

	record, err := s.files.FindByID(ctx, session.FileID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.ErrorWithContextf(ctx, err, "[File] Session %s points at missing file %s", uploadID, session.FileID)
			return nil, newError(KindInconsistent, op, ErrFileRecordMissing)
		}
		return nil, newError(KindUpstream, op, fmt.Errorf("load file record: %w", err))
	}

	superseded := false
	if record.Status == entity.FileStatusUploaded {
		superseded = s.discard(ctx, session, record)
	} else {
		if err := s.assemble(ctx, session); err != nil {
			return nil, err
		}
		if err := s.files.UpdateStatus(ctx, record.ID, entity.FileStatusUploaded); err != nil {
			return nil, newError(KindUpstream, op, fmt.Errorf("mark file uploaded: %w", err))
		}
		record.Status = entity.FileStatusUploaded
	}

	url, err := s.fileURL(ctx, session.OssKey)
	if err != nil {
		return nil, newError(KindUpstream, op, err)
	}

	if err := s.sessions.Delete(ctx, uploadID); err != nil {
		s.logger.WarningWithContextf(ctx, "[File] Failed to delete session %s: %v", uploadID, err)
	}

	if superseded {
		s.logger.InfoWithContextf(ctx, "[File] Upload %s resolved to already uploaded file %s", uploadID, record.ID)
	} else {
		s.uploads.Add(ctx, 1)
		s.publishUploaded(ctx, record, session)
		s.logger.InfoWithContextf(ctx, "[File] Upload %s completed as file %s", uploadID, record.ID)
	}

	return &CompleteUploadResult{FileID: record.ID.String(), URL: url}, nil
}

func (s *Service) assemble(ctx context.Context, session *entity.UploadSession) error {
	const op = "CompleteUpload"

	parts, err := s.store.ListUploadedParts(ctx, session.OssKey, session.UploadID)
	if err != nil {
		// The multipart upload is gone once completed; an existing object means a previous
		// attempt already assembled it.
		if exists, headErr := s.store.ObjectExists(ctx, session.OssKey); headErr == nil && exists {
			return nil
		}
		return newError(KindUpstream, op, err)
	}

	parts = NormalizeParts(parts)
	if len(parts) == 0 {
		return newError(KindValidation, op, ErrNoParts)
	}

	if err := s.store.CompleteMultipartUpload(ctx, session.OssKey, session.UploadID, parts); err != nil {
		return newError(KindUpstream, op, err)
	}
	return nil
}

// discard handles a session whose file another session already finished. A multipart upload
// that is still open is aborted so its parts do not linger in the store. A closed one means
// this session completed earlier and the call is a retry. It reports whether the session was
// superseded.
func (s *Service) discard(ctx context.Context, session *entity.UploadSession, record *entity.File) bool {
	if _, err := s.store.ListUploadedParts(ctx, session.OssKey, session.UploadID); err != nil {
		return false
	}
	if err := s.store.AbortMultipartUpload(ctx, session.OssKey, session.UploadID); err != nil {
		s.logger.WarningWithContextf(ctx, "[File] Failed to abort superseded upload %s for file %s: %v", session.UploadID, record.ID, err)
	}
	return true
}

func (s *Service) publishUploaded(ctx context.Context, record *entity.File, session *entity.UploadSession) {
	if s.publisher == nil {
		return
	}
	event := entity.FileUploadedEvent{
		FileID:     record.ID.String(),
		FileHash:   record.FileHash,
		OssKey:     record.OssKey,
		FileName:   record.FileName,
		MimeType:   record.MimeType,
		Category:   Categorize(record.MimeType),
		UploadedBy: session.UploadedBy,
		Timestamp:  time.Now().Unix(),
	}
	if err := s.publisher.PublishFileUploaded(ctx, event); err != nil {
		s.logger.WarningWithContextf(ctx, "[File] Failed to publish upload event for file %s: %v", record.ID, err)
	}
}

func (s *Service) session(ctx context.Context, op, uploadID string) (*entity.UploadSession, error) {
	session, err := s.sessions.FindByID(ctx, uploadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(KindNotFound, op, ErrSessionNotFound)
		}
		return nil, newError(KindUpstream, op, fmt.Errorf("load upload session: %w", err))
	}
	return session, nil
}

// BatchInfo resolves ids with a single query. The result lines up with ids one to one;
// unknown or malformed ids come back flagged as missing.
func (s *Service) BatchInfo(ctx context.Context, ids []string) ([]entity.FileInfo, error) {
	const op = "BatchInfo"
	out := make([]entity.FileInfo, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	ctx, span := s.tracer.Start(ctx, "file.BatchInfo")
	defer span.End()
	span.SetAttributes(attribute.Int("file.count", len(ids)))

	parsed := make([]uuid.UUID, len(ids))
	var lookup []uuid.UUID
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for i, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		parsed[i] = id
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			lookup = append(lookup, id)
		}
	}

	found := make(map[uuid.UUID]entity.File, len(lookup))
	if len(lookup) > 0 {
		files, err := s.files.FindByIDs(ctx, lookup)
		if err != nil {
			return nil, newError(KindUpstream, op, err)
		}
		for _, f := range files {
			found[f.ID] = f
		}
	}

	for i, raw := range ids {
		f, ok := found[parsed[i]]
		if !ok {
			out[i] = entity.FileInfo{ID: raw, Category: entity.FileCategoryOther, Missing: true}
			continue
		}

		url, err := s.fileURL(ctx, f.OssKey)
		if err != nil {
			s.logger.WarningWithContextf(ctx, "[File] Failed to build URL for file %s: %v", f.ID, err)
		}
		out[i] = entity.FileInfo{
			ID:       raw,
			Name:     f.FileName,
			Size:     f.FileSize,
			MimeType: f.MimeType,
			URL:      url,
			Category: Categorize(f.MimeType),
		}
	}
	return out, nil
}

// fileURL builds the public URL when a public base is configured, else a presigned GET.
func (s *Service) fileURL(ctx context.Context, key string) (string, error) {
	if s.opts.PublicBaseURL != "" {
		return s.opts.PublicBaseURL + "/" + key, nil
	}
	url, err := s.store.PresignGetURL(ctx, key, s.opts.FileURLTTL)
	if err != nil {
		return "", fmt.Errorf("presign file url: %w", err)
	}
	return url, nil
}
