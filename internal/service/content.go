package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/jask/showcase/internal/content"
	"github.com/jask/showcase/internal/database"
	"github.com/jask/showcase/internal/database/repository"
)

// DefaultCacheTTL bounds how stale a cached read may be.
const DefaultCacheTTL = 30 * time.Second

// ContentService reads and replaces the site content document in the local
// store. It implements content.Source.
type ContentService struct {
	KV       *repository.KVRepo
	Fallback content.SiteContent
	Log      *zap.Logger

	cache *cache.Cache
}

// NewContentService builds a service caching reads for ttl. ttl <= 0 disables
// the cache.
func NewContentService(kv *repository.KVRepo, fallback content.SiteContent, ttl time.Duration, log *zap.Logger) *ContentService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &ContentService{KV: kv, Fallback: fallback, Log: log}
	if ttl > 0 {
		s.cache = cache.New(ttl, 2*ttl)
	}
	return s
}

// Raw returns the stored document as JSON, or `{}` when nothing is stored.
func (s *ContentService) Raw(ctx context.Context) ([]byte, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(content.Key); ok {
			return v.([]byte), nil
		}
	}
	e, err := s.KV.Get(ctx, content.Key)
	if errors.Is(err, repository.ErrNotFound) {
		return []byte("{}"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", content.Key, err)
	}
	if s.cache != nil {
		s.cache.SetDefault(content.Key, e.Value)
	}
	return e.Value, nil
}

// Load returns the document to display: the stored one, or the fallback when
// nothing non-empty is stored.
func (s *ContentService) Load(ctx context.Context) (content.SiteContent, error) {
	raw, err := s.Raw(ctx)
	if err != nil {
		return content.SiteContent{}, err
	}
	doc, err := content.Decode(raw, content.FormatJSON)
	if err != nil {
		s.Log.Warn("stored content unreadable, using default", zap.Error(err))
		return s.Fallback.Clone(), nil
	}
	return content.Resolve(&doc, s.Fallback), nil
}

// Save validates and stores a typed document.
func (s *ContentService) Save(ctx context.Context, doc content.SiteContent) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = s.put(ctx, raw)
	return err
}

// Replace stores a raw JSON document as received from the API. The body must
// be a JSON object; unknown keys are kept verbatim.
func (s *ContentService) Replace(ctx context.Context, raw []byte) (repository.Entry, error) {
	if !content.IsObject(raw) {
		return repository.Entry{}, fmt.Errorf("%w: document must be a JSON object", content.ErrInvalid)
	}
	doc, err := content.Decode(raw, content.FormatJSON)
	if err != nil {
		return repository.Entry{}, err
	}
	if err := doc.Validate(); err != nil {
		return repository.Entry{}, err
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return repository.Entry{}, fmt.Errorf("%w: %v", content.ErrInvalid, err)
	}
	return s.put(ctx, buf.Bytes())
}

func (s *ContentService) put(ctx context.Context, raw []byte) (repository.Entry, error) {
	e, err := s.KV.Put(ctx, content.Key, raw)
	if err != nil {
		return repository.Entry{}, fmt.Errorf("store %s: %w", content.Key, err)
	}
	s.invalidate()
	s.Log.Info("content saved", zap.String("revision", e.Revision), zap.Int("bytes", len(raw)))
	return e, nil
}

// History lists recent revisions, newest first.
func (s *ContentService) History(ctx context.Context, limit int) ([]repository.Revision, error) {
	return s.KV.History(ctx, content.Key, limit)
}

// Restore makes an old revision current again.
func (s *ContentService) Restore(ctx context.Context, revision string) (repository.Entry, error) {
	rev, err := s.KV.Revision(ctx, content.Key, revision)
	if err != nil {
		return repository.Entry{}, fmt.Errorf("revision %s: %w", revision, err)
	}
	return s.put(ctx, rev.Value)
}

// Seed stores the fallback document when nothing is stored yet.
func (s *ContentService) Seed(ctx context.Context) (bool, error) {
	raw, err := json.Marshal(s.Fallback)
	if err != nil {
		return false, err
	}
	seeded, err := database.SeedDefaults(ctx, s.KV, content.Key, raw)
	if seeded {
		s.invalidate()
	}
	return seeded, err
}

func (s *ContentService) invalidate() {
	if s.cache != nil {
		s.cache.Delete(content.Key)
	}
}
