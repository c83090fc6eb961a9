// internal/knowledgebase/provider.go
package knowledgebase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"career-workers/internal/common/logger"
	"career-workers/internal/common/metrics"
	"career-workers/internal/models"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Provider supplies knowledge base rows to the scoring engine and the workers.
type Provider interface {
	// Load returns the current rows. It never returns a nil slice.
	Load(ctx context.Context) ([]models.KnowledgeBaseRow, error)
	// Invalidate drops every cached copy so the next Load reads the source again.
	Invalidate(ctx context.Context) error
}

type ProviderConfig struct {
	// Paths are tried in order; the upload location normally comes first.
	Paths    []string
	RedisKey string
	CacheTTL time.Duration
	// Persist writes mutations back to the file the rows were loaded from.
	Persist bool
}

// RefreshReport describes a reload from disk.
type RefreshReport struct {
	Source      string       `json:"source"`
	RowCount    int          `json:"rowCount"`
	InvalidRows []InvalidRow `json:"invalidRows"`
}

// CachedProvider keeps the KB in memory behind a RWMutex with redis as a shared
// second level. Source files are only read on a miss at both levels.
//
// Every refresh, invalidation or mutation bumps a counter stored next to the
// snapshot (<RedisKey>:version). Load compares it with the version its memory copy
// was taken at, so a refresh handled by one worker-manager replica reaches all others
// on their next job. Without redis the memory copy lives until Invalidate.
type CachedProvider struct {
	cfg       ProviderConfig
	redis     redis.Cmdable
	validator *RowValidator
	logger    logger.Logger
	tracer    trace.Tracer

	mu      sync.RWMutex
	rows    []models.KnowledgeBaseRow
	loaded  bool
	source  string
	version string
}

// NewCachedProvider builds a provider. rdb may be nil to run without the shared cache.
func NewCachedProvider(cfg ProviderConfig, rdb redis.Cmdable, log logger.Logger) (*CachedProvider, error) {
	v, err := NewRowValidator()
	if err != nil {
		return nil, err
	}
	if cfg.RedisKey == "" {
		cfg.RedisKey = "career:kb:rows"
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}
	return &CachedProvider{
		cfg:       cfg,
		redis:     rdb,
		validator: v,
		logger:    log.WithFields(map[string]interface{}{"component": "knowledge-base"}),
		tracer:    otel.Tracer("career-workers/knowledgebase"),
	}, nil
}

// Load serves rows from memory, then redis, then the first readable file. A missing
// or unreadable file yields an empty KB and a warning, never an error. Rows failing
// the row schema are logged and kept.
func (p *CachedProvider) Load(ctx context.Context) ([]models.KnowledgeBaseRow, error) {
	remote, checked := p.remoteVersion(ctx)

	p.mu.RLock()
	if p.freshLocked(remote, checked) {
		rows := copyRows(p.rows)
		p.mu.RUnlock()
		metrics.RecordKnowledgeBaseCache(metrics.CacheMemory)
		return rows, nil
	}
	p.mu.RUnlock()

	ctx, span := p.tracer.Start(ctx, "knowledgebase.Load")
	defer span.End()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.freshLocked(remote, checked) {
		metrics.RecordKnowledgeBaseCache(metrics.CacheMemory)
		return copyRows(p.rows), nil
	}
	if p.loaded {
		p.logger.Info("knowledge base changed by another process, reloading", map[string]interface{}{
			"localVersion":  p.version,
			"remoteVersion": remote,
		})
	}

	if rows, ok := p.readRedis(ctx); ok {
		p.setLocked(rows, p.source)
		p.version = remote
		metrics.RecordKnowledgeBaseCache(metrics.CacheRedis)
		span.SetAttributes(attribute.String("kb.source", "redis"), attribute.Int("kb.rows", len(rows)))
		return copyRows(rows), nil
	}

	rows, source, err := LoadFirst(p.cfg.Paths)
	if err != nil {
		p.logger.Warn("knowledge base file unavailable, using empty knowledge base", map[string]interface{}{
			"paths": p.cfg.Paths,
			"error": err.Error(),
		})
		p.setLocked([]models.KnowledgeBaseRow{}, "")
		p.version = remote
		metrics.RecordKnowledgeBaseCache(metrics.CacheEmpty)
		span.SetAttributes(attribute.String("kb.source", "empty"))
		return []models.KnowledgeBaseRow{}, nil
	}

	p.reportInvalid(source, rows)
	p.setLocked(rows, source)
	p.version = remote
	if len(rows) > 0 {
		p.writeRedis(ctx, rows)
	}
	metrics.RecordKnowledgeBaseCache(metrics.CacheFile)
	span.SetAttributes(attribute.String("kb.source", source), attribute.Int("kb.rows", len(rows)))

	p.logger.Info("knowledge base loaded", map[string]interface{}{
		"source": source,
		"rows":   len(rows),
	})
	return copyRows(rows), nil
}

// Invalidate clears the in-process copy and the redis entry. Other processes sharing
// the redis key reload on their next Load.
func (p *CachedProvider) Invalidate(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rows = nil
	p.loaded = false
	if err := p.deleteRedis(ctx); err != nil {
		return err
	}
	p.bumpVersionLocked(ctx)
	return nil
}

// Refresh reloads from path, or from the configured paths when path is empty.
// Unlike Load it fails when no file can be read, leaving the current rows in place.
func (p *CachedProvider) Refresh(ctx context.Context, path string) (*RefreshReport, error) {
	paths := p.cfg.Paths
	if path != "" {
		paths = []string{path}
	}
	rows, source, err := LoadFirst(paths)
	if err != nil {
		return nil, err
	}
	invalid := p.validator.Check(rows)

	p.mu.Lock()
	p.setLocked(rows, source)
	p.publishLocked(ctx, rows)
	p.mu.Unlock()

	p.logger.Info("knowledge base refreshed", map[string]interface{}{
		"source":  source,
		"rows":    len(rows),
		"invalid": len(invalid),
	})
	return &RefreshReport{Source: source, RowCount: len(rows), InvalidRows: invalid}, nil
}

// DeleteEntry removes the row at index. Out of range reports false.
func (p *CachedProvider) DeleteEntry(ctx context.Context, index int) (bool, error) {
	if _, err := p.Load(ctx); err != nil {
		return false, err
	}

	p.mu.Lock()
	if index < 0 || index >= len(p.rows) {
		p.mu.Unlock()
		return false, nil
	}
	rows := make([]models.KnowledgeBaseRow, 0, len(p.rows)-1)
	rows = append(rows, p.rows[:index]...)
	rows = append(rows, p.rows[index+1:]...)
	p.setLocked(rows, p.source)
	p.publishLocked(ctx, rows)
	source := p.source
	p.mu.Unlock()

	return true, p.persist(rows, source)
}

// Clear empties the knowledge base.
func (p *CachedProvider) Clear(ctx context.Context) error {
	p.mu.Lock()
	p.setLocked([]models.KnowledgeBaseRow{}, p.source)
	p.publishLocked(ctx, []models.KnowledgeBaseRow{})
	source := p.source
	p.mu.Unlock()

	return p.persist([]models.KnowledgeBaseRow{}, source)
}

// Replace swaps in a new set of rows and reports those failing the row schema.
func (p *CachedProvider) Replace(ctx context.Context, rows []models.KnowledgeBaseRow) ([]InvalidRow, error) {
	invalid := p.validator.Check(rows)
	rows = copyRows(rows)

	p.mu.Lock()
	p.setLocked(rows, p.source)
	p.publishLocked(ctx, rows)
	source := p.source
	p.mu.Unlock()

	return invalid, p.persist(rows, source)
}

// Source is the file the current rows came from, empty when none.
func (p *CachedProvider) Source() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.source
}

func (p *CachedProvider) persist(rows []models.KnowledgeBaseRow, source string) error {
	if p.cfg.Persist && source != "" {
		if err := SaveFile(source, rows); err != nil {
			return fmt.Errorf("persist knowledge base to %s: %w", source, err)
		}
	}
	return nil
}

// setLocked must be called with mu held for writing.
func (p *CachedProvider) setLocked(rows []models.KnowledgeBaseRow, source string) {
	if rows == nil {
		rows = []models.KnowledgeBaseRow{}
	}
	p.rows = rows
	p.loaded = true
	p.source = source
	metrics.SetKnowledgeBaseRows(len(rows))
}

func (p *CachedProvider) reportInvalid(source string, rows []models.KnowledgeBaseRow) {
	invalid := p.validator.Check(rows)
	if len(invalid) == 0 {
		return
	}
	p.logger.Warn("knowledge base rows fail the row schema, keeping them", map[string]interface{}{
		"source":  source,
		"invalid": len(invalid),
		"rows":    len(rows),
	})
}

func (p *CachedProvider) versionKey() string {
	return p.cfg.RedisKey + ":version"
}

// freshLocked reports whether the memory copy can be served. An unchecked remote
// version (no redis, or redis down) trusts memory.
func (p *CachedProvider) freshLocked(remote string, checked bool) bool {
	return p.loaded && (!checked || remote == p.version)
}

// remoteVersion reads the shared version counter. checked is false when there is
// nothing to compare against.
func (p *CachedProvider) remoteVersion(ctx context.Context) (string, bool) {
	if p.redis == nil {
		return "", false
	}
	v, err := p.redis.Get(ctx, p.versionKey()).Result()
	switch {
	case err == nil:
		return v, true
	case errors.Is(err, redis.Nil):
		return "", true
	default:
		p.logger.Warn("knowledge base version read failed, serving local copy", map[string]interface{}{"error": err.Error()})
		return "", false
	}
}

// publishLocked replaces the shared snapshot with rows and bumps the version.
// mu must be held for writing.
func (p *CachedProvider) publishLocked(ctx context.Context, rows []models.KnowledgeBaseRow) {
	p.writeRedis(ctx, rows)
	p.bumpVersionLocked(ctx)
}

func (p *CachedProvider) bumpVersionLocked(ctx context.Context) {
	if p.redis == nil {
		return
	}
	v, err := p.redis.Incr(ctx, p.versionKey()).Result()
	if err != nil {
		p.logger.Warn("knowledge base version bump failed", map[string]interface{}{"error": err.Error()})
		return
	}
	p.version = strconv.FormatInt(v, 10)
}

func (p *CachedProvider) readRedis(ctx context.Context) ([]models.KnowledgeBaseRow, bool) {
	if p.redis == nil {
		return nil, false
	}
	data, err := p.redis.Get(ctx, p.cfg.RedisKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			p.logger.Warn("knowledge base cache read failed", map[string]interface{}{"error": err.Error()})
		}
		return nil, false
	}
	var rows []models.KnowledgeBaseRow
	if err := json.Unmarshal(data, &rows); err != nil {
		p.logger.Warn("knowledge base cache entry corrupt", map[string]interface{}{"error": err.Error()})
		return nil, false
	}
	return rows, true
}

func (p *CachedProvider) writeRedis(ctx context.Context, rows []models.KnowledgeBaseRow) {
	if p.redis == nil {
		return
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return
	}
	if err := p.redis.Set(ctx, p.cfg.RedisKey, data, p.cfg.CacheTTL).Err(); err != nil {
		p.logger.Warn("knowledge base cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

func (p *CachedProvider) deleteRedis(ctx context.Context) error {
	if p.redis == nil {
		return nil
	}
	return p.redis.Del(ctx, p.cfg.RedisKey).Err()
}

func copyRows(rows []models.KnowledgeBaseRow) []models.KnowledgeBaseRow {
	out := make([]models.KnowledgeBaseRow, len(rows))
	for i, r := range rows {
		if r.Extra != nil {
			extra := make(map[string]string, len(r.Extra))
			for k, v := range r.Extra {
				extra[k] = v
			}
			r.Extra = extra
		}
		out[i] = r
	}
	return out
}
