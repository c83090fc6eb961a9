// internal/knowledgebase/provider_test.go
package knowledgebase

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"career-workers/internal/common/logger"
	"career-workers/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKBYAML = `
- job_role: Data Analyst
  level: Entry
  technical_skills: SQL, Excel, Python
- Job Role: Backend Developer
  Technical Skills: Go, PostgreSQL
  Team Size: 8
- job_role: ""
  level: Senior
`

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func newTestProvider(t *testing.T, cfg ProviderConfig, rdb redis.Cmdable) *CachedProvider {
	t.Helper()
	p, err := NewCachedProvider(cfg, rdb, logger.NewTestLogger(t))
	require.NoError(t, err)
	return p
}

// ==========================
// Load
// ==========================

func TestCachedProvider_LoadFromFile(t *testing.T) {
	path := writeFile(t, "kb.yaml", testKBYAML)
	mr, rdb := setupMiniredis(t)
	p := newTestProvider(t, ProviderConfig{Paths: []string{path}, RedisKey: "kb:test"}, rdb)

	rows, err := p.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3, "row without job_role is kept")
	assert.Equal(t, "Data Analyst", rows[0].JobRole)
	assert.Equal(t, "8", rows[1].Extra["Team Size"])
	assert.Equal(t, "Senior", rows[2].Level)
	assert.Equal(t, path, p.Source())

	cached, err := mr.Get("kb:test")
	require.NoError(t, err)
	var fromRedis []models.KnowledgeBaseRow
	require.NoError(t, json.Unmarshal([]byte(cached), &fromRedis))
	assert.Equal(t, rows, fromRedis)
	assert.True(t, mr.TTL("kb:test") > 0)
}

func TestCachedProvider_ServesFromMemory(t *testing.T) {
	path := writeFile(t, "kb.yaml", testKBYAML)
	p := newTestProvider(t, ProviderConfig{Paths: []string{path}}, nil)

	first, err := p.Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	second, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCachedProvider_ServesFromRedis(t *testing.T) {
	_, rdb := setupMiniredis(t)
	rows := []models.KnowledgeBaseRow{{JobRole: "Cloud Engineer", TechnicalSkills: "AWS"}}
	data, err := json.Marshal(rows)
	require.NoError(t, err)
	require.NoError(t, rdb.Set(context.Background(), "kb:shared", data, time.Minute).Err())

	p := newTestProvider(t, ProviderConfig{
		Paths:    []string{filepath.Join(t.TempDir(), "missing.xlsx")},
		RedisKey: "kb:shared",
	}, rdb)

	got, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestCachedProvider_MissingFileDegrades(t *testing.T) {
	p := newTestProvider(t, ProviderConfig{Paths: []string{filepath.Join(t.TempDir(), "missing.xlsx")}}, nil)

	rows, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestCachedProvider_CorruptRedisFallsBackToFile(t *testing.T) {
	path := writeFile(t, "kb.yaml", testKBYAML)
	mr, rdb := setupMiniredis(t)
	require.NoError(t, mr.Set("kb:test", "{not json"))

	p := newTestProvider(t, ProviderConfig{Paths: []string{path}, RedisKey: "kb:test"}, rdb)
	rows, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestCachedProvider_RedisDownFallsBackToFile(t *testing.T) {
	path := writeFile(t, "kb.yaml", testKBYAML)
	db, mock := redismock.NewClientMock()

	mock.ExpectGet("kb:test:version").SetErr(errors.New("connection refused"))
	mock.ExpectGet("kb:test").SetErr(errors.New("connection refused"))

	expected, err := LoadFile(path)
	require.NoError(t, err)
	data, err := json.Marshal(expected)
	require.NoError(t, err)
	mock.ExpectSet("kb:test", data, time.Hour).SetVal("OK")

	p := newTestProvider(t, ProviderConfig{Paths: []string{path}, RedisKey: "kb:test"}, db)
	rows, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, expected, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedProvider_UnrecognisedRoleHeaderKeepsRows(t *testing.T) {
	path := writeFile(t, "kb.csv", "Position,Technical Skills,Level\nData Analyst,\"SQL, Python\",Entry\nPlatform Engineer,\"Go, Kubernetes\",Mid\n")
	p := newTestProvider(t, ProviderConfig{Paths: []string{path}}, nil)

	rows, err := p.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Empty(t, rows[0].JobRole)
	assert.Equal(t, "SQL, Python", rows[0].TechnicalSkills)
	assert.Equal(t, "Platform Engineer", rows[1].Extra["Position"])

	report, err := p.Refresh(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 2, report.RowCount)
	assert.Len(t, report.InvalidRows, 2)
}

func TestCachedProvider_ReturnsCopies(t *testing.T) {
	path := writeFile(t, "kb.yaml", testKBYAML)
	p := newTestProvider(t, ProviderConfig{Paths: []string{path}}, nil)

	rows, err := p.Load(context.Background())
	require.NoError(t, err)
	rows[0].JobRole = "Mutated"
	rows[1].Extra["Team Size"] = "999"

	again, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Data Analyst", again[0].JobRole)
	assert.Equal(t, "8", again[1].Extra["Team Size"])
}

func TestCachedProvider_ConcurrentLoad(t *testing.T) {
	path := writeFile(t, "kb.yaml", testKBYAML)
	p := newTestProvider(t, ProviderConfig{Paths: []string{path}}, nil)

	var wg sync.WaitGroup
	counts := make([]int, 20)
	for i := range counts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rows, err := p.Load(context.Background())
			if err == nil {
				counts[i] = len(rows)
			}
		}(i)
	}
	wg.Wait()

	for _, c := range counts {
		assert.Equal(t, 3, c)
	}
}

// ==========================
// Invalidate / Refresh
// ==========================

func TestCachedProvider_Invalidate(t *testing.T) {
	path := writeFile(t, "kb.yaml", testKBYAML)
	mr, rdb := setupMiniredis(t)
	p := newTestProvider(t, ProviderConfig{Paths: []string{path}, RedisKey: "kb:test"}, rdb)

	_, err := p.Load(context.Background())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("- job_role: Product Manager\n"), 0o644))
	require.NoError(t, p.Invalidate(context.Background()))
	assert.False(t, mr.Exists("kb:test"))

	rows, err := p.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Product Manager", rows[0].JobRole)
}

func TestCachedProvider_Refresh(t *testing.T) {
	path := writeFile(t, "kb.yaml", testKBYAML)
	_, rdb := setupMiniredis(t)
	p := newTestProvider(t, ProviderConfig{Paths: []string{path}, RedisKey: "kb:test"}, rdb)

	report, err := p.Refresh(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, path, report.Source)
	assert.Equal(t, 3, report.RowCount)
	require.Len(t, report.InvalidRows, 1)
	assert.Equal(t, 2, report.InvalidRows[0].Index)

	other := writeFile(t, "other.json", `[{"job_role": "QA Engineer"}]`)
	report, err = p.Refresh(context.Background(), other)
	require.NoError(t, err)
	assert.Equal(t, 1, report.RowCount)

	rows, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "QA Engineer", rows[0].JobRole)
}

func TestCachedProvider_RefreshKeepsRowsOnError(t *testing.T) {
	path := writeFile(t, "kb.yaml", testKBYAML)
	p := newTestProvider(t, ProviderConfig{Paths: []string{path}}, nil)
	_, err := p.Load(context.Background())
	require.NoError(t, err)

	_, err = p.Refresh(context.Background(), filepath.Join(t.TempDir(), "gone.xlsx"))
	assert.ErrorIs(t, err, ErrNoSource)

	rows, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

// ==========================
// Mutations
// ==========================

func TestCachedProvider_DeleteEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.xlsx")
	require.NoError(t, SaveFile(path, sampleRows()))
	mr, rdb := setupMiniredis(t)
	p := newTestProvider(t, ProviderConfig{Paths: []string{path}, RedisKey: "kb:test", Persist: true}, rdb)

	tests := []struct {
		name  string
		index int
		want  bool
	}{
		{"negative", -1, false},
		{"past the end", 2, false},
		{"first row", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := p.DeleteEntry(context.Background(), tt.index)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}

	rows, err := p.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Backend Developer", rows[0].JobRole)

	cached, err := mr.Get("kb:test")
	require.NoError(t, err)
	var shared []models.KnowledgeBaseRow
	require.NoError(t, json.Unmarshal([]byte(cached), &shared))
	assert.Equal(t, rows, shared)

	onDisk, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, rows, onDisk)
}

func TestCachedProvider_ClearAndReplace(t *testing.T) {
	path := writeFile(t, "kb.yaml", testKBYAML)
	p := newTestProvider(t, ProviderConfig{Paths: []string{path}}, nil)

	require.NoError(t, p.Clear(context.Background()))
	rows, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)

	invalid, err := p.Replace(context.Background(), []models.KnowledgeBaseRow{
		{JobRole: "Security Analyst"},
		{Level: "Entry"},
	})
	require.NoError(t, err)
	require.Len(t, invalid, 1)
	assert.Equal(t, 1, invalid[0].Index)

	rows, err = p.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Security Analyst", rows[0].JobRole)
	assert.Equal(t, "Entry", rows[1].Level)

	// file untouched without Persist
	onDisk, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, onDisk, 3)
}

// ==========================
// Shared redis across processes
// ==========================

func TestCachedProvider_RefreshReachesOtherProcesses(t *testing.T) {
	path := writeFile(t, "kb.yaml", testKBYAML)
	_, rdb := setupMiniredis(t)
	cfg := ProviderConfig{Paths: []string{path}, RedisKey: "kb:shared"}
	a := newTestProvider(t, cfg, rdb)
	b := newTestProvider(t, cfg, rdb)

	_, err := a.Load(context.Background())
	require.NoError(t, err)
	before, err := b.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, before, 3)

	upload := writeFile(t, "upload.json", `[{"job_role": "QA Engineer"}]`)
	_, err = a.Refresh(context.Background(), upload)
	require.NoError(t, err)

	after, err := b.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "QA Engineer", after[0].JobRole)

	// b now serves the new rows from memory
	require.NoError(t, os.Remove(upload))
	again, err := b.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, after, again)
}

func TestCachedProvider_MutationsReachOtherProcesses(t *testing.T) {
	path := writeFile(t, "kb.yaml", testKBYAML)
	_, rdb := setupMiniredis(t)
	cfg := ProviderConfig{Paths: []string{path}, RedisKey: "kb:shared"}
	a := newTestProvider(t, cfg, rdb)
	b := newTestProvider(t, cfg, rdb)

	_, err := b.Load(context.Background())
	require.NoError(t, err)

	ok, err := a.DeleteEntry(context.Background(), 0)
	require.NoError(t, err)
	require.True(t, ok)

	rows, err := b.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Backend Developer", rows[0].JobRole)

	require.NoError(t, a.Clear(context.Background()))
	rows, err = b.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCachedProvider_InvalidateReachesOtherProcesses(t *testing.T) {
	path := writeFile(t, "kb.yaml", testKBYAML)
	_, rdb := setupMiniredis(t)
	cfg := ProviderConfig{Paths: []string{path}, RedisKey: "kb:shared"}
	a := newTestProvider(t, cfg, rdb)
	b := newTestProvider(t, cfg, rdb)

	_, err := b.Load(context.Background())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("- job_role: Product Manager\n"), 0o644))
	require.NoError(t, a.Invalidate(context.Background()))

	rows, err := b.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Product Manager", rows[0].JobRole)
}
