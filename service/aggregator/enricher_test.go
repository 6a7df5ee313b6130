package aggregator

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tnqbao/gau-wiki-gateway/entity"
)

type stubDirectory struct {
	profiles  map[int64]entity.PublicProfile
	err       error
	requested [][]int64

	searchResult entity.UserSearchResult
	searchErr    error
	searches     int
}

func (s *stubDirectory) LookupByIDs(_ context.Context, ids []int64) (map[int64]entity.PublicProfile, error) {
	s.requested = append(s.requested, append([]int64(nil), ids...))
	if s.err != nil {
		return nil, s.err
	}
	out := make(map[int64]entity.PublicProfile)
	for _, id := range ids {
		if p, ok := s.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (s *stubDirectory) SearchUsers(context.Context, string, int64, int, int) (entity.UserSearchResult, error) {
	s.searches++
	return s.searchResult, s.searchErr
}

func (s *stubDirectory) calls() int {
	return len(s.requested)
}

type nopLogger struct{}

func (nopLogger) WarningWithContextf(context.Context, string, ...any)      {}
func (nopLogger) ErrorWithContextf(context.Context, error, string, ...any) {}

func newDirectory() *stubDirectory {
	return &stubDirectory{profiles: map[int64]entity.PublicProfile{
		1: {ID: 1, DisplayName: "alice", AvatarURL: "alice.png"},
		2: {ID: 2, DisplayName: "bob", AvatarURL: "bob.png"},
		3: {ID: 3, DisplayName: "carol", AvatarURL: "carol.png"},
	}}
}

var creatorConfig = &Config{Fields: FieldMapping{"created_by": "creator"}}

func TestEnrichObject(t *testing.T) {
	dir := newDirectory()
	e := NewEnricher(dir, nopLogger{})

	in := map[string]any{"id": 10, "created_by": float64(1)}
	out := e.EnrichObject(context.Background(), in, creatorConfig)

	assert.Equal(t, entity.PublicProfile{ID: 1, DisplayName: "alice", AvatarURL: "alice.png"}, out["creator"])
	assert.Equal(t, float64(1), out["created_by"])
	assert.NotContains(t, in, "creator", "input must not be mutated")
	assert.Equal(t, 1, dir.calls())
}

func TestEnrichObject_NotAnID(t *testing.T) {
	cases := map[string]any{
		"missing":    nil,
		"zero":       0,
		"negative":   -4,
		"fraction":   1.5,
		"string":     "1",
		"json false": false,
	}

	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			dir := newDirectory()
			e := NewEnricher(dir, nopLogger{})

			in := map[string]any{"id": 1}
			if value != nil {
				in["created_by"] = value
			}
			out := e.EnrichObject(context.Background(), in, creatorConfig)

			assert.NotContains(t, out, "creator")
			assert.Zero(t, dir.calls())
		})
	}
}

func TestEnrichArray_SingleLookup(t *testing.T) {
	dir := newDirectory()
	e := NewEnricher(dir, nopLogger{})
	cfg := &Config{Fields: FieldMapping{"created_by": "author", "reviewed_by": "reviewer"}}

	list := []map[string]any{
		{"id": 1, "created_by": 1, "reviewed_by": 2},
		{"id": 2, "created_by": 2},
		{"id": 3, "created_by": 1, "reviewed_by": 99},
	}
	out := e.EnrichArray(context.Background(), list, cfg)

	require.Len(t, out, 3)
	require.Equal(t, 1, dir.calls())
	assert.ElementsMatch(t, []int64{1, 2, 99}, dir.requested[0], "ids are deduplicated")

	assert.Equal(t, "alice", out[0]["author"].(entity.PublicProfile).DisplayName)
	assert.Equal(t, "bob", out[0]["reviewer"].(entity.PublicProfile).DisplayName)
	assert.Equal(t, "bob", out[1]["author"].(entity.PublicProfile).DisplayName)
	assert.NotContains(t, out[1], "reviewer")
	assert.Equal(t, entity.PlaceholderProfile(99), out[2]["reviewer"])

	for i := range list {
		assert.NotContains(t, list[i], "author")
	}
}

func TestEnrichArray_Empty(t *testing.T) {
	dir := newDirectory()
	e := NewEnricher(dir, nopLogger{})

	assert.Nil(t, e.EnrichArray(context.Background(), nil, creatorConfig))
	assert.Empty(t, e.EnrichArray(context.Background(), []map[string]any{}, creatorConfig))
	assert.Zero(t, dir.calls())
}

func commentThread() []any {
	return []any{
		map[string]any{
			"id": 1, "created_by": 1,
			"replies": []any{
				map[string]any{
					"id": 2, "created_by": 2,
					"replies": []any{
						map[string]any{
							"id": 3, "created_by": 3,
							"replies": []any{
								map[string]any{"id": 4, "created_by": 1, "replies": []any{}},
							},
						},
					},
				},
			},
		},
		map[string]any{"id": 5, "created_by": 404, "replies": nil},
	}
}

func TestEnrichNested_SelfReferentialDepth(t *testing.T) {
	dir := newDirectory()
	e := NewEnricher(dir, nopLogger{})
	cfg := &Config{Fields: FieldMapping{"created_by": "creator"}, NestedArrayField: "replies"}

	out := e.EnrichNested(context.Background(), commentThread(), cfg).([]any)

	require.Equal(t, 1, dir.calls(), "one lookup for the whole tree")
	assert.ElementsMatch(t, []int64{1, 2, 3, 404}, dir.requested[0])

	level1 := out[0].(map[string]any)
	level2 := level1["replies"].([]any)[0].(map[string]any)
	level3 := level2["replies"].([]any)[0].(map[string]any)
	level4 := level3["replies"].([]any)[0].(map[string]any)

	assert.Equal(t, "alice", level1["creator"].(entity.PublicProfile).DisplayName)
	assert.Equal(t, "bob", level2["creator"].(entity.PublicProfile).DisplayName)
	assert.Equal(t, "carol", level3["creator"].(entity.PublicProfile).DisplayName)
	assert.Equal(t, "alice", level4["creator"].(entity.PublicProfile).DisplayName)

	orphan := out[1].(map[string]any)
	assert.True(t, orphan["creator"].(entity.PublicProfile).IsPlaceholder())
	assert.Nil(t, orphan["replies"])
}

func TestEnrichNested_ExplicitChildConfig(t *testing.T) {
	dir := newDirectory()
	e := NewEnricher(dir, nopLogger{})
	cfg := &Config{
		Fields:           FieldMapping{"created_by": "author"},
		NestedArrayField: "history",
		Nested:           &Config{Fields: FieldMapping{"author_id": "author", "reviewed_by": "reviewer"}},
	}

	article := map[string]any{
		"id":         7,
		"created_by": 1,
		"history": []any{
			map[string]any{"author_id": 2, "reviewed_by": 3},
			map[string]any{"author_id": 1, "reviewed_by": 0, "created_by": 3},
		},
	}
	out := e.EnrichNested(context.Background(), article, cfg).(map[string]any)

	require.Equal(t, 1, dir.calls())
	assert.Equal(t, "alice", out["author"].(entity.PublicProfile).DisplayName)

	history := out["history"].([]any)
	first := history[0].(map[string]any)
	second := history[1].(map[string]any)
	assert.Equal(t, "bob", first["author"].(entity.PublicProfile).DisplayName)
	assert.Equal(t, "carol", first["reviewer"].(entity.PublicProfile).DisplayName)
	assert.NotContains(t, second, "reviewer")
	assert.Equal(t, "alice", second["author"].(entity.PublicProfile).DisplayName, "child config replaces the parent mapping")

	assert.NotContains(t, article["history"].([]any)[0].(map[string]any), "author")
}

func TestEnrichNested_DirectoryFailure(t *testing.T) {
	dir := newDirectory()
	dir.err = errors.New("auth service unavailable")
	e := NewEnricher(dir, nopLogger{})
	cfg := &Config{Fields: FieldMapping{"created_by": "creator"}, NestedArrayField: "replies"}

	out := e.EnrichNested(context.Background(), commentThread(), cfg).([]any)

	require.Equal(t, 1, dir.calls())
	level1 := out[0].(map[string]any)
	assert.Equal(t, entity.PlaceholderProfile(1), level1["creator"])
	level2 := level1["replies"].([]any)[0].(map[string]any)
	assert.Equal(t, entity.PlaceholderProfile(2), level2["creator"])
}

func TestEnrichNested_NoSourceFieldsIsNoop(t *testing.T) {
	dir := newDirectory()
	e := NewEnricher(dir, nopLogger{})
	cfg := &Config{Fields: FieldMapping{"created_by": "creator"}, NestedArrayField: "replies"}

	enriched := []any{
		map[string]any{"id": 1, "creator": entity.PublicProfile{ID: 1, DisplayName: "alice"}, "replies": []any{}},
	}
	out := e.EnrichNested(context.Background(), enriched, cfg)

	assert.Equal(t, enriched, out)
	assert.Zero(t, dir.calls())
	assert.Nil(t, e.EnrichNested(context.Background(), nil, cfg))
}

func TestEnrichNested_TypedSlice(t *testing.T) {
	dir := newDirectory()
	e := NewEnricher(dir, nopLogger{})

	out := e.EnrichNested(context.Background(), []map[string]any{{"created_by": json.Number("2")}}, creatorConfig).([]map[string]any)

	assert.Equal(t, "bob", out[0]["creator"].(entity.PublicProfile).DisplayName)
}

func TestProfile(t *testing.T) {
	dir := newDirectory()
	e := NewEnricher(dir, nopLogger{})

	p, ok := e.Profile(context.Background(), 2)
	assert.True(t, ok)
	assert.Equal(t, "bob", p.DisplayName)

	_, ok = e.Profile(context.Background(), 500)
	assert.False(t, ok)

	_, ok = e.Profile(context.Background(), 0)
	assert.False(t, ok)
	assert.Equal(t, 2, dir.calls())
}

func TestSearchUsers(t *testing.T) {
	dir := newDirectory()
	dir.searchResult = entity.UserSearchResult{Users: []entity.PublicProfile{{ID: 2, DisplayName: "bob"}}, Total: 1}
	e := NewEnricher(dir, nopLogger{})

	blank := e.SearchUsers(context.Background(), "   ", 0, 0, 0)
	assert.Empty(t, blank.Users)
	assert.NotNil(t, blank.Users)
	assert.Equal(t, 1, blank.Page)
	assert.Equal(t, 10, blank.PageSize)
	assert.Zero(t, dir.searches)

	found := e.SearchUsers(context.Background(), " bo ", 1, 2, 500)
	assert.Equal(t, int64(1), found.Total)
	assert.Equal(t, 100, found.PageSize)
	assert.Equal(t, 2, found.Page)

	dir.searchErr = errors.New("down")
	failed := e.SearchUsers(context.Background(), "bo", 0, 1, 10)
	assert.Empty(t, failed.Users)
	assert.Zero(t, failed.Total)
}
