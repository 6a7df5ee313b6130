package aggregator

import (
	"context"
	"maps"
	"strings"

	"github.com/tnqbao/gau-wiki-gateway/entity"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/tnqbao/gau-wiki-gateway/service/aggregator"

const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100
)

// Enricher attaches public user profiles to backend documents. Every call performs at
// most one directory lookup no matter how many records or nesting levels it covers.
type Enricher struct {
	directory Directory
	logger    Logger
	tracer    trace.Tracer
	lookups   metric.Int64Counter
	failures  metric.Int64Counter
}

func NewEnricher(directory Directory, logger Logger) *Enricher {
	meter := otel.Meter(instrumentationName)
	lookups, _ := meter.Int64Counter("aggregator.directory.lookups",
		metric.WithDescription("Batched user directory lookups"))
	failures, _ := meter.Int64Counter("aggregator.directory.failures",
		metric.WithDescription("User directory lookups answered with placeholders"))

	return &Enricher{
		directory: directory,
		logger:    logger,
		tracer:    otel.Tracer(instrumentationName),
		lookups:   lookups,
		failures:  failures,
	}
}

// EnrichObject returns a shallow copy of obj with every mapped source ID resolved into
// its target field. obj itself is never modified.
func (e *Enricher) EnrichObject(ctx context.Context, obj map[string]any, cfg *Config) map[string]any {
	if obj == nil {
		return nil
	}
	out, _ := e.enrich(ctx, maps.Clone(obj), cfg.flat()).(map[string]any)
	return out
}

// EnrichArray enriches each element of list with a single lookup for the whole list.
func (e *Enricher) EnrichArray(ctx context.Context, list []map[string]any, cfg *Config) []map[string]any {
	if len(list) == 0 {
		return list
	}
	out, _ := e.enrich(ctx, list, cfg.flat()).([]map[string]any)
	return out
}

// EnrichNested enriches a tree (an object, []any or []map[string]any) following
// cfg.NestedArrayField at every level.
func (e *Enricher) EnrichNested(ctx context.Context, data any, cfg *Config) any {
	if data == nil {
		return nil
	}
	return e.enrich(ctx, data, cfg)
}

// enrich runs collect, one lookup, then apply. Both passes use walk so they visit
// exactly the same records.
func (e *Enricher) enrich(ctx context.Context, data any, cfg *Config) any {
	if cfg == nil || len(cfg.Fields) == 0 {
		return data
	}

	var ids []int64
	seen := map[int64]struct{}{}
	walk(data, cfg, func(obj map[string]any, level *Config) {
		for source := range level.Fields {
			if id, ok := userID(obj[source]); ok {
				if _, dup := seen[id]; !dup {
					seen[id] = struct{}{}
					ids = append(ids, id)
				}
			}
		}
	})
	if len(ids) == 0 {
		return data
	}

	profiles := e.resolve(ctx, ids)

	return walk(data, cfg, func(obj map[string]any, level *Config) {
		for source, target := range level.Fields {
			if id, ok := userID(obj[source]); ok {
				obj[target] = profiles[id]
			}
		}
	})
}

// walk rebuilds data with every record shallow-copied before visit sees it, so visitors
// may write to the record without touching the caller's data.
func walk(data any, cfg *Config, visit func(obj map[string]any, cfg *Config)) any {
	switch v := data.(type) {
	case map[string]any:
		out := maps.Clone(v)
		visit(out, cfg)
		if field := cfg.NestedArrayField; field != "" {
			if nested, ok := out[field]; ok && nested != nil {
				out[field] = walk(nested, cfg.child(), visit)
			}
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(v))
		for i, item := range v {
			out[i], _ = walk(item, cfg, visit).(map[string]any)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = walk(item, cfg, visit)
		}
		return out
	default:
		return data
	}
}

// resolve returns a profile for every requested ID, substituting placeholders for users
// the directory does not know and for all users when the directory fails.
func (e *Enricher) resolve(ctx context.Context, ids []int64) map[int64]entity.PublicProfile {
	profiles := make(map[int64]entity.PublicProfile, len(ids))
	if len(ids) == 0 {
		return profiles
	}

	ctx, span := e.tracer.Start(ctx, "aggregator.resolve")
	defer span.End()
	span.SetAttributes(attribute.Int("user.count", len(ids)))

	e.lookups.Add(ctx, 1)
	found, err := e.directory.LookupByIDs(ctx, ids)
	if err != nil {
		e.failures.Add(ctx, 1)
		span.RecordError(err)
		e.logger.WarningWithContextf(ctx, "[Aggregator] User lookup for %d ids failed, serving placeholders: %v", len(ids), err)
		found = nil
	}

	for _, id := range ids {
		if profile, ok := found[id]; ok {
			profile.ID = id
			profiles[id] = profile
			continue
		}
		profiles[id] = entity.PlaceholderProfile(id)
	}
	return profiles
}

// Profile resolves a single user. ok is false when the user is unknown or the directory
// is unavailable.
func (e *Enricher) Profile(ctx context.Context, id int64) (entity.PublicProfile, bool) {
	if id <= 0 {
		return entity.PlaceholderProfile(id), false
	}
	profile := e.resolve(ctx, []int64{id})[id]
	return profile, !profile.IsPlaceholder()
}

// SearchUsers looks users up by keyword. A blank keyword, a directory without search
// support, or a failing directory all yield an empty page.
func (e *Enricher) SearchUsers(ctx context.Context, keyword string, excludeID int64, page, pageSize int) entity.UserSearchResult {
	if page < 1 {
		page = defaultPage
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	empty := entity.UserSearchResult{Users: []entity.PublicProfile{}, Page: page, PageSize: pageSize}

	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return empty
	}

	searcher, ok := e.directory.(Searcher)
	if !ok {
		return empty
	}

	result, err := searcher.SearchUsers(ctx, keyword, excludeID, page, pageSize)
	if err != nil {
		e.logger.WarningWithContextf(ctx, "[Aggregator] User search for %q failed: %v", keyword, err)
		return empty
	}
	if result.Users == nil {
		result.Users = []entity.PublicProfile{}
	}
	result.Page = page
	result.PageSize = pageSize
	return result
}
