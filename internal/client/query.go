package client

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/intelliking/skillhub/internal/skill"
)

// SkillsTTL is how long a fetched catalog stays fresh before a caller
// triggers a refetch.
const SkillsTTL = 10 * time.Minute

const skillsKey = "skills"

// SkillsQuery caches GetSkills results behind a freshness window so repeated
// screen loads don't refetch the catalog. Concurrent callers during a miss
// share a single fetch.
type SkillsQuery struct {
	client *Client
	cache  *expirable.LRU[string, []*skill.Skill]

	mu       sync.Mutex
	inflight chan struct{}
}

// NewSkillsQuery wraps a Client with a cached skills fetch using the given
// freshness window. ttl <= 0 uses SkillsTTL.
func NewSkillsQuery(c *Client, ttl time.Duration) *SkillsQuery {
	if ttl <= 0 {
		ttl = SkillsTTL
	}
	return &SkillsQuery{
		client: c,
		cache:  expirable.NewLRU[string, []*skill.Skill](4, nil, ttl),
	}
}

// Get returns the cached catalog when fresh, otherwise fetches it. Errors
// are not cached, so the next caller retries.
func (q *SkillsQuery) Get(ctx context.Context) ([]*skill.Skill, error) {
	if skills, ok := q.cache.Get(skillsKey); ok {
		return skills, nil
	}

	q.mu.Lock()
	if q.inflight != nil {
		done := q.inflight
		q.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if skills, ok := q.cache.Get(skillsKey); ok {
			return skills, nil
		}
		// The fetch we waited on failed; fall through and try ourselves.
		return q.Get(ctx)
	}
	done := make(chan struct{})
	q.inflight = done
	q.mu.Unlock()

	skills, err := q.client.GetSkills(ctx)

	q.mu.Lock()
	q.inflight = nil
	close(done)
	if err == nil {
		q.cache.Add(skillsKey, skills)
	}
	q.mu.Unlock()

	return skills, err
}

// Invalidate drops the cached catalog so the next Get refetches.
func (q *SkillsQuery) Invalidate() {
	q.cache.Remove(skillsKey)
}
