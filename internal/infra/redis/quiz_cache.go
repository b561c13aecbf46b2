package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"quizpad-service/internal/domain"
)

// QuizLoader fetches a quiz from the backing store.
type QuizLoader interface {
	LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// QuizCache keeps single quizzes in Redis in front of a slower store so that
// several service instances share one cache and one invalidation.
// Cached as: SET {prefix}cache:quiz:{quizID} <quiz json> PX ttl
// Invalidate bumps {prefix}cache:quiz:{quizID}:v; a fill only lands while the
// version it read before loading is still current.
type QuizCache struct {
	client *redis.Client
	loader QuizLoader
	prefix string
	ttl    time.Duration
	sf     singleflight.Group
}

// fillScript: KEYS[1] cache key, KEYS[2] version key,
// ARGV[1] version seen before the load, ARGV[2] quiz json, ARGV[3] ttl ms.
var fillScript = redis.NewScript(`
local v = redis.call('GET', KEYS[2]) or ''
if v ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

func NewQuizCache(client *redis.Client, loader QuizLoader, prefix string, ttl time.Duration) *QuizCache {
	return &QuizCache{
		client: client,
		loader: loader,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (r *QuizCache) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	if quiz, ok := r.cached(ctx, quizID); ok {
		return quiz, nil
	}

	result, err, _ := r.sf.Do(quizID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if quiz, ok := r.cached(ctx, quizID); ok {
			return quiz, nil
		}

		version, err := r.client.Get(ctx, r.versionKey(quizID)).Result()
		if err != nil && err != redis.Nil {
			// no reliable version to compare against: serve from the store uncached
			return r.loader.LoadQuiz(ctx, quizID)
		}

		quiz, err := r.loader.LoadQuiz(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}

		ttl := r.ttlWithJitter()
		if raw, err := json.Marshal(quiz); err == nil && ttl > 0 {
			_ = fillScript.Run(ctx, r.client,
				[]string{r.key(quizID), r.versionKey(quizID)},
				version, raw, ttl.Milliseconds()).Err()
		}
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

// Invalidate drops the cached quiz for every instance and voids fills that
// started before it.
func (r *QuizCache) Invalidate(ctx context.Context, quizID string) {
	_, _ = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, r.versionKey(quizID))
		pipe.Del(ctx, r.key(quizID))
		return nil
	})
	r.sf.Forget(quizID)
}

func (r *QuizCache) cached(ctx context.Context, quizID string) (domain.Quiz, bool) {
	raw, err := r.client.Get(ctx, r.key(quizID)).Bytes()
	if err != nil {
		return domain.Quiz{}, false
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return domain.Quiz{}, false
	}
	return quiz, true
}

func (r *QuizCache) key(quizID string) string {
	return r.prefix + "cache:quiz:" + quizID
}

func (r *QuizCache) versionKey(quizID string) string {
	return r.key(quizID) + ":v"
}

func (r *QuizCache) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(rand.Int63n(jitterMax+1))
}
