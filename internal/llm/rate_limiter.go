package llm

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// bucket - token bucket с непрерывным пополнением.
type bucket struct {
	mu       sync.Mutex
	capacity float64
	tokens   float64
	rate     float64 // единиц в секунду
	last     time.Time
	now      func() time.Time
}

func newBucket(capacity int, per time.Duration, now func() time.Time) *bucket {
	return &bucket{
		capacity: float64(capacity),
		tokens:   float64(capacity),
		rate:     float64(capacity) / per.Seconds(),
		last:     now(),
		now:      now,
	}
}

func (b *bucket) refill() {
	t := b.now()
	b.tokens += t.Sub(b.last).Seconds() * b.rate
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.last = t
}

// take списывает n единиц. Если их не хватает, возвращает время ожидания.
func (b *bucket) take(n float64) (time.Duration, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill()
	if b.tokens < n {
		return time.Duration((n - b.tokens) / b.rate * float64(time.Second)), false
	}
	b.tokens -= n
	return 0, true
}

func (b *bucket) consume(n float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill()
	b.tokens -= n
	if b.tokens < 0 {
		b.tokens = 0
	}
}

func (b *bucket) available() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill()
	return int(b.tokens)
}

// RateLimiter ограничивает число запросов в минуту и токенов в час.
type RateLimiter struct {
	requestsPerMinute int
	tokensPerHour     int
	requests          *bucket
	tokens            *bucket
}

func NewRateLimiter(requestsPerMinute, tokensPerHour int) *RateLimiter {
	return newRateLimiter(requestsPerMinute, tokensPerHour, time.Now)
}

func newRateLimiter(requestsPerMinute, tokensPerHour int, now func() time.Time) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	if tokensPerHour <= 0 {
		tokensPerHour = 90000
	}

	return &RateLimiter{
		requestsPerMinute: requestsPerMinute,
		tokensPerHour:     tokensPerHour,
		requests:          newBucket(requestsPerMinute, time.Minute, now),
		tokens:            newBucket(tokensPerHour, time.Hour, now),
	}
}

func (rl *RateLimiter) AllowRequest(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if wait, ok := rl.requests.take(1); !ok {
		return fmt.Errorf("превышен лимит запросов (%d RPM), повторите через %v", rl.requestsPerMinute, wait.Round(time.Millisecond))
	}
	return nil
}

func (rl *RateLimiter) AllowTokens(ctx context.Context, tokens int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if tokens > rl.tokensPerHour {
		return fmt.Errorf("запрос на %d токенов больше часового лимита (%d TPH)", tokens, rl.tokensPerHour)
	}
	if wait, ok := rl.tokens.take(float64(tokens)); !ok {
		return fmt.Errorf("превышен лимит токенов (%d TPH), повторите через %v", rl.tokensPerHour, wait.Round(time.Second))
	}
	return nil
}

// ConsumeTokens списывает токены сверх оценки после ответа.
func (rl *RateLimiter) ConsumeTokens(tokens int) {
	rl.tokens.consume(float64(tokens))
}

func (rl *RateLimiter) GetStats() (requestsAvailable int, tokensAvailable int) {
	return rl.requests.available(), rl.tokens.available()
}
