package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iliyamo/cafe-finder/internal/config"
)

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}, "X-Foo": {"a", "b"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"items":[]}`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, gotHdr)
	assert.Equal(t, `{"items":[]}`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 0, 0})
	assert.False(t, ok)
	_, _, _, ok = decodePayload(append(bs[:4:4], 0, 0, 1, 0))
	assert.False(t, ok)
}

func newContext(method, target, path string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set(echo.HeaderXRealIP, "203.0.113.9")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath(path)
	return c
}

func TestListingKey(t *testing.T) {
	a := listingKey("cafes:cache", newContext(http.MethodGet, "/v1/cafes?x=1", "/v1/cafes"))
	b := listingKey("cafes:cache", newContext(http.MethodGet, "/v1/cafes?x=2", "/v1/cafes"))
	c := listingKey("cafes:cache", newContext(http.MethodGet, "/v1/cafes?x=1", "/v1/cafes"))
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, c)
	assert.Regexp(t, `^cafes:cache:[0-9a-f]{40}$`, a)
}

func TestDisabledMiddlewarePassThrough(t *testing.T) {
	called := 0
	next := func(c echo.Context) error { called++; return c.NoContent(http.StatusNoContent) }
	log := zap.NewNop()

	mws := []echo.MiddlewareFunc{
		NewRedisCache(config.CacheConfig{Enabled: true}, nil),
		NewCacheInvalidator(config.CacheConfig{Enabled: true}, nil, log),
		NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil, log, nil),
	}
	for _, mw := range mws {
		c := newContext(http.MethodPost, "/v1/cafes", "/v1/cafes")
		require.NoError(t, mw(next)(c))
	}
	assert.Equal(t, len(mws), called)
}

func TestBuildRateKey(t *testing.T) {
	c := newContext(http.MethodPost, "/add", "/add")
	cfg := config.RateLimitConfig{Prefix: "rl"}

	cfg.KeyStrategy = "ip"
	assert.Equal(t, "rl:ip:203.0.113.9", buildRateKey(cfg, c))
	cfg.KeyStrategy = "route"
	assert.Equal(t, "rl:route:POST /add", buildRateKey(cfg, c))
	cfg.KeyStrategy = ""
	assert.Equal(t, "rl:ip:203.0.113.9:route:POST /add", buildRateKey(cfg, c))
}

func TestParseBucketResult(t *testing.T) {
	allowed, remaining, retry, ok := parseBucketResult([]interface{}{int64(1), int64(4), int64(0)})
	assert.True(t, ok)
	assert.True(t, allowed)
	assert.Equal(t, int64(4), remaining)
	assert.Equal(t, int64(0), retry)

	allowed, _, retry, ok = parseBucketResult([]interface{}{"0", "0", "1500"})
	assert.True(t, ok)
	assert.False(t, allowed)
	assert.Equal(t, int64(1500), retry)
	assert.Equal(t, 2, retryAfterSeconds(retry))

	_, _, _, ok = parseBucketResult("nope")
	assert.False(t, ok)
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	e := echo.New()
	e.Use(RequestLogger(zap.New(core)))
	e.GET("/ok", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/boom", func(c echo.Context) error { return echo.NewHTTPError(http.StatusInternalServerError, "boom") })

	for _, p := range []string{"/ok", "/boom"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "/boom", entries[1].ContextMap()["uri"])
}

func TestRateLimitDefaults(t *testing.T) {
	cfg := config.LoadRateLimitConfig()
	assert.GreaterOrEqual(t, cfg.Capacity, 1)
	assert.GreaterOrEqual(t, cfg.TTL, 5*cfg.RefillInterval)
	assert.Greater(t, cfg.RefillInterval, time.Duration(0))
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRedisCache_SkipsOversizedBody(t *testing.T) {
	mr, rdb := newRedis(t)
	cfg := config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "cafes:cache", MaxBodyBytes: 16}

	calls := 0
	e := echo.New()
	e.GET("/v1/cafes", func(c echo.Context) error {
		calls++
		return c.String(http.StatusOK, strings.Repeat("x", 32))
	}, NewRedisCache(cfg, rdb))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/cafes", nil))
		assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
		assert.Equal(t, strings.Repeat("x", 32), rec.Body.String())
	}
	assert.Equal(t, 2, calls)
	assert.Empty(t, mr.Keys())
}

func TestRedisCache_ReplaysHeadersAndPurges(t *testing.T) {
	mr, rdb := newRedis(t)
	cfg := config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "cafes:cache", MaxBodyBytes: 1 << 20}
	log := zap.NewNop()

	calls := 0
	e := echo.New()
	e.GET("/v1/cafes", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, map[string]int{"calls": calls})
	}, NewRedisCache(cfg, rdb))
	e.POST("/v1/cafes", func(c echo.Context) error {
		return c.NoContent(http.StatusCreated)
	}, NewCacheInvalidator(cfg, rdb, log))
	e.POST("/fail", func(c echo.Context) error {
		return c.NoContent(http.StatusConflict)
	}, NewCacheInvalidator(cfg, rdb, log))
	require.NoError(t, mr.Set("unrelated", "keep"))

	get := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/cafes", nil))
		return rec
	}
	post := func(path string) {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, path, nil))
	}

	first := get()
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	hit := get()
	assert.Equal(t, "HIT", hit.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), hit.Body.String())
	assert.Equal(t, first.Header().Get(echo.HeaderContentType), hit.Header().Get(echo.HeaderContentType))

	post("/fail")
	assert.Equal(t, "HIT", get().Header().Get("X-Cache"))

	post("/v1/cafes")
	fresh := get()
	assert.Equal(t, "MISS", fresh.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"calls":2}`, fresh.Body.String())
	assert.True(t, mr.Exists("unrelated"))
}

func TestTokenBucket_BlocksWithCustomResponse(t *testing.T) {
	_, rdb := newRedis(t)
	cfg := config.RateLimitConfig{
		Enabled: true, Capacity: 1, RefillTokens: 1,
		RefillInterval: time.Minute, TTL: 5 * time.Minute, Prefix: "cafes:rl",
	}
	limited := func(c echo.Context, retryAfter int) error {
		return c.String(http.StatusTooManyRequests, "slow down "+strconv.Itoa(retryAfter))
	}

	e := echo.New()
	e.POST("/add", func(c echo.Context) error { return c.NoContent(http.StatusSeeOther) },
		NewTokenBucket(cfg, rdb, zap.NewNop(), limited))

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/add", nil)
		req.Header.Set(echo.HeaderXRealIP, ip)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := send("203.0.113.9")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = send("203.0.113.9")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Equal(t, "slow down 60", rec.Body.String())

	// buckets are per client
	assert.Equal(t, http.StatusSeeOther, send("198.51.100.7").Code)
}
