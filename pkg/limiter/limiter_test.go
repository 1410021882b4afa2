package limiter

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	limiterlib "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

func TestParseLimit(t *testing.T) {
	cases := []struct {
		limit string
		want  float64
	}{
		{"5-S", 5},
		{"120-M", 2},
		{"3600-H", 1},
		{"86400-D", 1},
		{"30000-H", 30000.0 / 3600},
		{"10-m", 10.0 / 60},
	}
	for _, tc := range cases {
		t.Run(tc.limit, func(t *testing.T) {
			r, err := ParseLimit(tc.limit)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, r.Rate, 1e-9)
		})
	}
}

func TestParseLimitInvalid(t *testing.T) {
	for _, limit := range []string{"", "abc", "5-X", "five-S", "5/S", "0-S", "-1-M"} {
		_, err := ParseLimit(limit)
		assert.Error(t, err, limit)
	}
}

func newContext() *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/v1/chat", nil)
	return c
}

func TestCheckRateWithStore(t *testing.T) {
	store := memory.NewStoreWithOptions(limiterlib.StoreOptions{Prefix: "test", CleanUpInterval: time.Minute})

	for i := 0; i < 2; i++ {
		res, err := CheckRateWithStore(newContext(), store, "k", "2-M")
		require.NoError(t, err)
		assert.False(t, res.Reached)
	}

	res, err := CheckRateWithStore(newContext(), store, "k", "2-M")
	require.NoError(t, err)
	assert.True(t, res.Reached)
}

func TestCheckRateCountsOncePerRequest(t *testing.T) {
	store := memory.NewStoreWithOptions(limiterlib.StoreOptions{Prefix: "test", CleanUpInterval: time.Minute})
	c := newContext()

	first, err := CheckRateWithStore(c, store, "k", "5-M")
	require.NoError(t, err)
	second, err := CheckRateWithStore(c, store, "k", "5-M")
	require.NoError(t, err)

	assert.Equal(t, first.Remaining, second.Remaining)
}

func TestCheckRateRejectsBadFormat(t *testing.T) {
	store := memory.NewStoreWithOptions(limiterlib.StoreOptions{Prefix: "test", CleanUpInterval: time.Minute})
	_, err := CheckRateWithStore(newContext(), store, "k", "bogus")
	assert.Error(t, err)
}

func TestRouteToKeyString(t *testing.T) {
	assert.Equal(t, "-v1-chat-jobs-_id", routeToKeyString("/v1/chat/jobs/:id"))
}
