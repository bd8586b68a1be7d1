package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint(t *testing.T) {
	a := Fingerprint([]byte("cv"), "cv.pdf", "")
	b := Fingerprint([]byte("cv"), "cv.pdf", "go developer")
	c := Fingerprint([]byte("cv2"), "cv.pdf", "")
	d := Fingerprint([]byte("cv"), "senior_manager.pdf", "")

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d)
	assert.Equal(t, a, Fingerprint([]byte("cv"), "cv.pdf", ""))
	assert.Equal(t, a, Fingerprint([]byte("cv"), "uploads/CV.PDF", ""))

	parts := strings.Split(a, ":")
	require.Len(t, parts, 3)
	assert.Equal(t, FileFingerprint([]byte("cv")), parts[0])
	assert.Len(t, parts[0], 64)
	assert.Len(t, parts[1], 16)
	assert.Len(t, parts[2], 16)
}

func TestRedisResultCache_NilClientBypasses(t *testing.T) {
	cache := NewRedisResultCache(nil, 0, nil)

	require.NoError(t, cache.Set(context.Background(), "k", &CachedResult{WordCount: 3}))
	got, ok, err := cache.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestNewRedisClient_EmptyAddr(t *testing.T) {
	assert.Nil(t, NewRedisClient("", "", 0, nil))
}
