//go:build integration

package valkey_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/cctvlocator/internal/adapters/valkey"
)

var _ fiber.Storage = (*valkey.Storage)(nil)

func newStorage(t *testing.T) *valkey.Storage {
	t.Helper()
	addr := os.Getenv("VALKEY_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	s, err := valkey.New(addr, "cctvlocator:test:")
	if err != nil {
		t.Skipf("valkey unavailable: %v", err)
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Skipf("valkey unavailable: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Reset()
		_ = s.Close()
	})
	return s
}

func TestStorage_SetGetDelete(t *testing.T) {
	s := newStorage(t)

	require.NoError(t, s.Set("k1", []byte("v1"), 0))
	got, err := s.Get("k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	require.NoError(t, s.Delete("k1"))
	got, err = s.Get("k1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStorage_Expiry(t *testing.T) {
	s := newStorage(t)

	require.NoError(t, s.Set("short", []byte("x"), 50*time.Millisecond))
	time.Sleep(150 * time.Millisecond)

	got, err := s.Get("short")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStorage_Reset(t *testing.T) {
	s := newStorage(t)

	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, s.Set(k, []byte(k), time.Minute))
	}
	require.NoError(t, s.Reset())

	for _, k := range []string{"a", "b", "c"} {
		got, err := s.Get(k)
		require.NoError(t, err)
		assert.Nil(t, got, "key %s survived reset", k)
	}
}
