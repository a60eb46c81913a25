package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GetStream/engagement-backend/engagement"
)

func connect(t *testing.T, ttl time.Duration) *Redis {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	r, err := Connect(context.Background(), addr, ttl)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestAuthorKey(t *testing.T) {
	ref := engagement.ActorRef{ID: "abc", Kind: engagement.Organization}
	assert.Equal(t, "authors:organization:abc", authorKey(ref))
}

func TestRedis_AuthorCache(t *testing.T) {
	r := connect(t, time.Minute)
	ctx := context.Background()
	ref := engagement.ActorRef{ID: uuid.NewString(), Kind: engagement.Individual}

	_, ok, err := r.GetAuthor(ctx, ref)
	require.NoError(t, err)
	assert.False(t, ok)

	want := engagement.Author{Name: "Ada Lovelace", Picture: "https://cdn.example.com/ada.png", Bio: "Analytical engines"}
	require.NoError(t, r.SetAuthor(ctx, ref, want))

	got, ok, err := r.GetAuthor(ctx, ref)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)

	other := engagement.ActorRef{ID: ref.ID, Kind: engagement.Organization}
	_, ok, err = r.GetAuthor(ctx, other)
	require.NoError(t, err)
	assert.False(t, ok, "kinds share a cache entry")
}

func TestRedis_Expiry(t *testing.T) {
	r := connect(t, time.Second)
	ctx := context.Background()
	ref := engagement.ActorRef{ID: uuid.NewString(), Kind: engagement.Individual}

	require.NoError(t, r.SetAuthor(ctx, ref, engagement.Author{Name: "Grace Hopper"}))
	assert.Eventually(t, func() bool {
		_, ok, err := r.GetAuthor(ctx, ref)
		return err == nil && !ok
	}, 3*time.Second, 100*time.Millisecond)
}
