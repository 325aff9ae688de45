package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/exhibit-api/pkg/errors"
)

func TestCacheRepositoryWithoutRedis(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()

	assert.False(t, repo.Enabled())

	var dest map[string]string
	err := repo.Get(ctx, "exhibit:feed:1:10:false", &dest)
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)

	require.NoError(t, repo.Set(ctx, "exhibit:feed:1:10:false", map[string]string{"a": "b"}, time.Minute))
	require.NoError(t, repo.DeleteByPattern(ctx, "exhibit:feed:*"))

	added, err := repo.AddVisitor(ctx, "exhibit:visitors:sub-1", "visitor-1")
	require.NoError(t, err)
	assert.False(t, added)
}
