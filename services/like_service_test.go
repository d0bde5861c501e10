package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeService(t *testing.T) {
	s := newMemStore()
	owner := s.addUser("Owner", false)
	alice := s.addUser("Alice", false)
	bob := s.addUser("Bob", false)
	template := seedTemplate(s, owner.ID)
	svc := NewLikeServiceWith(fakeLikes{s}, fakeTemplates{s}, fakeTx{s})
	ctx := context.Background()

	countMatchesRows := func(t *testing.T) {
		t.Helper()
		assert.Equal(t, s.likeCount(template.ID), s.templates[template.ID].LikesCount)
	}

	t.Run("guest sees count", func(t *testing.T) {
		status, err := svc.Status(ctx, 0, template.ID)
		require.NoError(t, err)
		assert.Equal(t, &LikeStatus{LikesCount: 0, UserHasLiked: false}, status)
	})

	t.Run("guest cannot like", func(t *testing.T) {
		_, err := svc.Like(ctx, 0, template.ID)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("like increments", func(t *testing.T) {
		status, err := svc.Like(ctx, alice.ID, template.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, status.LikesCount)
		assert.True(t, status.UserHasLiked)

		status, err = svc.Like(ctx, bob.ID, template.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, status.LikesCount)
		countMatchesRows(t)
	})

	t.Run("double like conflicts", func(t *testing.T) {
		_, err := svc.Like(ctx, alice.ID, template.ID)
		assert.ErrorIs(t, err, ErrConflict)
		assert.Equal(t, 2, s.templates[template.ID].LikesCount)
		countMatchesRows(t)
	})

	t.Run("unlike decrements", func(t *testing.T) {
		status, err := svc.Unlike(ctx, alice.ID, template.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, status.LikesCount)
		assert.False(t, status.UserHasLiked)
		countMatchesRows(t)
	})

	t.Run("unlike without like conflicts", func(t *testing.T) {
		_, err := svc.Unlike(ctx, alice.ID, template.ID)
		assert.ErrorIs(t, err, ErrConflict)
		countMatchesRows(t)
	})

	t.Run("missing template", func(t *testing.T) {
		_, err := svc.Like(ctx, alice.ID, 9999)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = svc.Status(ctx, alice.ID, 9999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("counter never negative", func(t *testing.T) {
		tpl := s.templates[template.ID]
		tpl.LikesCount = 0
		s.templates[template.ID] = tpl

		status, err := svc.Unlike(ctx, bob.ID, template.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, status.LikesCount)
	})
}
