package services

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/kfactor072/matchmaking-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlayerServiceForTest(t *testing.T) (PlayerService, *fakePlayerRepo, *fakeMatchRepo, *fakeUploader) {
	t.Helper()
	playerRepo := newFakePlayerRepo()
	matchRepo := newFakeMatchRepo()
	uploader := &fakeUploader{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewPlayerService(playerRepo, matchRepo, uploader, logger)
	return service, playerRepo, matchRepo, uploader
}

func TestRegisterAssignsInitialRating(t *testing.T) {
	service, _, _, _ := newPlayerServiceForTest(t)

	player, err := service.Register(context.Background(), "alice")
	require.NoError(t, err)

	assert.NotZero(t, player.ID)
	assert.Equal(t, "alice", player.Username)
	assert.Equal(t, models.InitialRating, player.Rating)
	assert.False(t, player.CreatedAt.IsZero())
}

func TestRegisterValidatesUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		expected error
	}{{
		"empty username",
		"",
		ErrUsernameRequired,
	}, {
		"too short",
		"ab",
		ErrUsernameInvalid,
	}, {
		"too long",
		strings.Repeat("x", 21),
		ErrUsernameInvalid,
	}}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			service, _, _, _ := newPlayerServiceForTest(t)
			_, err := service.Register(context.Background(), test.username)
			assert.ErrorIs(t, err, test.expected)
		})
	}
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	service, _, _, _ := newPlayerServiceForTest(t)

	_, err := service.Register(context.Background(), "alice")
	require.NoError(t, err)

	_, err = service.Register(context.Background(), "alice")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegisterUsernameIsCaseSensitive(t *testing.T) {
	service, _, _, _ := newPlayerServiceForTest(t)

	_, err := service.Register(context.Background(), "alice")
	require.NoError(t, err)

	_, err = service.Register(context.Background(), "Alice")
	assert.NoError(t, err)
}

func TestGetByIDNotFoundIncludesID(t *testing.T) {
	service, _, _, _ := newPlayerServiceForTest(t)

	_, err := service.GetByID(context.Background(), 123)
	assert.ErrorIs(t, err, ErrPlayerNotFound)
	assert.Contains(t, err.Error(), "123")
}

func TestGetByUsernameNotFoundIncludesUsername(t *testing.T) {
	service, _, _, _ := newPlayerServiceForTest(t)

	_, err := service.GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
	assert.Contains(t, err.Error(), "ghost")
}

func TestLeaderboardReturnsHighestRatedFirst(t *testing.T) {
	service, playerRepo, _, _ := newPlayerServiceForTest(t)
	seedPlayer(t, playerRepo, "low", 1100)
	seedPlayer(t, playerRepo, "high", 1500)
	seedPlayer(t, playerRepo, "mid", 1300)

	players, err := service.Leaderboard(context.Background(), 2)
	require.NoError(t, err)

	require.Len(t, players, 2)
	assert.Equal(t, "high", players[0].Username)
	assert.Equal(t, "mid", players[1].Username)
}

func TestLeaderboardTiesBreakByInsertionOrder(t *testing.T) {
	service, playerRepo, _, _ := newPlayerServiceForTest(t)
	first := seedPlayer(t, playerRepo, "first", 1200)
	second := seedPlayer(t, playerRepo, "second", 1200)

	players, err := service.Leaderboard(context.Background(), 10)
	require.NoError(t, err)

	require.Len(t, players, 2)
	assert.Equal(t, first.ID, players[0].ID)
	assert.Equal(t, second.ID, players[1].ID)
}

func TestLeaderboardNonPositiveLimitIsEmpty(t *testing.T) {
	service, playerRepo, _, _ := newPlayerServiceForTest(t)
	seedPlayer(t, playerRepo, "alice", 1000)

	for _, limit := range []int{0, -5} {
		players, err := service.Leaderboard(context.Background(), limit)
		require.NoError(t, err)
		assert.Empty(t, players)
	}
}

func TestDeleteRejectsPlayerWithMatches(t *testing.T) {
	service, playerRepo, matchRepo, _ := newPlayerServiceForTest(t)
	alice := seedPlayer(t, playerRepo, "alice", 1016)
	bob := seedPlayer(t, playerRepo, "bob", 984)

	match := &models.Match{PlayerAID: alice.ID, PlayerBID: bob.ID, WinnerID: alice.ID}
	require.NoError(t, matchRepo.Create(context.Background(), nil, match))

	err := service.Delete(context.Background(), alice.ID)
	assert.ErrorIs(t, err, ErrPlayerHasMatches)

	// Игрок остался на месте.
	_, err = playerRepo.GetByID(context.Background(), alice.ID)
	assert.NoError(t, err)
}

func TestDeleteRemovesPlayerWithoutMatches(t *testing.T) {
	service, playerRepo, _, _ := newPlayerServiceForTest(t)
	alice := seedPlayer(t, playerRepo, "alice", 1000)

	require.NoError(t, service.Delete(context.Background(), alice.ID))

	_, err := playerRepo.GetByID(context.Background(), alice.ID)
	assert.Error(t, err)
}

func TestDeleteUnknownPlayer(t *testing.T) {
	service, _, _, _ := newPlayerServiceForTest(t)

	err := service.Delete(context.Background(), 55)
	assert.ErrorIs(t, err, ErrPlayerNotFound)
	assert.Contains(t, err.Error(), "55")
}

func TestUploadAvatarStoresObjectAndKey(t *testing.T) {
	service, playerRepo, _, uploader := newPlayerServiceForTest(t)
	alice := seedPlayer(t, playerRepo, "alice", 1000)

	player, err := service.UploadAvatar(context.Background(), alice.ID, "image/png", 1024, strings.NewReader("fake image"))
	require.NoError(t, err)

	require.Len(t, uploader.uploads, 1)
	assert.True(t, strings.HasPrefix(uploader.uploads[0].key, "avatars/players/"))
	assert.True(t, strings.HasSuffix(uploader.uploads[0].key, ".png"))
	assert.Equal(t, "image/png", uploader.uploads[0].contentType)

	require.NotNil(t, player.AvatarURL)
	assert.Contains(t, *player.AvatarURL, uploader.uploads[0].key)

	stored, err := playerRepo.GetByID(context.Background(), alice.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.AvatarKey)
}

func TestUploadAvatarReplacesPreviousObject(t *testing.T) {
	service, playerRepo, _, uploader := newPlayerServiceForTest(t)
	alice := seedPlayer(t, playerRepo, "alice", 1000)

	_, err := service.UploadAvatar(context.Background(), alice.ID, "image/png", 1024, strings.NewReader("one"))
	require.NoError(t, err)
	firstKey := uploader.uploads[0].key

	_, err = service.UploadAvatar(context.Background(), alice.ID, "image/jpeg", 1024, strings.NewReader("two"))
	require.NoError(t, err)

	require.Len(t, uploader.uploads, 2)
	assert.Equal(t, []string{firstKey}, uploader.deleted)
}

func TestUploadAvatarRejectsBadInput(t *testing.T) {
	service, playerRepo, _, _ := newPlayerServiceForTest(t)
	alice := seedPlayer(t, playerRepo, "alice", 1000)

	_, err := service.UploadAvatar(context.Background(), alice.ID, "application/pdf", 1024, strings.NewReader("nope"))
	assert.ErrorIs(t, err, ErrAvatarInvalid)

	_, err = service.UploadAvatar(context.Background(), alice.ID, "image/png", MaxAvatarSizeBytes+1, strings.NewReader("big"))
	assert.ErrorIs(t, err, ErrAvatarTooLarge)
}
