package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/kfactor072/matchmaking-system/models"
	"github.com/kfactor072/matchmaking-system/repositories"
	"github.com/kfactor072/matchmaking-system/storage"
)

const (
	usernameMinLength = 3
	usernameMaxLength = 20

	// MaxAvatarSizeBytes ограничивает размер загружаемого аватара.
	MaxAvatarSizeBytes = 2 << 20 // 2MB
)

// Расширение подбирается по content type; другие типы отклоняются.
var avatarExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

type PlayerService interface {
	Register(ctx context.Context, username string) (*models.Player, error)
	GetByID(ctx context.Context, id int) (*models.Player, error)
	GetByUsername(ctx context.Context, username string) (*models.Player, error)
	List(ctx context.Context) ([]models.Player, error)
	Leaderboard(ctx context.Context, limit int) ([]models.Player, error)
	Delete(ctx context.Context, id int) error
	UploadAvatar(ctx context.Context, playerID int, contentType string, size int64, file io.Reader) (*models.Player, error)
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	matchRepo  repositories.MatchRepository
	uploader   storage.FileUploader
	logger     *slog.Logger
}

func NewPlayerService(
	playerRepo repositories.PlayerRepository,
	matchRepo repositories.MatchRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) PlayerService {
	return &playerService{
		playerRepo: playerRepo,
		matchRepo:  matchRepo,
		uploader:   uploader,
		logger:     logger,
	}
}

func (s *playerService) Register(ctx context.Context, username string) (*models.Player, error) {
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if length := utf8.RuneCountInString(username); length < usernameMinLength || length > usernameMaxLength {
		return nil, ErrUsernameInvalid
	}

	// Проверка уникальности чувствительна к регистру (username — обычный
	// unique индекс, без lower()).
	taken, err := s.playerRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	player := &models.Player{
		Username: username,
		Rating:   models.InitialRating,
	}

	if err := s.playerRepo.Create(ctx, player); err != nil {
		// Гонка двух одновременных регистраций: unique constraint решает.
		if errors.Is(err, repositories.ErrPlayerUsernameConflict) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	return player, nil
}

func (s *playerService) GetByID(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, fmt.Errorf("%w with id: %d", ErrPlayerNotFound, id)
		}
		return nil, err
	}
	resolveAvatarURL(s.uploader, player)
	return player, nil
}

func (s *playerService) GetByUsername(ctx context.Context, username string) (*models.Player, error) {
	player, err := s.playerRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, fmt.Errorf("%w with username: %s", ErrPlayerNotFound, username)
		}
		return nil, err
	}
	resolveAvatarURL(s.uploader, player)
	return player, nil
}

func (s *playerService) List(ctx context.Context) ([]models.Player, error) {
	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range players {
		resolveAvatarURL(s.uploader, &players[i])
	}
	return players, nil
}

func (s *playerService) Leaderboard(ctx context.Context, limit int) ([]models.Player, error) {
	if limit <= 0 {
		return []models.Player{}, nil
	}

	players, err := s.playerRepo.ListTop(ctx, limit)
	if err != nil {
		return nil, err
	}
	for i := range players {
		resolveAvatarURL(s.uploader, &players[i])
	}
	return players, nil
}

func (s *playerService) Delete(ctx context.Context, id int) error {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return fmt.Errorf("%w with id: %d", ErrPlayerNotFound, id)
		}
		return err
	}

	// История матчей — аудиторский след рейтингов, удалять игрока с
	// сыгранными матчами нельзя.
	hasMatches, err := s.matchRepo.ExistsByPlayer(ctx, id)
	if err != nil {
		return err
	}
	if hasMatches {
		return ErrPlayerHasMatches
	}

	if err := s.playerRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return fmt.Errorf("%w with id: %d", ErrPlayerNotFound, id)
		}
		return err
	}

	if player.AvatarKey != nil {
		if delErr := s.uploader.Delete(ctx, *player.AvatarKey); delErr != nil {
			s.logger.Warn("failed to delete avatar of removed player",
				slog.Int("player_id", id), slog.Any("error", delErr))
		}
	}

	return nil
}

func (s *playerService) UploadAvatar(ctx context.Context, playerID int, contentType string, size int64, file io.Reader) (*models.Player, error) {
	ext, ok := avatarExtensions[contentType]
	if !ok {
		return nil, ErrAvatarInvalid
	}
	if size > MaxAvatarSizeBytes {
		return nil, ErrAvatarTooLarge
	}

	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, fmt.Errorf("%w with id: %d", ErrPlayerNotFound, playerID)
		}
		return nil, err
	}

	key := fmt.Sprintf("avatars/players/%s%s", uuid.NewString(), ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload avatar for player %d: %w", playerID, err)
	}

	oldKey := player.AvatarKey
	if err := s.playerRepo.UpdateAvatarKey(ctx, playerID, &key); err != nil {
		return nil, err
	}

	if oldKey != nil {
		if delErr := s.uploader.Delete(ctx, *oldKey); delErr != nil {
			s.logger.Warn("failed to delete previous avatar",
				slog.Int("player_id", playerID), slog.Any("error", delErr))
		}
	}

	player.AvatarKey = &key
	resolveAvatarURL(s.uploader, player)
	return player, nil
}
