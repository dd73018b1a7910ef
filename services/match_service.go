package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kfactor072/matchmaking-system/elo"
	"github.com/kfactor072/matchmaking-system/live"
	"github.com/kfactor072/matchmaking-system/models"
	"github.com/kfactor072/matchmaking-system/repositories"
	"github.com/kfactor072/matchmaking-system/storage"
)

type MatchService interface {
	RecordMatch(ctx context.Context, playerAID, playerBID, winnerID int) (*models.Match, error)
	GetByID(ctx context.Context, id int) (*models.Match, error)
	List(ctx context.Context) ([]*models.Match, error)
	ListByPlayer(ctx context.Context, playerID int) ([]*models.Match, error)
}

type matchService struct {
	transactor repositories.Transactor
	playerRepo repositories.PlayerRepository
	matchRepo  repositories.MatchRepository
	hub        *live.Hub
	uploader   storage.FileUploader
	logger     *slog.Logger
}

func NewMatchService(
	transactor repositories.Transactor,
	playerRepo repositories.PlayerRepository,
	matchRepo repositories.MatchRepository,
	hub *live.Hub,
	uploader storage.FileUploader,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		transactor: transactor,
		playerRepo: playerRepo,
		matchRepo:  matchRepo,
		hub:        hub,
		uploader:   uploader,
		logger:     logger,
	}
}

// RecordMatch записывает матч и пересчитывает рейтинги обоих игроков в одной
// транзакции: либо вставка матча и оба обновления рейтинга коммитятся вместе,
// либо не происходит ничего.
func (s *matchService) RecordMatch(ctx context.Context, playerAID, playerBID, winnerID int) (*models.Match, error) {
	if playerAID == playerBID {
		return nil, ErrSamePlayer
	}

	var match *models.Match

	err := s.transactor.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		// Блокируем строки в порядке возрастания id, чтобы два встречных
		// матча A-B и B-A не взаимоблокировались.
		firstID, secondID := playerAID, playerBID
		if secondID < firstID {
			firstID, secondID = secondID, firstID
		}

		locked := make(map[int]*models.Player, 2)
		for _, id := range []int{firstID, secondID} {
			player, err := s.playerRepo.GetByIDForUpdate(ctx, exec, id)
			if err != nil {
				if errors.Is(err, repositories.ErrPlayerNotFound) {
					return fmt.Errorf("%w with id: %d", ErrPlayerNotFound, id)
				}
				return err
			}
			locked[id] = player
		}
		playerA := locked[playerAID]
		playerB := locked[playerBID]

		// Существование победителя проверяется до проверки принадлежности:
		// несуществующий winner_id — это NotFound, а не InvalidArgument.
		switch winnerID {
		case playerAID, playerBID:
		default:
			if _, err := s.playerRepo.GetByID(ctx, winnerID); err != nil {
				if errors.Is(err, repositories.ErrPlayerNotFound) {
					return fmt.Errorf("%w with id: %d", ErrPlayerNotFound, winnerID)
				}
				return err
			}
			return ErrWinnerNotInMatch
		}

		match = &models.Match{
			PlayerAID: playerAID,
			PlayerBID: playerBID,
			WinnerID:  winnerID,
		}
		if err := s.matchRepo.Create(ctx, exec, match); err != nil {
			return fmt.Errorf("failed to create match: %w", err)
		}

		newRatingA, newRatingB := elo.ComputeUpdatedRatings(playerA.Rating, playerB.Rating, winnerID == playerAID)

		if err := s.playerRepo.UpdateRating(ctx, exec, playerAID, newRatingA); err != nil {
			return err
		}
		if err := s.playerRepo.UpdateRating(ctx, exec, playerBID, newRatingB); err != nil {
			return err
		}

		playerA.Rating = newRatingA
		playerB.Rating = newRatingB

		match.PlayerA = playerA
		match.PlayerB = playerB
		if winnerID == playerAID {
			match.Winner = playerA
		} else {
			match.Winner = playerB
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resolveMatchAvatarURLs(s.uploader, match)

	s.logger.Info("match recorded",
		slog.Int("match_id", match.ID),
		slog.Int("player_a_id", playerAID),
		slog.Int("player_b_id", playerBID),
		slog.Int("winner_id", winnerID),
		slog.Int("rating_a", match.PlayerA.Rating),
		slog.Int("rating_b", match.PlayerB.Rating),
	)

	s.broadcastMatch(match)

	return match, nil
}

func (s *matchService) GetByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, fmt.Errorf("%w with id: %d", ErrMatchNotFound, id)
		}
		return nil, err
	}
	resolveMatchAvatarURLs(s.uploader, match)
	return match, nil
}

func (s *matchService) List(ctx context.Context) ([]*models.Match, error) {
	matches, err := s.matchRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, match := range matches {
		resolveMatchAvatarURLs(s.uploader, match)
	}
	return matches, nil
}

func (s *matchService) ListByPlayer(ctx context.Context, playerID int) ([]*models.Match, error) {
	if _, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, fmt.Errorf("%w with id: %d", ErrPlayerNotFound, playerID)
		}
		return nil, err
	}

	matches, err := s.matchRepo.ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	for _, match := range matches {
		resolveMatchAvatarURLs(s.uploader, match)
	}
	return matches, nil
}

// broadcastMatch рассылает записанный матч в общую ленту и в комнаты обоих
// игроков. Вызывается после коммита транзакции.
func (s *matchService) broadcastMatch(match *models.Match) {
	message := live.Message{
		Type:    live.MessageTypeMatchRecorded,
		Payload: match,
	}

	s.hub.BroadcastToRoom(live.FeedRoom, message)
	s.hub.BroadcastToRoom(live.PlayerRoom(match.PlayerAID), message)
	s.hub.BroadcastToRoom(live.PlayerRoom(match.PlayerBID), message)
}
