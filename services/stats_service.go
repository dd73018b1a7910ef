package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/kfactor072/matchmaking-system/models"
	"github.com/kfactor072/matchmaking-system/repositories"
	"golang.org/x/sync/errgroup"
)

type StatsService interface {
	GetPlayerStats(ctx context.Context, playerID int) (*models.PlayerStats, error)
}

type statsService struct {
	playerRepo repositories.PlayerRepository
	matchRepo  repositories.MatchRepository
}

func NewStatsService(playerRepo repositories.PlayerRepository, matchRepo repositories.MatchRepository) StatsService {
	return &statsService{
		playerRepo: playerRepo,
		matchRepo:  matchRepo,
	}
}

// GetPlayerStats считает сводку по сыгранным матчам. Read-only.
func (s *statsService) GetPlayerStats(ctx context.Context, playerID int) (*models.PlayerStats, error) {
	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, fmt.Errorf("%w with id: %d", ErrPlayerNotFound, playerID)
		}
		return nil, err
	}

	var totalMatches, wins int

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var countErr error
		totalMatches, countErr = s.matchRepo.CountByPlayer(gCtx, playerID)
		return countErr
	})
	g.Go(func() error {
		var countErr error
		wins, countErr = s.matchRepo.CountWinsByPlayer(gCtx, playerID)
		return countErr
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	winRate := 0.0
	if totalMatches > 0 {
		winRate = float64(wins) / float64(totalMatches) * 100
	}

	return &models.PlayerStats{
		PlayerID:     player.ID,
		Username:     player.Username,
		Rating:       player.Rating,
		TotalMatches: totalMatches,
		Wins:         wins,
		Losses:       totalMatches - wins,
		WinRate:      winRate,
	}, nil
}
