package handlers

import (
	"context"
	"io"

	"github.com/kfactor072/matchmaking-system/models"
)

// Стабы с функциональными полями: тест задаёт только нужные методы,
// вызов незаданного метода роняет тест паникой.

type stubPlayerService struct {
	registerFn      func(ctx context.Context, username string) (*models.Player, error)
	getByIDFn       func(ctx context.Context, id int) (*models.Player, error)
	getByUsernameFn func(ctx context.Context, username string) (*models.Player, error)
	listFn          func(ctx context.Context) ([]models.Player, error)
	leaderboardFn   func(ctx context.Context, limit int) ([]models.Player, error)
	deleteFn        func(ctx context.Context, id int) error
	uploadAvatarFn  func(ctx context.Context, playerID int, contentType string, size int64, file io.Reader) (*models.Player, error)
}

func (s *stubPlayerService) Register(ctx context.Context, username string) (*models.Player, error) {
	return s.registerFn(ctx, username)
}

func (s *stubPlayerService) GetByID(ctx context.Context, id int) (*models.Player, error) {
	return s.getByIDFn(ctx, id)
}

func (s *stubPlayerService) GetByUsername(ctx context.Context, username string) (*models.Player, error) {
	return s.getByUsernameFn(ctx, username)
}

func (s *stubPlayerService) List(ctx context.Context) ([]models.Player, error) {
	return s.listFn(ctx)
}

func (s *stubPlayerService) Leaderboard(ctx context.Context, limit int) ([]models.Player, error) {
	return s.leaderboardFn(ctx, limit)
}

func (s *stubPlayerService) Delete(ctx context.Context, id int) error {
	return s.deleteFn(ctx, id)
}

func (s *stubPlayerService) UploadAvatar(ctx context.Context, playerID int, contentType string, size int64, file io.Reader) (*models.Player, error) {
	return s.uploadAvatarFn(ctx, playerID, contentType, size, file)
}

type stubStatsService struct {
	getPlayerStatsFn func(ctx context.Context, playerID int) (*models.PlayerStats, error)
}

func (s *stubStatsService) GetPlayerStats(ctx context.Context, playerID int) (*models.PlayerStats, error) {
	return s.getPlayerStatsFn(ctx, playerID)
}

type stubMatchService struct {
	recordMatchFn  func(ctx context.Context, playerAID, playerBID, winnerID int) (*models.Match, error)
	getByIDFn      func(ctx context.Context, id int) (*models.Match, error)
	listFn         func(ctx context.Context) ([]*models.Match, error)
	listByPlayerFn func(ctx context.Context, playerID int) ([]*models.Match, error)
}

func (s *stubMatchService) RecordMatch(ctx context.Context, playerAID, playerBID, winnerID int) (*models.Match, error) {
	return s.recordMatchFn(ctx, playerAID, playerBID, winnerID)
}

func (s *stubMatchService) GetByID(ctx context.Context, id int) (*models.Match, error) {
	return s.getByIDFn(ctx, id)
}

func (s *stubMatchService) List(ctx context.Context) ([]*models.Match, error) {
	return s.listFn(ctx)
}

func (s *stubMatchService) ListByPlayer(ctx context.Context, playerID int) ([]*models.Match, error) {
	return s.listByPlayerFn(ctx, playerID)
}
