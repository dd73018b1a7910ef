package services

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/kfactor072/matchmaking-system/models"
	"github.com/kfactor072/matchmaking-system/repositories"
	"github.com/kfactor072/matchmaking-system/storage"
)

// fakeTransactor executes the unit of work without a real database.
type fakeTransactor struct{}

func (fakeTransactor) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

type fakePlayerRepo struct {
	players map[int]*models.Player
	nextID  int
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{players: make(map[int]*models.Player), nextID: 1}
}

func clonePlayer(p *models.Player) *models.Player {
	cp := *p
	return &cp
}

func (f *fakePlayerRepo) Create(ctx context.Context, player *models.Player) error {
	for _, existing := range f.players {
		if existing.Username == player.Username {
			return repositories.ErrPlayerUsernameConflict
		}
	}
	player.ID = f.nextID
	player.CreatedAt = time.Now()
	f.nextID++
	f.players[player.ID] = clonePlayer(player)
	return nil
}

func (f *fakePlayerRepo) GetByID(ctx context.Context, id int) (*models.Player, error) {
	player, ok := f.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	return clonePlayer(player), nil
}

func (f *fakePlayerRepo) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Player, error) {
	return f.GetByID(ctx, id)
}

func (f *fakePlayerRepo) GetByUsername(ctx context.Context, username string) (*models.Player, error) {
	for _, player := range f.players {
		if player.Username == username {
			return clonePlayer(player), nil
		}
	}
	return nil, repositories.ErrPlayerNotFound
}

func (f *fakePlayerRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	for _, player := range f.players {
		if player.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePlayerRepo) UpdateRating(ctx context.Context, exec repositories.SQLExecutor, id int, rating int) error {
	player, ok := f.players[id]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	player.Rating = rating
	return nil
}

func (f *fakePlayerRepo) UpdateAvatarKey(ctx context.Context, id int, key *string) error {
	player, ok := f.players[id]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	player.AvatarKey = key
	return nil
}

func (f *fakePlayerRepo) List(ctx context.Context) ([]models.Player, error) {
	players := f.sorted(func(a, b *models.Player) bool { return a.ID < b.ID })
	return players, nil
}

func (f *fakePlayerRepo) ListTop(ctx context.Context, limit int) ([]models.Player, error) {
	players := f.sorted(func(a, b *models.Player) bool {
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		return a.ID < b.ID
	})
	if len(players) > limit {
		players = players[:limit]
	}
	return players, nil
}

func (f *fakePlayerRepo) Delete(ctx context.Context, id int) error {
	if _, ok := f.players[id]; !ok {
		return repositories.ErrPlayerNotFound
	}
	delete(f.players, id)
	return nil
}

func (f *fakePlayerRepo) sorted(less func(a, b *models.Player) bool) []models.Player {
	all := make([]*models.Player, 0, len(f.players))
	for _, player := range f.players {
		all = append(all, player)
	}
	sort.Slice(all, func(i, j int) bool { return less(all[i], all[j]) })

	players := make([]models.Player, 0, len(all))
	for _, player := range all {
		players = append(players, *player)
	}
	return players
}

type fakeMatchRepo struct {
	matches map[int]*models.Match
	nextID  int
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{matches: make(map[int]*models.Match), nextID: 1}
}

func (f *fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	match.ID = f.nextID
	match.PlayedAt = time.Now()
	f.nextID++
	f.matches[match.ID] = &models.Match{
		ID:        match.ID,
		PlayerAID: match.PlayerAID,
		PlayerBID: match.PlayerBID,
		WinnerID:  match.WinnerID,
		PlayedAt:  match.PlayedAt,
	}
	return nil
}

func (f *fakeMatchRepo) GetByID(ctx context.Context, id int) (*models.Match, error) {
	match, ok := f.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	cp := *match
	return &cp, nil
}

func (f *fakeMatchRepo) List(ctx context.Context) ([]*models.Match, error) {
	return f.list(func(m *models.Match) bool { return true }), nil
}

func (f *fakeMatchRepo) ListByPlayer(ctx context.Context, playerID int) ([]*models.Match, error) {
	return f.list(func(m *models.Match) bool {
		return m.PlayerAID == playerID || m.PlayerBID == playerID
	}), nil
}

func (f *fakeMatchRepo) CountByPlayer(ctx context.Context, playerID int) (int, error) {
	return len(f.list(func(m *models.Match) bool {
		return m.PlayerAID == playerID || m.PlayerBID == playerID
	})), nil
}

func (f *fakeMatchRepo) CountWinsByPlayer(ctx context.Context, playerID int) (int, error) {
	return len(f.list(func(m *models.Match) bool { return m.WinnerID == playerID })), nil
}

func (f *fakeMatchRepo) ExistsByPlayer(ctx context.Context, playerID int) (bool, error) {
	return len(f.list(func(m *models.Match) bool {
		return m.PlayerAID == playerID || m.PlayerBID == playerID || m.WinnerID == playerID
	})) > 0, nil
}

func (f *fakeMatchRepo) list(keep func(m *models.Match) bool) []*models.Match {
	matches := make([]*models.Match, 0)
	for _, match := range f.matches {
		if keep(match) {
			cp := *match
			matches = append(matches, &cp)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID > matches[j].ID })
	return matches
}

type uploadedObject struct {
	key         string
	contentType string
}

type fakeUploader struct {
	uploads []uploadedObject
	deleted []string
}

func (f *fakeUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	f.uploads = append(f.uploads, uploadedObject{key: key, contentType: contentType})
	return &storage.UploadResult{Key: key, Location: f.GetPublicURL(key)}, nil
}

func (f *fakeUploader) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.example.com/" + key
}
