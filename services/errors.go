package services

import "errors"

// Общие ошибки бизнес-слоя; маппинг в HTTP-статусы живёт в handlers.
var (
	// Не найдено (сообщение дополняется ключом поиска через fmt.Errorf)
	ErrPlayerNotFound = errors.New("player not found")
	ErrMatchNotFound  = errors.New("match not found")

	// Ошибки валидации и бизнес-правил
	ErrUsernameRequired = errors.New("username is required")
	ErrUsernameInvalid  = errors.New("username must be between 3 and 20 characters")
	ErrWinnerNotInMatch = errors.New("winner must be one of the players in the match")
	ErrSamePlayer       = errors.New("a player cannot play a match against themselves")
	ErrAvatarInvalid    = errors.New("avatar must be a png, jpeg or webp image")
	ErrAvatarTooLarge   = errors.New("avatar file is too large")

	// Конфликты
	ErrUsernameTaken    = errors.New("username already exists")
	ErrPlayerHasMatches = errors.New("player has recorded matches and cannot be deleted")

	// Аутентификация
	ErrInvalidCredentials = errors.New("invalid admin password")
)
