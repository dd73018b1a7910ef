package services

import (
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	VerifyAdminPassword(password string) error
}

type authService struct {
	adminPasswordHash []byte
}

func NewAuthService(adminPasswordHash string) AuthService {
	return &authService{adminPasswordHash: []byte(adminPasswordHash)}
}

// VerifyAdminPassword сверяет пароль с bcrypt-хешем из конфигурации.
func (s *authService) VerifyAdminPassword(password string) error {
	if err := bcrypt.CompareHashAndPassword(s.adminPasswordHash, []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
