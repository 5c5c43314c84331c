package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

type Service struct {
	users  UserStore
	tokens *Tokens
	log    *slog.Logger
}

func NewService(users UserStore, tokens *Tokens, log *slog.Logger) *Service {
	return &Service{users: users, tokens: tokens, log: log}
}

func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if err := CheckPassword(u.PasswordHash, password); err != nil {
		s.log.Info("login rejected", "username", username)
		return "", err
	}
	return s.tokens.Issue(Principal{UserID: u.ID, Roles: []Role{u.Role}})
}

// Register hashes the password and stores a new user.
func (s *Service) Register(ctx context.Context, username, password string, role Role) (User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return User{}, errors.New("username and password are required")
	}
	if !role.Valid() {
		return User{}, fmt.Errorf("unknown role %q", role)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return User{}, err
	}
	return s.users.Create(ctx, User{Username: username, PasswordHash: hash, Role: role})
}
