package services

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"zakupBack/internal/models"
	"zakupBack/internal/repositories"
	"zakupBack/utils"
)

type UserService struct {
	UserRepo   *repositories.UserRepository
	Tokens     *utils.Manager
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func (s *UserService) SignUp(ctx context.Context, u models.User) (models.User, error) {
	if u.Email == "" || u.Password == "" {
		return models.User{}, errors.New("email and password are required")
	}
	if u.Role == "" {
		u.Role = models.RoleViewer
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), 12)
	if err != nil {
		return models.User{}, err
	}
	u.Password = string(hash)

	id, err := s.UserRepo.CreateUser(ctx, u)
	if err != nil {
		return models.User{}, err
	}
	return s.UserRepo.GetUserByID(ctx, id)
}

func (s *UserService) SignIn(ctx context.Context, req models.SignInRequest) (models.User, models.Tokens, error) {
	u, err := s.UserRepo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return models.User{}, models.Tokens{}, models.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		return models.User{}, models.Tokens{}, models.ErrInvalidCredentials
	}

	access, err := s.Tokens.NewJWT(u.ID, u.Role, s.AccessTTL)
	if err != nil {
		return models.User{}, models.Tokens{}, err
	}
	refresh, err := s.Tokens.NewRefreshToken()
	if err != nil {
		return models.User{}, models.Tokens{}, err
	}

	session := models.Session{
		UserID:       u.ID,
		Role:         u.Role,
		RefreshToken: refresh,
		ExpiresAt:    time.Now().Add(s.RefreshTTL),
	}
	if err := s.UserRepo.SaveSession(ctx, session); err != nil {
		return models.User{}, models.Tokens{}, err
	}

	u.Password = ""
	return u, models.Tokens{AccessToken: access, RefreshToken: refresh}, nil
}

// SignOut drops the user's refresh session so the token can no longer be
// exchanged for new access tokens.
func (s *UserService) SignOut(ctx context.Context, userID int) error {
	return s.UserRepo.DeleteSession(ctx, userID)
}

func (s *UserService) GetUserByID(ctx context.Context, id int) (models.User, error) {
	return s.UserRepo.GetUserByID(ctx, id)
}
