package service

import (
	"context"

	"github.com/wiz-abhi/realprep/internal/model"
	appErr "github.com/wiz-abhi/realprep/internal/pkg/errors"
	"github.com/wiz-abhi/realprep/internal/pkg/ids"
	"github.com/wiz-abhi/realprep/internal/pkg/jwt"
	"github.com/wiz-abhi/realprep/internal/pkg/password"
	"github.com/wiz-abhi/realprep/internal/pkg/timeutil"
	"github.com/wiz-abhi/realprep/internal/repo"
)

type AuthService struct {
	users  *repo.UserRepo
	signer *jwt.Signer
}

func NewAuthService(users *repo.UserRepo, signer *jwt.Signer) *AuthService {
	return &AuthService{users: users, signer: signer}
}

func (s *AuthService) Register(ctx context.Context, email, name, plainPassword string) (*model.User, string, error) {
	if email == "" || plainPassword == "" {
		return nil, "", appErr.ErrInvalid
	}
	now := timeutil.NowUnix()
	hash, err := password.Hash(plainPassword)
	if err != nil {
		return nil, "", err
	}
	user := &model.User{
		ID:           ids.New(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Ctime:        now,
		Mtime:        now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}
	token, err := s.signer.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, plainPassword string) (*model.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", appErr.ErrUnauthorized
	}
	if !password.Verify(user.PasswordHash, plainPassword) {
		return nil, "", appErr.ErrUnauthorized
	}
	token, err := s.signer.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
