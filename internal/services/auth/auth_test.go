package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/gym-tracker/internal/apperr"
	customjwt "github.com/magabrotheeeer/gym-tracker/internal/lib/jwt"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/password"
	"github.com/magabrotheeeer/gym-tracker/internal/models"
	"github.com/magabrotheeeer/gym-tracker/internal/services/auth"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// Мок для jwt.Maker
type JwtMakerMock struct {
	mock.Mock
}

func (m *JwtMakerMock) GenerateToken(userID int64, email, role string) (string, error) {
	args := m.Called(userID, email, role)
	return args.String(0), args.Error(1)
}

func (m *JwtMakerMock) ParseToken(token string) (*customjwt.CustomClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customjwt.CustomClaims), args.Error(1)
}

func TestService_Login(t *testing.T) {
	rawPassword := "Correct1Password"
	hash, err := password.GetHash(rawPassword)
	require.NoError(t, err)
	stored := &models.User{ID: 7, Email: "anna@example.com", PasswordHash: hash, Role: models.RoleAdmin}

	tests := []struct {
		name       string
		email      string
		password   string
		setupMocks func(r *UserRepoMock, j *JwtMakerMock)
		wantToken  string
		wantErr    error
	}{
		{
			name:     "successful login",
			email:    "anna@example.com",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "anna@example.com").Return(stored, nil).Once()
				j.On("GenerateToken", int64(7), "anna@example.com", "admin").Return("token", nil).Once()
			},
			wantToken: "token",
		},
		{
			name:     "неизвестный email",
			email:    "ghost@example.com",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "ghost@example.com").Return(nil, apperr.NotFound("user")).Once()
			},
			wantErr: auth.ErrInvalidCredentials,
		},
		{
			name:     "неверный пароль",
			email:    "anna@example.com",
			password: "Wrong1Password",
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "anna@example.com").Return(stored, nil).Once()
			},
			wantErr: auth.ErrInvalidCredentials,
		},
		{
			name:     "ошибка хранилища",
			email:    "anna@example.com",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "anna@example.com").
					Return(nil, apperr.Persistence("storage.GetUserByEmail", errors.New("db down"))).Once()
			},
			wantErr: apperr.ErrPersistence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			jwtMock := new(JwtMakerMock)
			tt.setupMocks(repo, jwtMock)
			svc := auth.New(repo, jwtMock)

			token, user, err := svc.Login(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
				assert.Equal(t, stored, user)
			}

			repo.AssertExpectations(t)
			jwtMock.AssertExpectations(t)
		})
	}
}
