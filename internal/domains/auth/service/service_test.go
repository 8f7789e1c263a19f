package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"lodge/config"
	"lodge/infras/jwt"
	jwtMocks "lodge/infras/jwt/mocks"
	"lodge/infras/otel/mocks"
	"lodge/internal/domains/auth/model/dto"
	"lodge/internal/domains/auth/service"
	userMocks "lodge/internal/domains/user/mocks"
	userModel "lodge/internal/domains/user/model"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
	"lodge/shared/password"
)

func newAuthService(ctrl *gomock.Controller) (service.Auth, *userMocks.MockUser, *jwtMocks.MockJWT) {
	userRepo := userMocks.NewMockUser(ctrl)
	jwtService := jwtMocks.NewMockJWT(ctrl)

	svc := service.New(userRepo, &config.Config{}, mocks.NewOtel(), jwtService)

	return svc, userRepo, jwtService
}

func activeUser(t *testing.T, plaintext string) userModel.User {
	t.Helper()

	hashed, err := password.Hash(plaintext)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	return userModel.User{
		ID:       "user-1",
		Email:    "guest@example.com",
		Password: hashed,
		Role:     constant.RoleGuest,
		Active:   true,
	}
}

func TestAuthService_Register(t *testing.T) {
	req := dto.RegisterRequest{
		Email:    "guest@example.com",
		Password: "secret-password",
	}

	t.Run("registers a new guest", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, userRepo, _ := newAuthService(ctrl)

		userRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		userRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, user userModel.User) error {
				assert.Equal(t, "guest@example.com", user.Email)
				assert.Equal(t, constant.RoleGuest, user.Role)
				assert.True(t, user.Active)
				assert.NoError(t, password.Verify("secret-password", user.Password))

				return nil
			})

		err := svc.Register(context.Background(), req)
		assert.NoError(t, err)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, userRepo, _ := newAuthService(ctrl)

		userRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		err := svc.Register(context.Background(), req)

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		assert.ErrorContains(t, err, "email already registered")
	})

	t.Run("existence check failure surfaces as an error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, userRepo, _ := newAuthService(ctrl)

		userRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, errors.New("query failed"))

		err := svc.Register(context.Background(), req)
		assert.ErrorContains(t, err, "failed to check if user exists")
	})
}

func TestAuthService_Login(t *testing.T) {
	req := dto.LoginRequest{
		Email:    "guest@example.com",
		Password: "secret-password",
	}

	t.Run("valid credentials return a token pair", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, userRepo, jwtService := newAuthService(ctrl)

		userRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(activeUser(t, "secret-password"), nil)

		jwtService.EXPECT().
			GenerateTokenPair("user-1", "guest@example.com", constant.RoleGuest).
			Return(&jwt.TokenPair{
				AccessToken:  "access-token",
				RefreshToken: "refresh-token",
				ExpiresIn:    900,
			}, nil)

		userRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Contains(t, fields, "last_login")

				return nil
			})

		res, err := svc.Login(context.Background(), req)

		assert.NoError(t, err)
		assert.Equal(t, "access-token", res.AccessToken)
		assert.Equal(t, "refresh-token", res.RefreshToken)
		assert.Equal(t, int64(900), res.ExpiresIn)
	})

	t.Run("unknown email is indistinguishable from a wrong password", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, userRepo, _ := newAuthService(ctrl)

		userRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(userModel.User{}, nil)

		_, err := svc.Login(context.Background(), req)

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		assert.ErrorContains(t, err, "invalid email or password")
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, userRepo, _ := newAuthService(ctrl)

		userRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(activeUser(t, "another-password"), nil)

		_, err := svc.Login(context.Background(), req)

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		assert.ErrorContains(t, err, "invalid email or password")
	})

	t.Run("deactivated account cannot log in", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, userRepo, _ := newAuthService(ctrl)

		user := activeUser(t, "secret-password")
		user.Active = false

		userRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(user, nil)

		_, err := svc.Login(context.Background(), req)

		assert.ErrorContains(t, err, "user account is deactivated")
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	t.Run("valid refresh token rotates the pair", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, _, jwtService := newAuthService(ctrl)

		jwtService.EXPECT().
			RefreshTokens("refresh-token").
			Return(&jwt.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil)

		res, err := svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh-token"})

		assert.NoError(t, err)
		assert.Equal(t, "new-access", res.AccessToken)
		assert.Equal(t, "new-refresh", res.RefreshToken)
	})

	t.Run("invalid refresh token is unauthorized", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, _, jwtService := newAuthService(ctrl)

		jwtService.EXPECT().
			RefreshTokens("expired-token").
			Return(nil, errors.New("token is expired"))

		_, err := svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "expired-token"})

		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})
}
