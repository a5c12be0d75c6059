package service_test

import (
	"context"
	"errors"
	"testing"

	appErrors "github.com/furstore/fur-store-backend/internal/errors"
	"github.com/furstore/fur-store-backend/internal/models"
	"github.com/furstore/fur-store-backend/internal/repositories/mocks"
	service "github.com/furstore/fur-store-backend/internal/services"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

var testJWTKey = []byte("test-signing-key")

func setupUserServiceTest() (service.UserService, *mocks.UserRepository, *mocks.RateLimitRepository) {
	userRepo := new(mocks.UserRepository)
	rateLimit := new(mocks.RateLimitRepository)

	return service.NewUserService(userRepo, rateLimit, testJWTKey), userRepo, rateLimit
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Password Is Hashed", func(t *testing.T) {
		// Arrange
		userService, userRepo, _ := setupUserServiceTest()
		userRepo.On("GetUserByEmail", ctx, "new@example.com").Return(nil, errors.New("not found")).Once()
		userRepo.On("CreateUser", ctx, mock.AnythingOfType("*models.User")).
			Run(func(args mock.Arguments) {
				u := args.Get(1).(*models.User)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("sw0rdfish")))
			}).Return(nil).Once()

		// Act
		user, err := userService.Register(ctx, &models.RegisterRequest{
			Name:     "New User",
			Email:    "new@example.com",
			Password: "sw0rdfish",
		})

		// Assert
		assert.NoError(t, err)
		assert.NotNil(t, user)
		userRepo.AssertExpectations(t)
	})

	t.Run("Failure - Duplicate Email", func(t *testing.T) {
		// Arrange
		userService, userRepo, _ := setupUserServiceTest()
		userRepo.On("GetUserByEmail", ctx, "taken@example.com").Return(&models.User{Email: "taken@example.com"}, nil).Once()

		// Act
		user, err := userService.Register(ctx, &models.RegisterRequest{
			Name:     "Late Comer",
			Email:    "taken@example.com",
			Password: "sw0rdfish",
		})

		// Assert
		assert.Error(t, err)
		assert.Nil(t, user)
		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeDuplicateEntry, appErr.Code)
		userRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("sw0rdfish"), bcrypt.DefaultCost)
	storedUser := &models.User{Email: "user@example.com", Password: string(hashed)}

	t.Run("Success - Token Issued", func(t *testing.T) {
		// Arrange
		userService, userRepo, rateLimit := setupUserServiceTest()
		rateLimit.On("CheckLoginRateLimit", ctx, "user@example.com").Return(true, 4, 0, nil).Once()
		userRepo.On("GetUserByEmail", ctx, "user@example.com").Return(storedUser, nil).Once()

		// Act
		resp, err := userService.Login(ctx, &models.LoginRequest{Email: "user@example.com", Password: "sw0rdfish"})

		// Assert
		assert.NoError(t, err)
		assert.True(t, resp.Success)
		assert.NotEmpty(t, resp.Token)

		parsed, err := jwt.ParseWithClaims(resp.Token, &models.Claims{}, func(t *jwt.Token) (any, error) {
			return testJWTKey, nil
		})
		assert.NoError(t, err)
		assert.True(t, parsed.Valid)
	})

	t.Run("Failure - Wrong Password", func(t *testing.T) {
		// Arrange
		userService, userRepo, rateLimit := setupUserServiceTest()
		rateLimit.On("CheckLoginRateLimit", ctx, "user@example.com").Return(true, 3, 0, nil).Once()
		userRepo.On("GetUserByEmail", ctx, "user@example.com").Return(storedUser, nil).Once()

		// Act
		resp, err := userService.Login(ctx, &models.LoginRequest{Email: "user@example.com", Password: "wrong"})

		// Assert
		assert.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, "Invalid email or password", resp.Message)
		assert.Equal(t, 3, resp.RemainingTries)
	})

	t.Run("Failure - Rate Limited", func(t *testing.T) {
		// Arrange
		userService, userRepo, rateLimit := setupUserServiceTest()
		rateLimit.On("CheckLoginRateLimit", ctx, "user@example.com").Return(false, 0, 600, nil).Once()

		// Act
		resp, err := userService.Login(ctx, &models.LoginRequest{Email: "user@example.com", Password: "sw0rdfish"})

		// Assert
		assert.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, 600, resp.RetryAfter)
		userRepo.AssertNotCalled(t, "GetUserByEmail", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Rate Limit Backend Error", func(t *testing.T) {
		// Arrange
		userService, _, rateLimit := setupUserServiceTest()
		rateLimit.On("CheckLoginRateLimit", ctx, "user@example.com").Return(false, 0, 0, errors.New("redis down")).Once()

		// Act
		resp, err := userService.Login(ctx, &models.LoginRequest{Email: "user@example.com", Password: "sw0rdfish"})

		// Assert
		assert.Error(t, err)
		assert.Nil(t, resp)
		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeThirdPartyError, appErr.Code)
	})
}
