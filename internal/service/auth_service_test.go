package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zitlabs/campus/config"
	"github.com/zitlabs/campus/internal/apperr"
	"github.com/zitlabs/campus/internal/dto"
	"github.com/zitlabs/campus/internal/model"
	"github.com/zitlabs/campus/internal/repository"
	"gorm.io/gorm"
)

func newAuthService(db *gorm.DB) AuthService {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	return NewAuthService(repository.NewUserRepository(db), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user, err := svc.Register(dto.RegisterRequest{
		FullName: "Ada Lovelace",
		Email:    "Ada@Example.com",
		Password: "Secret123",
	}, model.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email, "email is normalized")
	assert.Equal(t, string(model.RoleStudent), user.Role)

	auth, err := svc.Login(dto.LoginRequest{Email: "ada@example.com", Password: "Secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, auth.Token)
	assert.Equal(t, user.ID, auth.User.ID)

	_, err = svc.Login(dto.LoginRequest{Email: "ada@example.com", Password: "wrong"})
	assert.True(t, errors.Is(err, apperr.ErrBadCredentials))

	_, err = svc.Login(dto.LoginRequest{Email: "nobody@example.com", Password: "Secret123"})
	assert.True(t, errors.Is(err, apperr.ErrBadCredentials))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	req := dto.RegisterRequest{FullName: "First", Email: "dup@example.com", Password: "Secret123"}
	_, err := svc.Register(req, model.RoleStudent)
	require.NoError(t, err)

	req.FullName = "Second"
	_, err = svc.Register(req, model.RoleStudent)
	assert.True(t, errors.Is(err, apperr.ErrEmailTaken))
}

func TestRegisterPasswordStrength(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	for _, password := range []string{"short1A", "alllowercase1", "ALLUPPERCASE1", "NoDigitsHere"} {
		_, err := svc.Register(dto.RegisterRequest{
			FullName: "Weak",
			Email:    "weak@example.com",
			Password: password,
		}, model.RoleStudent)
		assert.Error(t, err, "password %q should be rejected", password)
	}
}

func TestRegisterNeverGrantsAdmin(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user, err := svc.Register(dto.RegisterRequest{
		FullName: "Sneaky",
		Email:    "sneaky@example.com",
		Password: "Secret123",
	}, model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, string(model.RoleStudent), user.Role)

	instructor, err := svc.Register(dto.RegisterRequest{
		FullName: "Teacher",
		Email:    "teacher@example.com",
		Password: "Secret123",
	}, model.RoleInstructor)
	require.NoError(t, err)
	assert.Equal(t, string(model.RoleInstructor), instructor.Role)
}
