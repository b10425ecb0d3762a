package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/warehouse-api/internal/application/auth"
	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
	"github.com/jhoicas/warehouse-api/internal/infrastructure/memory"
	"github.com/jhoicas/warehouse-api/pkg/jwt"
)

const secret = "test-secret"

func newUseCase() (*auth.AuthUseCase, *memory.Store) {
	store := memory.NewStore()
	return auth.NewAuthUseCase(store, auth.JWTConfig{Secret: secret, ExpMinutes: 5, Issuer: "warehouse-api"}), store
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase()

	user, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: " Ana@Bodega.io ", Password: "supersecreta", Role: entity.RoleOperator})
	require.NoError(t, err)
	assert.Equal(t, "ana@bodega.io", user.Email)
	assert.Equal(t, "ana@bodega.io", user.Name)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "ANA@bodega.io", Password: "otraclave1"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	res, err := uc.Login(ctx, dto.LoginRequest{Email: "ana@bodega.io", Password: "supersecreta"})
	require.NoError(t, err)
	userID, role, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, entity.RoleOperator, role)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@bodega.io", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@bodega.io", Password: "supersecreta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRegister_Validation(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase()

	cases := map[string]dto.RegisterRequest{
		"email inválido":  {Email: "sin-arroba", Password: "supersecreta"},
		"password corta":  {Email: "a@b.io", Password: "corta"},
		"rol desconocido": {Email: "a@b.io", Password: "supersecreta", Role: "root"},
	}
	for name, in := range cases {
		_, err := uc.RegisterUser(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, name)
	}

	user, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "a@b.io", Password: "supersecreta"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleViewer, user.Role, "rol por defecto")
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase()

	created, err := uc.EnsureAdmin(ctx, "admin@bodega.io", "admin12345")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = uc.EnsureAdmin(ctx, "admin@bodega.io", "admin12345")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestLogin_InactiveUser(t *testing.T) {
	ctx := context.Background()
	uc, store := newUseCase()

	hash, err := bcrypt.GenerateFromPassword([]byte("supersecreta"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, store.Run(ctx, func(tx repository.Repos) error {
		return tx.Users.Create(ctx, &entity.User{
			ID: "u1", Email: "baja@bodega.io", PasswordHash: string(hash), Role: entity.RoleViewer, Status: "inactive",
		})
	}))

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "baja@bodega.io", Password: "supersecreta"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
