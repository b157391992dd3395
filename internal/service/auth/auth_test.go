package auth_test

import (
	"context"
	"testing"
	"time"

	"zoo_roulette/internal/middleware"
	"zoo_roulette/internal/model"
	"zoo_roulette/internal/service"
	"zoo_roulette/internal/service/auth"
	"zoo_roulette/internal/service/testutil"
	"zoo_roulette/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type jwtConfigStub struct{}

func (jwtConfigStub) AccessTokenSecretKey() []byte        { return []byte("test-secret") }
func (jwtConfigStub) AccessTokenDuration() time.Duration  { return time.Hour }
func (jwtConfigStub) RefreshTokenDuration() time.Duration { return 24 * time.Hour }

type authFixture struct {
	serv     service.AuthService
	userRepo *testutil.UserRepo
	authRepo *testutil.AuthRepo
}

func newAuthFixture() *authFixture {
	userRepo := testutil.NewUserRepo()
	authRepo := testutil.NewAuthRepo(userRepo)

	return &authFixture{
		serv:     auth.NewAuthService(testutil.TxManager{}, userRepo, authRepo, jwtConfigStub{}),
		userRepo: userRepo,
		authRepo: authRepo,
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	data, err := f.serv.Register(ctx, &model.User{Login: "alice", Password: "secret"})
	require.NoError(t, err)

	assert.NotEmpty(t, data.AccessToken)
	assert.NotEmpty(t, data.RefreshToken)
	assert.NotEmpty(t, data.SessionID)

	// Новый игрок получает стартовый баланс
	assert.Equal(t, 10000, data.User.Balance)

	// Пароль в хранилище захэширован
	stored, err := f.userRepo.GetUserByLogin(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "secret", stored.Password)

	claims, err := token.VerifyToken(data.AccessToken, jwtConfigStub{}.AccessTokenSecretKey())
	require.NoError(t, err)

	userID, err := token.UserIDFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, data.User.ID, userID)
}

func TestRegisterDuplicateLogin(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	_, err := f.serv.Register(ctx, &model.User{Login: "alice", Password: "secret"})
	require.NoError(t, err)

	_, err = f.serv.Register(ctx, &model.User{Login: "alice", Password: "other"})
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	_, err := f.serv.Register(ctx, &model.User{Login: "alice", Password: "secret"})
	require.NoError(t, err)

	data, err := f.serv.Login(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, data.AccessToken)
	assert.Equal(t, "alice", data.User.Login)

	_, err = f.serv.Login(ctx, "alice", "wrong")
	assert.Error(t, err)

	_, err = f.serv.Login(ctx, "nobody", "secret")
	assert.Error(t, err)
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	data, err := f.serv.Register(ctx, &model.User{Login: "alice", Password: "secret"})
	require.NoError(t, err)

	accessToken, err := f.serv.Refresh(ctx, data.SessionID, data.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)

	_, err = f.serv.Refresh(ctx, data.SessionID, "forged-token")
	assert.Error(t, err)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	data, err := f.serv.Register(ctx, &model.User{Login: "alice", Password: "secret"})
	require.NoError(t, err)

	require.NoError(t, f.serv.Logout(ctx, data.SessionID))

	// После выхода refresh по той же сессии не работает
	_, err = f.serv.Refresh(ctx, data.SessionID, data.RefreshToken)
	assert.Error(t, err)
}

func TestProfile(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	data, err := f.serv.Register(ctx, &model.User{Login: "alice", Password: "secret"})
	require.NoError(t, err)

	user, err := f.serv.Profile(middleware.ContextWithUserID(ctx, data.User.ID))
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Login)
	assert.Equal(t, 10000, user.Balance)

	_, err = f.serv.Profile(ctx)
	assert.Error(t, err)
}
