package di_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardenal_backend/internal/app/di"
	"cardenal_backend/internal/config"
	reportentity "cardenal_backend/internal/feature/reports/domain/entity"
	reportusecase "cardenal_backend/internal/feature/reports/usecase"
	userusecase "cardenal_backend/internal/feature/users/usecase"
	"cardenal_backend/internal/platform/db"
	"cardenal_backend/internal/platform/session"
	"cardenal_backend/internal/platform/storage"
	"cardenal_backend/internal/platform/storage/storagetest"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Port: "0", TimeZone: "America/Mexico_City"},
		Auth: config.AuthConfig{
			JWTSecret:        "test-secret",
			TokenTTLMinutes:  60,
			CredentialScheme: config.SchemePlain,
		},
	}
}

func register(t *testing.T, s *di.Services, email, username string) {
	t.Helper()
	_, err := s.Users.Register(context.Background(), userusecase.RegisterInput{
		Name: "Ana", Email: email, Username: username, Password: "pw",
	})
	require.NoError(t, err)
}

func TestServices_ClientFlow(t *testing.T) {
	storagetest.ForEach(t, func(t *testing.T, b storage.Backend) {
		ctx := context.Background()
		s := di.NewServices(testConfig(), nil, b, nil)
		register(t, s, "ana@uni.mx", "ana")

		// 未ログインではレポートは所有者なし
		anon, err := s.SubmitReport(ctx, reportusecase.ReportInput{Category: "Electricidad", Location: "Edificio A"})
		require.NoError(t, err)
		assert.Nil(t, anon.OwnerUserID)

		mine, err := s.MyReports(ctx)
		require.NoError(t, err)
		assert.Empty(t, mine)

		user, err := s.Login(ctx, "ana@uni.mx", "pw")
		require.NoError(t, err)
		require.NotNil(t, user)

		current, err := s.CurrentUser(ctx)
		require.NoError(t, err)
		require.NotNil(t, current)
		assert.Equal(t, user.ID, current.ID)

		created, err := s.SubmitReport(ctx, reportusecase.ReportInput{Category: "Plomería", Location: "Biblioteca"})
		require.NoError(t, err)
		require.NotNil(t, created.OwnerUserID)
		assert.Equal(t, user.ID, *created.OwnerUserID)

		mine, err = s.MyReports(ctx)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, created.ID, mine[0].ID)

		own, err := s.MyReport(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, own)
		assert.Equal(t, "Biblioteca", own.Location)

		// 匿名のレポートは誰の所有でもない
		other, err := s.MyReport(ctx, anon.ID)
		require.NoError(t, err)
		assert.Nil(t, other)

		summary, err := s.MyStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Total)
		assert.Equal(t, 1, summary.CountByStatus[reportentity.StatusPending])
		assert.Equal(t, "Biblioteca", summary.MostActiveLocation)

		require.NoError(t, s.Logout(ctx))
		current, err = s.CurrentUser(ctx)
		require.NoError(t, err)
		assert.Nil(t, current)

		summary, err = s.MyStats(ctx)
		require.NoError(t, err)
		assert.Zero(t, summary.Total)

		own, err = s.MyReport(ctx, created.ID)
		require.NoError(t, err)
		assert.Nil(t, own, "signed out")
	})
}

func TestServices_LoginWrongPasswordKeepsSession(t *testing.T) {
	ctx := context.Background()
	s := di.NewServices(testConfig(), nil, storagetest.NewRelational(t), nil)
	register(t, s, "ana@uni.mx", "ana")

	_, err := s.Login(ctx, "ana@uni.mx", "pw")
	require.NoError(t, err)

	user, err := s.Login(ctx, "ana@uni.mx", "wrong")
	require.NoError(t, err)
	assert.Nil(t, user)

	current, err := s.CurrentUser(ctx)
	require.NoError(t, err)
	assert.NotNil(t, current, "a failed login must not sign the current user out")
}

func TestServices_FlatSessionSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	_, client, _ := storagetest.NewFlat(t)

	first := di.NewServices(testConfig(), nil, storage.NewFlat(client, nil, nil), session.NewRedisStore(client, "session"))
	register(t, first, "ana@uni.mx", "ana")
	user, err := first.Login(ctx, "ana@uni.mx", "pw")
	require.NoError(t, err)
	require.NotNil(t, user)

	second := di.NewServices(testConfig(), nil, storage.NewFlat(client, nil, nil), session.NewRedisStore(client, "session"))
	current, err := second.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, user.ID, current.ID)
}

func TestServices_BcryptScheme(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.Auth.CredentialScheme = config.SchemeBcrypt
	cfg.Auth.BcryptCost = 4

	s := di.NewServices(cfg, nil, storagetest.NewRelational(t), nil)
	register(t, s, "ana@uni.mx", "ana")

	user, err := s.Login(ctx, "ana@uni.mx", "pw")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotEqual(t, "pw", user.Credential.Sealed())
}

func TestBuild(t *testing.T) {
	ctx := context.Background()

	t.Run("relational sqlite", func(t *testing.T) {
		cfg := testConfig()
		cfg.Storage.Backend = config.BackendRelational
		cfg.Relational = db.Config{Driver: db.DriverSQLite, SQLitePath: ":memory:"}

		s, err := di.Build(ctx, cfg, nil)
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })

		assert.Equal(t, "relational", s.Backend.Name())
		require.NoError(t, s.Schema.Ensure(ctx))
		assert.True(t, s.Schema.Ready())
	})

	t.Run("flat redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := testConfig()
		cfg.Storage.Backend = config.BackendFlat
		cfg.Redis = config.RedisConfig{Host: mr.Host(), Port: mr.Port()}

		s, err := di.Build(ctx, cfg, nil)
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })

		assert.Equal(t, "flat", s.Backend.Name())
		require.NoError(t, s.Backend.Ping(ctx))
	})

	t.Run("unreachable redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		host, port := mr.Host(), mr.Port()
		mr.Close()

		cfg := testConfig()
		cfg.Storage.Backend = config.BackendFlat
		cfg.Redis = config.RedisConfig{Host: host, Port: port}

		_, err := di.Build(ctx, cfg, nil)
		assert.Error(t, err)
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := testConfig()
		cfg.Storage.Backend = "csv"

		_, err := di.Build(ctx, cfg, nil)
		assert.Error(t, err)
	})
}
