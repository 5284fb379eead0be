// Package di は設定に応じてストレージを選択し、ユースケースとハンドラーを組み立てます。
// 環境による分岐はこのパッケージだけで行います。
package di

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"cardenal_backend/internal/config"
	reportadapters "cardenal_backend/internal/feature/reports/adapters"
	reporthandler "cardenal_backend/internal/feature/reports/transport/handler"
	reportusecase "cardenal_backend/internal/feature/reports/usecase"
	statshandler "cardenal_backend/internal/feature/stats/transport/handler"
	statsusecase "cardenal_backend/internal/feature/stats/usecase"
	useradapters "cardenal_backend/internal/feature/users/adapters"
	userhandler "cardenal_backend/internal/feature/users/transport/handler"
	userusecase "cardenal_backend/internal/feature/users/usecase"
	"cardenal_backend/internal/platform/db"
	healthhandler "cardenal_backend/internal/platform/http/handler"
	jwtmw "cardenal_backend/internal/platform/jwt"
	redisclient "cardenal_backend/internal/platform/redis"
	"cardenal_backend/internal/platform/session"
	"cardenal_backend/internal/platform/storage"
	"cardenal_backend/internal/shared/clock"
)

// Handlers はルーターに渡すHTTPハンドラー一式です。
type Handlers struct {
	Health  *healthhandler.HealthHandler
	Users   *userhandler.UserHandler
	Reports *reporthandler.ReportHandler
	Stats   *statshandler.StatsHandler
}

// Services はプロセスで一度だけ構築されるサービスコンテナです。
type Services struct {
	Config  *config.Config
	Logger  *zap.Logger
	Backend storage.Backend
	Schema  *storage.SchemaInitializer
	Clock   *clock.Civil
	Session *session.Manager

	Users   *userusecase.UserUsecase
	Reports *reportusecase.ReportUsecase
	Stats   *statsusecase.StatsUsecase

	Handlers Handlers
}

// Build は cfg.Storage.Backend に従ってバックエンドを開き、Servicesを組み立てます。
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Services, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	backend, store, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("storage backend selected", zap.String("backend", backend.Name()))
	return NewServices(cfg, logger, backend, store), nil
}

// openBackend はストレージのバリアントを選択します。
// flat の場合のみセッションをRedisへ永続化します。
func openBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Backend, session.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendRelational, "":
		gdb, err := db.Open(cfg.Relational, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("open relational backend: %w", err)
		}
		return storage.NewRelational(gdb, logger), nil, nil
	case config.BackendFlat:
		client, err := redisclient.NewRedisClient(ctx, redisclient.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("open flat backend: %w", err)
		}
		return storage.NewFlat(client, nil, logger), session.NewRedisStore(client, "session"), nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend)
	}
}

// NewServices は開いたバックエンドからユースケースとハンドラーを組み立てます。
// store が nil の場合、セッションはメモリのみで保持されます。
func NewServices(cfg *config.Config, logger *zap.Logger, backend storage.Backend, store session.Store) *Services {
	if logger == nil {
		logger = zap.NewNop()
	}
	civil := clock.NewCivil(clock.LoadLocation(cfg.App.TimeZone))
	schema := storage.NewSchemaInitializer(backend)

	var scheme userusecase.CredentialScheme = userusecase.PlainScheme{}
	if cfg.Auth.CredentialScheme == config.SchemeBcrypt {
		scheme = userusecase.BcryptScheme{Cost: cfg.Auth.BcryptCost}
	}

	users := userusecase.NewUserUsecase(
		useradapters.NewUserStore(backend, civil.Location()), schema, scheme, civil)
	reports := reportusecase.NewReportUsecase(
		reportadapters.NewReportStore(backend, civil.Location()), schema, civil)
	stats := statsusecase.NewStatsUsecase(reports, civil)

	tokens := jwtmw.NewGenerator(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())

	return &Services{
		Config:  cfg,
		Logger:  logger,
		Backend: backend,
		Schema:  schema,
		Clock:   civil,
		Session: session.NewManager(store),
		Users:   users,
		Reports: reports,
		Stats:   stats,
		Handlers: Handlers{
			Health:  healthhandler.NewHealthHandler(backend, logger),
			Users:   userhandler.NewUserHandler(users, tokens, logger),
			Reports: reporthandler.NewReportHandler(reports, logger),
			Stats:   statshandler.NewStatsHandler(stats, logger),
		},
	}
}

// Close はバックエンドの接続を閉じます。
func (s *Services) Close() error {
	if s.Backend == nil {
		return nil
	}
	if err := s.Backend.Close(); err != nil {
		return fmt.Errorf("close %s backend: %w", s.Backend.Name(), err)
	}
	return nil
}
