package initialize

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"user-grid/backend/app/cache"
	"user-grid/backend/app/controllers"
	"user-grid/backend/app/db"
	"user-grid/backend/app/models"
	"user-grid/backend/app/repo"
	"user-grid/backend/app/services"
	"user-grid/backend/config"
	"user-grid/backend/global"
	"user-grid/backend/router"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type App struct {
	Cfg    *config.Config
	DB     *gorm.DB
	Redis  *redis.Client
	Router http.Handler
	Users  *services.UserService
}

// Close releases the redis client and the database pool.
func (a *App) Close() error {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			return sqlDB.Close()
		}
	}
	return nil
}

func Build(ctx context.Context, configPath string) (*App, error) {
	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return BuildFromConfig(ctx, cfg)
}

// BuildFromConfig wires the app. On error every connection opened so far
// is closed again.
func BuildFromConfig(ctx context.Context, cfg *config.Config) (_ *App, err error) {
	global.Config = cfg
	app := &App{Cfg: cfg}
	defer func() {
		if err != nil {
			_ = app.Close()
		}
	}()

	// Connect DB
	gdb, err := db.Connect(db.Config{Driver: cfg.DB.Driver, DSN: cfg.DB.DSN})
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	app.DB = gdb
	global.Mdb = gdb

	// Migrate
	if err := gdb.AutoMigrate(&models.User{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	// Redis is optional; without it the list is always read from the db
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rdb, rerr := cache.Connect(pingCtx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if rerr != nil {
		global.Logger.Warn().Err(rerr).Msg("redis unavailable, list cache disabled")
		rdb = nil
	}
	app.Redis = rdb
	global.Rdb = rdb

	// Services
	userRepo := repo.NewUserRepository(gdb)
	app.Users = services.NewUserService(userRepo, cache.NewUserListCache(rdb, "user-grid:", cfg.Redis.TTL))
	if cfg.Seed {
		seeded, err := app.Users.Seed(ctx)
		if err != nil {
			return nil, err
		}
		if seeded {
			global.Logger.Info().Int("count", len(services.SeedUsers)).Msg("seeded sample users")
		}
	}

	// Controllers
	httpCtrl := controllers.NewHTTPController(cfg.Version)
	userCtrl := controllers.NewUserController(app.Users)

	// Router
	app.Router = router.NewRouter(httpCtrl, userCtrl)

	return app, nil
}
