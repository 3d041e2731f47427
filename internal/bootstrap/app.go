package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/server"
	"resume-builder/internal/shared/storage/db"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/resume/render"
)

// App holds shared dependencies of the API process.
type App struct {
	Config         config.Config
	Router         *gin.Engine
	DB             *sql.DB
	ResumesRepo    resumes.Repo
	ResumesService *resumes.Service
	ResumesHandler *resumes.Handler
}

// Build connects storage, wires the resume service and registers routes.
// Without a usable database resumes are kept in memory.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	app := &App{Config: cfg, DB: buildDB(ctx, cfg)}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:         app.Config,
		ResumesHandler: app.ResumesHandler,
	})
	return app, nil
}

// Close releases the database pool, if any.
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

// buildDB returns nil when resumes should be kept in memory: no DATABASE_URL,
// or a database that cannot be reached or migrated.
func buildDB(ctx context.Context, cfg config.Config) *sql.DB {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		memoryFallback(cfg, "DATABASE_URL empty", nil)
		return nil
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err == nil {
		if err = db.RunMigrations(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			err = fmt.Errorf("run migrations: %w", err)
		}
	}
	if err != nil {
		memoryFallback(cfg, "database unavailable", err)
		return nil
	}
	return sqlDB
}

// memoryFallback is expected in dev and an operator error anywhere else.
func memoryFallback(cfg config.Config, reason string, err error) {
	fields := map[string]any{"reason": reason, "env": cfg.Env}
	if err != nil {
		fields["error"] = err.Error()
	}
	if isDevLike(cfg.Env) {
		telemetry.Warn("bootstrap.memory_store", fields)
		return
	}
	telemetry.Error("bootstrap.memory_store", fields)
}

func buildServices(app *App) {
	if app.DB != nil {
		app.ResumesRepo = &resumes.PGRepo{DB: app.DB}
	} else {
		app.ResumesRepo = resumes.NewMemoryRepo()
	}
	app.ResumesService = &resumes.Service{
		Repo:     app.ResumesRepo,
		Exporter: render.NewChromeExporter(app.Config.ChromePath),
	}
	app.ResumesHandler = resumes.NewHandler(app.ResumesService)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}
