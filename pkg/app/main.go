package app

import (
	"github.com/gorilla/sessions"

	"github.com/ghuser/trueauth/pkg/cache"
	"github.com/ghuser/trueauth/pkg/config"
	"github.com/ghuser/trueauth/pkg/database"
	"github.com/ghuser/trueauth/pkg/events"
	"github.com/ghuser/trueauth/pkg/logger"
)

// Application holds shared infrastructure dependencies for all services.
// Pass to every service's route registration call during server initialization.
//
// Logging: app.Logger is backed by a trace-aware handler — use slog's context methods
// and trace_id, span_id, and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "claiming item", "item_id", id)
//	app.Logger.ErrorContext(ctx, "failed to save", "error", err)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
type Application struct {
	Config       *config.Config
	Db           *database.Database
	Logger       logger.Logger
	EventBus     *events.EventBus
	Redis        *cache.RedisClient
	SessionStore sessions.Store // Redis-backed wallet session store; nil in worker process
}
