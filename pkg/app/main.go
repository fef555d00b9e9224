package app

import (
	"github.com/ghuser/catalog/pkg/cache"
	"github.com/ghuser/catalog/pkg/database"
	"github.com/ghuser/catalog/pkg/errhttp"
	"github.com/ghuser/catalog/pkg/events"
	"github.com/ghuser/catalog/pkg/logger"
)

// Application holds shared infrastructure for every service. Each service's
// routes function receives it when the router is assembled.
//
// Logging: Logger injects trace_id, span_id and request_id from ctx, so use
// the context methods while serving requests:
//
//	a.Logger.InfoContext(ctx, "product created", "product_id", id)
//
// Errors is the request-failure translator. Handlers answer every failure
// through a.Errors.WriteError so all error bodies share one shape.
type Application struct {
	Db       *database.Database
	Logger   logger.Logger
	EventBus *events.EventBus
	Redis    *cache.RedisClient
	Errors   *errhttp.Translator // nil in the worker process
}
