package middleware

import (
	"github.com/MicahParks/keyfunc/v3"
	"github.com/labstack/echo/v4"
	"github.com/rabbitmq/amqp091-go"

	"marketmind/internal/storage"
	"marketmind/pkg/query"
	"marketmind/pkg/store"
	"marketmind/pkg/vector"
)

// App carries the shared service handles every request needs.
type App struct {
	Engine       *query.Engine
	Articles     store.ArticleStorage
	Documents    *vector.DocumentStore
	Archive      *storage.Archive
	Queue        *amqp091.Channel
	Key          *keyfunc.Keyfunc
	MasterAPIKey string
}

type AppUser struct {
	Subject string
	Role    string
}

type AppContext struct {
	echo.Context
	App  *App
	User *AppUser
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app, nil}
			return next(cc)
		}
	}
}
