package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/etag"
)

func SetupMiddlewares(app *fiber.App, allowOrigins []string) {
	// CORS configuration
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(allowOrigins, ", "),
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Emp-Id, X-Request-Id",
		MaxAge:       300, // 5 minutes
	}))

	app.Use(RequestLogger())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// ETag support for cacheable reads (estatísticas, listagens)
	app.Use(etag.New())
}

// RouteGroups define os grupos de rotas da API
type RouteGroups struct {
	Public fiber.Router
	API    fiber.Router
}

// SetupRouteGroups configura os grupos de rotas com seus respectivos middlewares
func SetupRouteGroups(app *fiber.App, actorMiddleware fiber.Handler) RouteGroups {
	// Grupo público (health check)
	public := app.Group("/")

	// Grupo da API, sempre com ator identificado
	api := app.Group("/api/v1")
	api.Use(actorMiddleware)

	return RouteGroups{
		Public: public,
		API:    api,
	}
}
