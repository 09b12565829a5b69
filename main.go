package main

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/localserv/localserv-backend/controllers/admin"
	"github.com/localserv/localserv-backend/controllers/consumer"
	"github.com/localserv/localserv-backend/cron"
	"github.com/localserv/localserv-backend/db"
	"github.com/localserv/localserv-backend/redis"
	"github.com/localserv/localserv-backend/routes"
	"github.com/localserv/localserv-backend/store"
)

func main() {
	app := fiber.New()
	db.Init()
	if os.Getenv("RUN_MIGRATIONS") == "true" {
		db.Migrate()
	}
	if os.Getenv("REDIS_ADDR") != "" {
		redis.InitRedis()
	}

	dataStore := store.NewGorm(db.DB)
	consumer.Init(dataStore)
	admin.Init(dataStore)

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Local service provider directory API")
	})
	routes.SetupAuthRoutes(app)
	routes.SetupProviderRoutes(app)
	routes.SetupAdminRoutes(app)

	cron.StartCronJobs(dataStore)

	app.Listen(":8000")
}
