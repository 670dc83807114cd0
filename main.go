package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"eventhub_backend/internals/configs"
	database "eventhub_backend/internals/databases"
	aservice "eventhub_backend/internals/features/authorization/service"
	"eventhub_backend/internals/integrations/fcm"
	"eventhub_backend/internals/middlewares"
	routes "eventhub_backend/internals/route"
	"eventhub_backend/internals/scheduler"
)

func main() {
	configs.LoadEnv()
	logrus.SetFormatter(&logrus.JSONFormatter{})

	app := fiber.New(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ProxyHeader:           fiber.HeaderXForwardedFor,
	})

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(middlewares.RequestLogger())

	database.ConnectDB()
	database.TunePool()
	if err := database.Migrate(database.DB); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}

	// The role cache is a startup barrier: every authorization decision
	// reads it, so an incomplete seed must stop the boot.
	roleCache, err := aservice.InitCache(database.DB)
	if err != nil {
		logrus.Fatalf("role cache init failed: %v", err)
	}

	pusher := fcm.NewClient(configs.FcmEndpoint, configs.FcmServerKey)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	wired, err := routes.SetupRoutes(app, database.DB, roleCache, pusher)
	if err != nil {
		logrus.Fatalf("route setup failed: %v", err)
	}

	schedCtx, stopScheduler := context.WithCancel(context.Background())
	scheduler.StartReminderScheduler(schedCtx, wired.Events)

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	go func() {
		logrus.Infof("listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			logrus.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	stopScheduler()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
