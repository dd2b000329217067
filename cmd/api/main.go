package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/lmittmann/tint"

	"malagahomes_backend/internal/controller"
	"malagahomes_backend/internal/middleware"
	"malagahomes_backend/internal/model"
	"malagahomes_backend/internal/repository"
	"malagahomes_backend/internal/workflow"
	"malagahomes_backend/pkg/config"
	"malagahomes_backend/pkg/cron"
	"malagahomes_backend/pkg/database"
	"malagahomes_backend/pkg/geocode"
	"malagahomes_backend/pkg/imagehost"
	"malagahomes_backend/pkg/r2"
	"malagahomes_backend/pkg/seed"
	"malagahomes_backend/pkg/utils/jwt"
)

func main() {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.Kitchen,
	})))

	cfg := config.Load()

	jwt.Init(cfg.JWT.Secret)

	if err := database.InitDB(cfg.Database.URL); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.MigrateDatabase(
		&model.User{},
		&model.AgencyFee{},
		&model.Property{},
		&model.PropertyImage{},
		&model.PropertyView{},
		&model.PropertyStats{},
	); err != nil {
		slog.Error("database migration failed", "error", err)
		os.Exit(1)
	}

	if err := seed.Run(database.GetDB()); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}

	geoGate := geocode.NewGate(
		geocode.NewClient(cfg.Mapbox.BaseURL, cfg.Mapbox.AccessToken),
		cfg.Listing.AllowedRegion,
	)
	images := imagehost.NewClient(
		cfg.Cloudflare.AccountID,
		cfg.Cloudflare.APIToken,
		cfg.Cloudflare.DeliveryHost,
		cfg.Cloudflare.AccountHash,
	)
	avatars := r2.NewStorage(
		cfg.R2.AccountID,
		cfg.R2.AccessKey,
		cfg.R2.SecretKey,
		cfg.R2.BucketName,
		cfg.R2.CDNBaseURL,
	)

	propertyRepo := repository.NewPropertyRepository(database.GetDB())
	propertySaver := workflow.NewSaver(propertyRepo, geoGate, images, cfg.Listing.FeeKey, slog.Default())

	controller.InitPropertyController(propertySaver, propertyRepo, cfg.Listing.PageSize)
	controller.InitSettingsController(avatars)

	statsCron := cron.InitPropertyStatsCron()
	defer statsCron.Stop()

	app := fiber.New(fiber.Config{
		BodyLimit: 15 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New())

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", controller.Register)
	auth.Post("/login", controller.Login)

	api.Get("/me", middleware.AuthMiddleware(), controller.GetMe)

	properties := api.Group("/properties")
	properties.Get("/", controller.ListProperties)
	properties.Get("/my", middleware.AuthMiddleware(), controller.ListMyProperties)
	properties.Post("/", middleware.AuthMiddleware(), controller.CreateProperty)
	properties.Get("/:id", controller.GetProperty)
	properties.Put("/:id", middleware.AuthMiddleware(), controller.UpdateProperty)
	properties.Delete("/:id", middleware.AuthMiddleware(), controller.DeleteProperty)
	properties.Post("/:id/view", controller.RecordPropertyView)
	properties.Get("/:id/stats", middleware.AuthMiddleware(), controller.GetPropertyStats)

	settings := api.Group("/settings", middleware.AuthMiddleware())
	settings.Get("/profile", controller.GetProfile)
	settings.Put("/profile", controller.UpdateProfile)
	settings.Post("/avatar", controller.UploadAvatar)

	slog.Info("server starting", "port", cfg.Server.Port)
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
