package main

import (
	"log"
	"strings"

	"stockroom/internal/audit"
	"stockroom/internal/config"
	"stockroom/internal/database"
	"stockroom/internal/inventory"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Ingredient CRUD. The import route registers before /:id so the path
	// segment is not captured as an id.
	app.Post("/ingredients", inventory.CreateIngredientHandler())
	app.Get("/ingredients", inventory.ListIngredientsHandler())
	app.Post("/ingredients/import", inventory.ImportIngredientsHandler())
	app.Get("/ingredients/:id", inventory.GetIngredientHandler())
	app.Put("/ingredients/:id", inventory.UpdateIngredientHandler())
	app.Delete("/ingredients/:id", inventory.DeleteIngredientHandler())

	// Mutation journal
	app.Get("/change-logs", audit.ListChangeLogsHandler())
	app.Post("/change-logs/:id/undo", audit.UndoChangeLogHandler())

	log.Println("server listening on port", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
