package audit

import (
	"log"
	"strconv"

	"stockroom/internal/database"
	"stockroom/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /change-logs?action=update&ingredient_id=3
func ListChangeLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.ChangeLog{})

		if action := c.Query("action"); action != "" {
			dbq = dbq.Where("action = ?", action)
		}
		if idStr := c.Query("ingredient_id"); idStr != "" {
			id, err := strconv.Atoi(idStr)
			if err != nil || id <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "ingredient_id must be a positive integer")
			}
			dbq = dbq.Where("ingredient_id = ?", id)
		}

		var logs []models.ChangeLog
		if err := dbq.Order("id desc").Find(&logs).Error; err != nil {
			log.Println("list change logs:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "could not list change logs")
		}
		return c.JSON(logs)
	}
}

// POST /change-logs/:id/undo
func UndoChangeLogHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("id"))
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id must be a positive integer")
		}

		var entry models.ChangeLog
		if err := database.DB.First(&entry, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "change log not found")
		}

		if err := Undo(&entry); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(entry)
	}
}
