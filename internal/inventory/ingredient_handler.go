package inventory

import (
	"log"
	"strconv"

	"stockroom/internal/audit"
	"stockroom/internal/database"
	"stockroom/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ValidationErrorResponse is the 400 body for rejected payloads. Fields
// lists every violated rule, not just the first.
type ValidationErrorResponse struct {
	Error  string      `json:"error"`
	Fields FieldErrors `json:"fields"`
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "id must be a positive integer")
	}
	return uint(id), nil
}

// POST /ingredients
func CreateIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body Payload
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		ing, verrs := DefaultValidator().Validate(body)
		if verrs != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ValidationErrorResponse{
				Error:  "validation_failed",
				Fields: verrs,
			})
		}

		if err := database.DB.Create(&ing).Error; err != nil {
			log.Println("create ingredient:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "could not create ingredient")
		}

		audit.Record(models.ChangeActionCreate, ing.ID, "created "+ing.Name, nil, ing)

		return c.Status(fiber.StatusCreated).JSON(ing)
	}
}

// GET /ingredients?search=farin&stock=low&location=Freezer
// With no query parameters the full list is returned; 204 when nothing
// matches. The same filter engine runs client side on the fetched list.
func ListIngredientsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var items []models.Ingredient
		if err := database.DB.Order("id asc").Find(&items).Error; err != nil {
			log.Println("list ingredients:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "could not list ingredients")
		}

		// 204 is reserved for an empty store; a filter that matches
		// nothing still returns 200 with an empty list.
		if len(items) == 0 {
			return c.SendStatus(fiber.StatusNoContent)
		}

		state := FilterState{
			Search:   c.Query("search"),
			Stock:    StockFilter(c.Query("stock", string(StockAll))),
			Location: c.Query("location", LocationAll),
		}
		items = Filter(items, state)

		return c.JSON(items)
	}
}

// GET /ingredients/:id
func GetIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}

		var ing models.Ingredient
		if err := database.DB.First(&ing, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "ingredient not found")
		}
		return c.JSON(ing)
	}
}

// PUT /ingredients/:id
// Accepts a partial or full payload; absent fields keep their stored value.
func UpdateIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}

		var ing models.Ingredient
		if err := database.DB.First(&ing, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "ingredient not found")
		}

		var body Payload
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		before := ing
		if verrs := DefaultValidator().ValidateUpdate(body, &ing); verrs != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ValidationErrorResponse{
				Error:  "validation_failed",
				Fields: verrs,
			})
		}

		if err := database.DB.Save(&ing).Error; err != nil {
			log.Println("update ingredient:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "could not update ingredient")
		}

		audit.Record(models.ChangeActionUpdate, ing.ID, "updated "+ing.Name, before, ing)

		return c.JSON(ing)
	}
}

// DELETE /ingredients/:id
func DeleteIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}

		var ing models.Ingredient
		if err := database.DB.First(&ing, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "ingredient not found")
		}

		if err := database.DB.Delete(&ing).Error; err != nil {
			log.Println("delete ingredient:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "could not delete ingredient")
		}

		audit.Record(models.ChangeActionDelete, ing.ID, "deleted "+ing.Name, ing, nil)

		return c.JSON(fiber.Map{"message": "ingredient deleted"})
	}
}
