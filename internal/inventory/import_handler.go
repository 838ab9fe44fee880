package inventory

import (
	"fmt"
	"log"
	"strings"

	"stockroom/internal/audit"
	"stockroom/internal/database"
	"stockroom/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

type ImportRowError struct {
	Row    int         `json:"row"`
	Fields FieldErrors `json:"fields"`
}

type ImportResponse struct {
	Imported int              `json:"imported"`
	Skipped  int              `json:"skipped"`
	Errors   []ImportRowError `json:"errors,omitempty"`
}

// POST /ingredients/import
// Reads an .xlsx, one ingredient per row on the first sheet:
// name, quantity, unit, supplier, reorder_point, unit_cost, location.
// Rows run through the same validator as the JSON API; invalid rows are
// reported with their row number and skipped.
func ImportIngredientsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "file upload failed")
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "only .xlsx files are accepted")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not open upload")
		}
		defer file.Close()

		excelFile, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "could not read Excel file")
		}
		defer excelFile.Close()

		sheets := excelFile.GetSheetList()
		if len(sheets) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel file has no sheets")
		}
		rows, err := excelFile.GetRows(sheets[0])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "could not read sheet")
		}
		if len(rows) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel file is empty")
		}

		start := 0
		if isHeaderRow(rows[0]) {
			start = 1
		}

		var res ImportResponse
		v := DefaultValidator()
		for i := start; i < len(rows); i++ {
			row := rows[i]
			if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
				continue
			}

			ing, verrs := v.Validate(rowPayload(row))
			if verrs != nil {
				res.Skipped++
				res.Errors = append(res.Errors, ImportRowError{Row: i + 1, Fields: verrs})
				continue
			}

			if err := database.DB.Create(&ing).Error; err != nil {
				log.Println("import ingredient:", err)
				return fiber.NewError(fiber.StatusInternalServerError, "could not import ingredients")
			}
			audit.Record(models.ChangeActionCreate, ing.ID,
				fmt.Sprintf("imported %s (row %d)", ing.Name, i+1), nil, ing)
			res.Imported++
		}

		if res.Imported == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(res)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// isHeaderRow: a first row carrying column labels instead of data.
func isHeaderRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.ToUpper(strings.TrimSpace(row[0]))
	return strings.Contains(first, "NAME") || strings.Contains(first, "INGREDIENT")
}

// rowPayload maps a sheet row onto the payload shape the JSON API uses, so
// both paths share one validator.
func rowPayload(row []string) Payload {
	cell := func(i int) *string {
		if i >= len(row) {
			return nil
		}
		s := strings.TrimSpace(row[i])
		if s == "" {
			return nil
		}
		return &s
	}
	num := func(i int) *Number {
		if s := cell(i); s != nil {
			return NumberFromString(*s)
		}
		return nil
	}
	return Payload{
		Name:         cell(0),
		Quantity:     num(1),
		Unit:         cell(2),
		Supplier:     cell(3),
		ReorderPoint: num(4),
		UnitCost:     num(5),
		Location:     cell(6),
	}
}
