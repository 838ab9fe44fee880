package inventory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stockroom/internal/database"
	"stockroom/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db
}

func newTestApp() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "unexpected server error"})
		},
	})
	app.Post("/ingredients", CreateIngredientHandler())
	app.Get("/ingredients", ListIngredientsHandler())
	app.Post("/ingredients/import", ImportIngredientsHandler())
	app.Get("/ingredients/:id", GetIngredientHandler())
	app.Put("/ingredients/:id", UpdateIngredientHandler())
	app.Delete("/ingredients/:id", DeleteIngredientHandler())
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

const flourBody = `{
	"name": "Flour",
	"quantity": 15,
	"unit": "KG",
	"supplier": "Mill & Co",
	"reorder_point": 10,
	"unit_cost": 2.5,
	"location": "Cabinet"
}`

const sugarBody = `{
	"name": "Sugar",
	"quantity": 5,
	"unit": "KG",
	"supplier": "Sweet Inc",
	"reorder_point": 8,
	"unit_cost": 1.2,
	"location": "Freezer"
}`

func createIngredient(t *testing.T, app *fiber.App, body string) models.Ingredient {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/ingredients", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var ing models.Ingredient
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ing))
	require.NotZero(t, ing.ID)
	return ing
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	setupTestDB(t)
	app := newTestApp()

	created := createIngredient(t, app, flourBody)

	resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/ingredients/%d", created.ID), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got models.Ingredient
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))

	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Flour", got.Name)
	assert.Equal(t, float64(15), got.Quantity)
	assert.Equal(t, "KG", got.Unit)
	assert.Equal(t, "Mill & Co", got.Supplier)
	assert.Equal(t, 10, got.ReorderPoint)
	assert.True(t, decimal.RequireFromString("2.50").Equal(got.UnitCost))
	assert.Equal(t, "Cabinet", got.Location)
}

func TestCreateValidationFailure(t *testing.T) {
	setupTestDB(t)
	app := newTestApp()

	resp := doJSON(t, app, http.MethodPost, "/ingredients",
		`{"name": "Flour", "quantity": -1, "unit": "KG"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body ValidationErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "validation_failed", body.Error)
	assert.Contains(t, body.Fields, FieldError{"quantity", ReasonInvalidRange})
	assert.Contains(t, body.Fields, FieldError{"supplier", ReasonMissing})

	// nothing reached the store
	var count int64
	database.DB.Model(&models.Ingredient{}).Count(&count)
	assert.Zero(t, count)
}

func TestListEmptyStoreReturns204(t *testing.T) {
	setupTestDB(t)
	app := newTestApp()

	resp := doJSON(t, app, http.MethodGet, "/ingredients", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestListReturnsAllInInsertionOrder(t *testing.T) {
	setupTestDB(t)
	app := newTestApp()

	createIngredient(t, app, flourBody)
	createIngredient(t, app, sugarBody)

	resp := doJSON(t, app, http.MethodGet, "/ingredients", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var items []models.Ingredient
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	require.Len(t, items, 2)
	assert.Equal(t, "Flour", items[0].Name)
	assert.Equal(t, "Sugar", items[1].Name)
}

func TestListWithFilterParams(t *testing.T) {
	setupTestDB(t)
	app := newTestApp()

	createIngredient(t, app, flourBody) // 15 > 10, not low
	createIngredient(t, app, sugarBody) // 5 <= 8, low

	resp := doJSON(t, app, http.MethodGet, "/ingredients?stock=low", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var items []models.Ingredient
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	require.Len(t, items, 1)
	assert.Equal(t, "Sugar", items[0].Name)

	resp = doJSON(t, app, http.MethodGet, "/ingredients?location=Freezer&search=sug", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	require.Len(t, items, 1)
	assert.Equal(t, "Sugar", items[0].Name)
}

// 204 means the store is empty; a filter that matches nothing on a
// populated store is a 200 with an empty list.
func TestListFilteredToNothingReturnsEmptyList(t *testing.T) {
	setupTestDB(t)
	app := newTestApp()

	createIngredient(t, app, flourBody)

	resp := doJSON(t, app, http.MethodGet, "/ingredients?search=nomatch", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var items []models.Ingredient
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestGetRejectsBadID(t *testing.T) {
	setupTestDB(t)
	app := newTestApp()

	for _, path := range []string{"/ingredients/abc", "/ingredients/0", "/ingredients/-3"} {
		resp := doJSON(t, app, http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
	}
}

func TestGetMissingReturns404(t *testing.T) {
	setupTestDB(t)
	app := newTestApp()

	resp := doJSON(t, app, http.MethodGet, "/ingredients/999", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdatePartialPayload(t *testing.T) {
	setupTestDB(t)
	app := newTestApp()

	created := createIngredient(t, app, sugarBody)

	resp := doJSON(t, app, http.MethodPut,
		fmt.Sprintf("/ingredients/%d", created.ID), `{"quantity": 3}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.Ingredient
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, float64(3), updated.Quantity)
	assert.Equal(t, "Sugar", updated.Name)
	assert.Equal(t, 8, updated.ReorderPoint)
}

func TestUpdateMissingReturns404(t *testing.T) {
	setupTestDB(t)
	app := newTestApp()

	resp := doJSON(t, app, http.MethodPut, "/ingredients/999", `{"quantity": 3}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateRejectsInvalidField(t *testing.T) {
	setupTestDB(t)
	app := newTestApp()

	created := createIngredient(t, app, sugarBody)

	resp := doJSON(t, app, http.MethodPut,
		fmt.Sprintf("/ingredients/%d", created.ID), `{"unit": "BUSHEL"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body ValidationErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body.Fields, FieldError{"unit", ReasonInvalidEnum})
}

func TestDeleteThenGetReturns404(t *testing.T) {
	setupTestDB(t)
	app := newTestApp()

	created := createIngredient(t, app, flourBody)

	resp := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/ingredients/%d", created.ID), "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/ingredients/%d", created.ID), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteMissingReturns404(t *testing.T) {
	setupTestDB(t)
	app := newTestApp()

	resp := doJSON(t, app, http.MethodDelete, "/ingredients/999", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func buildImportWorkbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, val := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, val))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestImportXLSX(t *testing.T) {
	setupTestDB(t)
	app := newTestApp()

	workbook := buildImportWorkbook(t, [][]any{
		{"name", "quantity", "unit", "supplier", "reorder_point", "unit_cost", "location"},
		{"Flour", 15, "KG", "Mill & Co", 10, 2.5, "Cabinet"},
		{"Sugar", 5, "KG", "Sweet Inc", 8, 1.2, "Cabinet"},
		{"Broken", -1, "KG", "Sweet Inc", 1, 1, "Cabinet"},
	})

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "ingredients.xlsx")
	require.NoError(t, err)
	_, err = part.Write(workbook.Bytes())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/ingredients/import", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var res ImportResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 4, res.Errors[0].Row)
	assert.Contains(t, res.Errors[0].Fields, FieldError{"quantity", ReasonInvalidRange})

	var count int64
	database.DB.Model(&models.Ingredient{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestImportRejectsNonXLSX(t *testing.T) {
	setupTestDB(t)
	app := newTestApp()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "ingredients.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("name,quantity\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/ingredients/import", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
