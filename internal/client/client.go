// Package client is the HTTP client the terminal UI uses to talk to the
// stockroom API. Local state is only updated after a confirmed success
// response, so a failed call needs no rollback.
package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"stockroom/internal/inventory"
	"stockroom/internal/models"
)

// ErrNotFound is returned when the requested id has no matching record.
var ErrNotFound = errors.New("ingredient not found")

type Client struct {
	httpClient *http.Client
	BaseURL    string
}

// New builds a client pointed at STOCKROOM_API_URL, defaulting to the local
// development server.
func New() *Client {
	baseURL := os.Getenv("STOCKROOM_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return NewWithBaseURL(baseURL)
}

func NewWithBaseURL(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		BaseURL:    baseURL,
	}
}

// Ping checks server availability.
func (c *Client) Ping() bool {
	resp, err := c.httpClient.Get(c.BaseURL + "/health")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// List fetches every ingredient. A 204 means the store is empty.
func (c *Client) List() ([]models.Ingredient, error) {
	resp, err := c.httpClient.Get(c.BaseURL + "/ingredients")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return []models.Ingredient{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list failed with status %d", resp.StatusCode)
	}

	var items []models.Ingredient
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, err
	}
	return items, nil
}

// Get fetches one ingredient by id.
func (c *Client) Get(id uint) (*models.Ingredient, error) {
	resp, err := c.httpClient.Get(fmt.Sprintf("%s/ingredients/%d", c.BaseURL, id))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return decodeIngredient(resp, http.StatusOK)
}

// Create submits a new ingredient. A 400 with a field list comes back as
// inventory.FieldErrors.
func (c *Client) Create(p inventory.Payload) (*models.Ingredient, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Post(c.BaseURL+"/ingredients", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return decodeIngredient(resp, http.StatusCreated)
}

// Update replaces the supplied fields of an existing ingredient.
func (c *Client) Update(id uint, p inventory.Payload) (*models.Ingredient, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPut,
		fmt.Sprintf("%s/ingredients/%d", c.BaseURL, id), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return decodeIngredient(resp, http.StatusOK)
}

// Delete removes an ingredient by id.
func (c *Client) Delete(id uint) error {
	req, err := http.NewRequest(http.MethodDelete,
		fmt.Sprintf("%s/ingredients/%d", c.BaseURL, id), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("delete failed with status %d", resp.StatusCode)
	}
}

func decodeIngredient(resp *http.Response, want int) (*models.Ingredient, error) {
	switch resp.StatusCode {
	case http.StatusBadRequest:
		var ve struct {
			Error  string                `json:"error"`
			Fields inventory.FieldErrors `json:"fields"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&ve); err == nil && len(ve.Fields) > 0 {
			return nil, ve.Fields
		}
		return nil, errors.New("request rejected")
	case http.StatusNotFound:
		return nil, ErrNotFound
	case want:
		var ing models.Ingredient
		if err := json.NewDecoder(resp.Body).Decode(&ing); err != nil {
			return nil, err
		}
		return &ing, nil
	default:
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
}
