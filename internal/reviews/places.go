package reviews

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// PlacesClient получает отзывы через Google Places API
type PlacesClient struct {
	client *resty.Client
	apiKey string
}

type findPlaceResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Candidates   []struct {
		PlaceID string `json:"place_id"`
	} `json:"candidates"`
}

type placeDetailsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Result       struct {
		Name    string   `json:"name"`
		Rating  float64  `json:"rating"`
		Reviews []Review `json:"reviews"`
	} `json:"result"`
}

// NewPlacesClient создает клиента Places API
func NewPlacesClient(baseURL, apiKey string) *PlacesClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(10*time.Second).
		SetRetryCount(2).
		SetHeader("Accept", "application/json")

	return &PlacesClient{client: client, apiKey: apiKey}
}

// Lookup находит здание по названию и загружает его отзывы
func (c *PlacesClient) Lookup(ctx context.Context, building string) (*BuildingReviews, error) {
	building = strings.TrimSpace(building)
	if building == "" {
		return nil, fmt.Errorf("building name is empty")
	}

	placeID, err := c.findPlace(ctx, building)
	if err != nil {
		return nil, err
	}

	var details placeDetailsResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"place_id": placeID,
			"fields":   "name,rating,reviews",
			"key":      c.apiKey,
		}).
		SetResult(&details).
		ForceContentType("application/json").
		Get("/details/json")
	if err != nil {
		return nil, fmt.Errorf("place details request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("place details request failed: %s", resp.Status())
	}
	if err := checkStatus(details.Status, details.ErrorMessage); err != nil {
		return nil, err
	}

	result := &BuildingReviews{
		Building: building,
		PlaceID:  placeID,
		Name:     details.Result.Name,
		Rating:   details.Result.Rating,
	}
	Categorize(result, details.Result.Reviews)
	return result, nil
}

func (c *PlacesClient) findPlace(ctx context.Context, building string) (string, error) {
	var found findPlaceResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"input":     building,
			"inputtype": "textquery",
			"fields":    "place_id",
			"key":       c.apiKey,
		}).
		SetResult(&found).
		ForceContentType("application/json").
		Get("/findplacefromtext/json")
	if err != nil {
		return "", fmt.Errorf("find place request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("find place request failed: %s", resp.Status())
	}
	if err := checkStatus(found.Status, found.ErrorMessage); err != nil {
		return "", err
	}
	if len(found.Candidates) == 0 || found.Candidates[0].PlaceID == "" {
		return "", fmt.Errorf("%q: %w", building, ErrNotFound)
	}
	return found.Candidates[0].PlaceID, nil
}

func checkStatus(status, message string) error {
	switch status {
	case "OK":
		return nil
	case "":
		return ErrBadResponse
	case "ZERO_RESULTS", "NOT_FOUND":
		return ErrNotFound
	default:
		return fmt.Errorf("places api status %s: %s", status, message)
	}
}
