package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/avstrong/wandernest/internal/wizard"
)

var optionPaths = map[wizard.Category]string{
	wizard.CategoryTransport: "/packages/transport-options/",
	wizard.CategoryHotel:    "/packages/create/hotel-options/",
	wizard.CategoryGuide:    "/packages/guide-options/",
}

type remoteOption struct {
	ID          flexID  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
}

type remotePackage struct {
	ID    flexID  `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
}

func (c *Client) FetchOptions(ctx context.Context, category wizard.Category) ([]wizard.Option, error) {
	path, ok := optionPaths[category]
	if !ok {
		return nil, fmt.Errorf("%q: %w", category, wizard.ErrUnknownCategory)
	}

	var raw json.RawMessage
	if err := c.call(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}

	items, err := decodeList[remoteOption](raw)
	if err != nil {
		return nil, fmt.Errorf("%s options: %w", category, err)
	}

	options := make([]wizard.Option, 0, len(items))
	for _, item := range items {
		options = append(options, wizard.Option{
			ID:          string(item.ID),
			Name:        item.Name,
			Description: item.Description,
			Image:       item.Image,
			Price:       item.Price,
		})
	}

	return options, nil
}

func (c *Client) CreatePackage(ctx context.Context, req wizard.PackageCreationRequest) (*wizard.CreatedPackage, error) {
	var created remotePackage
	if err := c.call(ctx, http.MethodPost, "/packages/create/", req, &created); err != nil {
		return nil, fmt.Errorf("create package: %w", err)
	}

	c.l.LogInfo("Package %q created with id %s", req.Title, created.ID)

	return &wizard.CreatedPackage{
		ID:    string(created.ID),
		Title: created.Title,
		Price: created.Price,
	}, nil
}
