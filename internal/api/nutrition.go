package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shester1kov/go-online-workout-tracker/internal/model"
)

const DateLayout = "2006-01-02"

func (c *Client) DailyNutrition(ctx context.Context, date string) ([]model.NutritionEntry, error) {
	date = strings.TrimSpace(date)
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", date)
	}
	items := make([]model.NutritionEntry, 0)
	if err := c.do(ctx, request{method: http.MethodGet, route: "/nutritions/{date}", path: "/nutritions/" + date}, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.NutritionEntry{}
	}
	return items, nil
}

func (c *Client) Health(ctx context.Context) (model.Health, error) {
	var h model.Health
	err := c.do(ctx, request{method: http.MethodGet, route: "/health", path: "/health"}, &h)
	return h, err
}

// FatSecretAuthURL starts the FatSecret account link. The backend answers with a
// redirect to the provider's authorization page; the redirect is not followed so the
// caller can hand the URL to a browser.
func (c *Client) FatSecretAuthURL(ctx context.Context) (string, error) {
	hc := *c.httpClient()
	hc.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	resp, err := c.send(ctx, &hc, request{method: http.MethodGet, route: "/connect/fatsecret", path: "/connect/fatsecret"}, nil)
	if err != nil {
		return "", err
	}
	location := strings.TrimSpace(resp.Header.Get("Location"))
	if location == "" {
		return "", fmt.Errorf("fatsecret connect returned status %d without a redirect", resp.StatusCode)
	}
	return location, nil
}
