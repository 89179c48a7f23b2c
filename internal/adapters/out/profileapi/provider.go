// Package profileapi implements the ProfileProvider port against the
// account system's REST API. The account system owns authentication and
// profile editing; the portal only reads profile data for autopopulation.
package profileapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"orderportal/internal/core/domain/services/autopopulate"
)

// Client reads account and institution profiles over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a profile client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// AccountProfile returns the account profile of the given owner.
// An unknown owner yields an empty profile, not an error.
func (c *Client) AccountProfile(ctx context.Context, owner string) (autopopulate.AccountProfile, error) {
	var profile autopopulate.AccountProfile
	err := c.get(ctx, fmt.Sprintf("/api/v1/accounts/%s/profile", url.PathEscape(owner)), &profile)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// UniversityProfile returns the institution defaults applying to the
// given owner.
func (c *Client) UniversityProfile(ctx context.Context, owner string) (autopopulate.UniversityProfile, error) {
	var profile autopopulate.UniversityProfile
	err := c.get(ctx, fmt.Sprintf("/api/v1/accounts/%s/university", url.PathEscape(owner)), &profile)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("profile request %s: unexpected status %d", path, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
