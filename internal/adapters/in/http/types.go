package http

import "time"

// Error is the JSON error body returned by all endpoints.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CreateOrderRequest is the body of POST /api/v1/orders.
type CreateOrderRequest struct {
	FormID string `json:"form_id"`
	Title  string `json:"title"`
	Owner  string `json:"owner"`
}

// Link is a titled URL attached to an order.
type Link struct {
	Href  string `json:"href"`
	Title string `json:"title"`
}

// Order is the full order representation returned by the read endpoints.
// Values already has read-restricted fields removed for non-staff callers.
type Order struct {
	ID          string            `json:"id"`
	Number      string            `json:"number"`
	FormID      string            `json:"form_id"`
	FormVersion int               `json:"form_version"`
	Title       string            `json:"title"`
	Owner       string            `json:"owner"`
	Status      string            `json:"status"`
	Values      map[string]any    `json:"values"`
	Invalid     map[string]string `json:"invalid"`
	History     map[string]string `json:"history"`
	Tags        []string          `json:"tags"`
	Links       []Link            `json:"links"`
	Attachments []string          `json:"attachments"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// OrderListItem is one row of the status listing.
type OrderListItem struct {
	ID        string    `json:"id"`
	Number    string    `json:"number"`
	Title     string    `json:"title"`
	Owner     string    `json:"owner"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TransitionTarget is one status the order can move to.
type TransitionTarget struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Action      string `json:"action"`
}

// ApplyTransitionRequest is the body of POST /api/v1/orders/:id/transitions.
type ApplyTransitionRequest struct {
	Target string `json:"target"`
}

// SetTagsRequest is the body of PUT /api/v1/orders/:id/tags.
type SetTagsRequest struct {
	Tags []string `json:"tags"`
}

// SetLinksRequest is the body of PUT /api/v1/orders/:id/links.
type SetLinksRequest struct {
	Links []Link `json:"links"`
}

// CreatedResponse returns the identifier of a newly created order.
type CreatedResponse struct {
	ID string `json:"id"`
}
