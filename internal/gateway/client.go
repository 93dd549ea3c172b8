// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2024-2026 JiraVision contributors
// https://github.com/jiravision/jiravision

// Package gateway provides the HTTP client for the calendar event API.
// It implements the calendar.EventSource contract so the view engine can
// run against a remote JiraVision instance.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jiravision/jiravision/internal/calendar"
	"github.com/jiravision/jiravision/internal/models"
	"github.com/jiravision/jiravision/internal/pkg/errors"
	"github.com/jiravision/jiravision/internal/pkg/logger"
)

// Client talks to the calendar event API over HTTP.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *logger.Logger
}

// Config holds the gateway client configuration.
type Config struct {
	BaseURL string // e.g. "https://jiravision.example.com"
	Token   string // bearer token; empty for unauthenticated endpoints
	Timeout time.Duration
}

// NewClient creates a new calendar API client.
func NewClient(config *Config, log *logger.Logger) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: config.BaseURL,
		token:   config.Token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log.Named("gateway"),
	}
}

var _ calendar.EventSource = (*Client)(nil)

// listResponse is the wire shape of the list endpoint.
type listResponse struct {
	Success bool                   `json:"success"`
	Events  []models.CalendarEvent `json:"events"`
}

// eventResponse is the wire shape of the create/update endpoints.
type eventResponse struct {
	Success bool                  `json:"success"`
	Event   *models.CalendarEvent `json:"event"`
}

// errorResponse is the wire shape of any failure.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"error"`
	Code    string `json:"code"`
}

// List fetches all events.
func (c *Client) List(ctx context.Context) ([]models.CalendarEvent, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/calendar/events", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.errorFromResponse(resp)
	}

	var body listResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.NewFetchError("decode event list: " + err.Error())
	}
	if body.Events == nil {
		body.Events = []models.CalendarEvent{}
	}
	return body.Events, nil
}

// Create submits a new event and returns the stored version.
func (c *Client) Create(ctx context.Context, input *models.CreateEventInput) (*models.CalendarEvent, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/calendar/events", input)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, c.errorFromResponse(resp)
	}

	var body eventResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.NewFetchError("decode created event: " + err.Error())
	}
	if body.Event == nil {
		return nil, errors.NewFetchError("create response is missing the event")
	}
	return body.Event, nil
}

// Update replaces an event and returns the stored version.
func (c *Client) Update(ctx context.Context, id int64, input *models.CreateEventInput) (*models.CalendarEvent, error) {
	resp, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/calendar/events/%d", id), input)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.errorFromResponse(resp)
	}

	var body eventResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.NewFetchError("decode updated event: " + err.Error())
	}
	if body.Event == nil {
		return nil, errors.NewFetchError("update response is missing the event")
	}
	return body.Event, nil
}

// Delete removes an event by id.
func (c *Client) Delete(ctx context.Context, id int64) error {
	resp, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/calendar/events/%d", id), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return c.errorFromResponse(resp)
	}
	return nil
}

// do builds and executes a request. Transport failures surface as fetch
// errors; the caller's cached state stays valid.
func (c *Client) do(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "marshal request body")
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "create request")
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("calendar API unreachable", "method", method, "path", path, "error", err)
		return nil, errors.NewFetchError("calendar API unreachable: " + err.Error())
	}
	return resp, nil
}

// errorFromResponse maps a non-success status to the error taxonomy.
func (c *Client) errorFromResponse(resp *http.Response) error {
	var body errorResponse
	message := resp.Status
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err == nil && body.Message != "" {
		message = body.Message
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errors.NewNotFoundError("event")
	case resp.StatusCode == http.StatusBadRequest:
		return errors.NewValidationError(message)
	case resp.StatusCode == http.StatusUnauthorized:
		return errors.NewUnauthorizedError(message)
	case resp.StatusCode == http.StatusBadGateway,
		resp.StatusCode == http.StatusServiceUnavailable,
		resp.StatusCode == http.StatusGatewayTimeout:
		return errors.NewFetchError(message)
	case resp.StatusCode >= 500:
		return errors.NewPersistenceError(message)
	default:
		return errors.NewWithStatus(errors.CodeInternal, message, resp.StatusCode)
	}
}
