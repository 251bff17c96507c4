// Package client provides a Go client for the scheduling HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/apptbook/apptbook/pkg/civil"
)

const apiPrefix = "/api/v1"

// APIError is returned when the server answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Body)
}

// Client talks to a scheduling API server.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Page wraps a paginated list response.
type Page[T any] struct {
	Data    []T  `json:"data"`
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// ListOfficeHours returns rules matching the optional doctor/location filter.
func (c *Client) ListOfficeHours(ctx context.Context, doctorID, locationID *uuid.UUID) (*Page[OfficeHourRule], error) {
	q := url.Values{}
	if doctorID != nil {
		q.Set("doctor_id", doctorID.String())
	}
	if locationID != nil {
		q.Set("location_id", locationID.String())
	}
	var page Page[OfficeHourRule]
	if err := c.do(ctx, http.MethodGet, "/office-hours", q, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) CreateOfficeHourRule(ctx context.Context, rule *OfficeHourRule) (*OfficeHourRule, error) {
	var created OfficeHourRule
	if err := c.do(ctx, http.MethodPost, "/office-hours", nil, rule, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) DeleteOfficeHourRule(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/office-hours/"+id.String(), nil, nil, nil)
}

// ListAppointments returns the booked intervals for one doctor, location and day.
func (c *Client) ListAppointments(ctx context.Context, doctorID, locationID uuid.UUID, date civil.Date) ([]*Appointment, error) {
	q := url.Values{}
	q.Set("doctor_id", doctorID.String())
	q.Set("location_id", locationID.String())
	q.Set("date", date.String())
	var items []*Appointment
	if err := c.do(ctx, http.MethodGet, "/appointments", q, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) CreateAppointment(ctx context.Context, a *Appointment) (*Appointment, error) {
	var created Appointment
	if err := c.do(ctx, http.MethodPost, "/appointments", nil, a, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	var a Appointment
	if err := c.do(ctx, http.MethodGet, "/appointments/"+id.String(), nil, nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Reschedule moves an appointment. Omitted fields keep their current value;
// when only the date changes the server preserves the duration.
func (c *Client) Reschedule(ctx context.Context, id uuid.UUID, req RescheduleRequest) (*Appointment, error) {
	var a Appointment
	if err := c.do(ctx, http.MethodPost, "/appointments/"+id.String()+"/reschedule", nil, req, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) Confirm(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return c.applyAction(ctx, id, "confirm")
}

func (c *Client) Complete(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return c.applyAction(ctx, id, "complete")
}

func (c *Client) MarkNoShow(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return c.applyAction(ctx, id, "no-show")
}

// Cancel cancels an appointment. by is "patient" or "staff".
func (c *Client) Cancel(ctx context.Context, id uuid.UUID, by string, reason *string) (*Appointment, error) {
	body := map[string]interface{}{"by": by}
	if reason != nil {
		body["reason"] = *reason
	}
	var a Appointment
	if err := c.do(ctx, http.MethodPost, "/appointments/"+id.String()+"/cancel", nil, body, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) applyAction(ctx context.Context, id uuid.UUID, action string) (*Appointment, error) {
	var a Appointment
	if err := c.do(ctx, http.MethodPost, "/appointments/"+id.String()+"/"+action, nil, struct{}{}, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// AllowedActions returns the lifecycle actions the server will accept for
// the appointment in its current status.
func (c *Client) AllowedActions(ctx context.Context, id uuid.UUID) ([]Action, error) {
	var out struct {
		Status  Status   `json:"status"`
		Actions []Action `json:"actions"`
	}
	if err := c.do(ctx, http.MethodGet, "/appointments/"+id.String()+"/actions", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Actions, nil
}

// FreeWindows returns the resolver's free intervals for one doctor, location and day.
func (c *Client) FreeWindows(ctx context.Context, doctorID, locationID uuid.UUID, date civil.Date) ([]Window, error) {
	q := url.Values{}
	q.Set("doctor_id", doctorID.String())
	q.Set("location_id", locationID.String())
	q.Set("date", date.String())
	var windows []Window
	if err := c.do(ctx, http.MethodGet, "/availability", q, nil, &windows); err != nil {
		return nil, err
	}
	return windows, nil
}

// Slots returns bookable slots. granularity is in minutes; zero means the
// server default.
func (c *Client) Slots(ctx context.Context, doctorID, locationID uuid.UUID, date civil.Date, granularity int, allowPast bool) ([]Slot, error) {
	q := url.Values{}
	q.Set("doctor_id", doctorID.String())
	q.Set("location_id", locationID.String())
	q.Set("date", date.String())
	if granularity > 0 {
		q.Set("granularity", strconv.Itoa(granularity))
	}
	if allowPast {
		q.Set("allow_past", "true")
	}
	var slots []Slot
	if err := c.do(ctx, http.MethodGet, "/slots", q, nil, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (c *Client) CalendarMonth(ctx context.Context, year int, month time.Month, doctorID uuid.UUID) (*MonthView, error) {
	q := url.Values{}
	q.Set("year", strconv.Itoa(year))
	q.Set("month", strconv.Itoa(int(month)))
	q.Set("doctor_id", doctorID.String())
	var view MonthView
	if err := c.do(ctx, http.MethodGet, "/calendar/month", q, nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *Client) CalendarWeek(ctx context.Context, start civil.Date, doctorID uuid.UUID) (*WeekView, error) {
	q := url.Values{}
	q.Set("start", start.String())
	q.Set("doctor_id", doctorID.String())
	var view WeekView
	if err := c.do(ctx, http.MethodGet, "/calendar/week", q, nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *Client) CalendarDay(ctx context.Context, date civil.Date, doctorID uuid.UUID) (*WeekView, error) {
	q := url.Values{}
	q.Set("date", date.String())
	q.Set("doctor_id", doctorID.String())
	var view WeekView
	if err := c.do(ctx, http.MethodGet, "/calendar/day", q, nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}
