// Package caldav pushes exported plans to a CalDAV calendar.
package caldav

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alexanderramin/feather/internal/export"
	"github.com/emersion/go-webdav/caldav"
)

// Calendar is a calendar collection found on the server.
type Calendar struct {
	Path        string
	DisplayName string
}

// Client talks to one CalDAV server with basic auth.
type Client struct {
	baseURL  string
	username string
	password string
	calendar string
	http     *http.Client
	client   *caldav.Client
}

// NewClient creates a client for baseURL. calendarPath may be empty when
// only discovery is needed.
func NewClient(baseURL, username, password, calendarPath string) *Client {
	return &Client{
		baseURL:  baseURL,
		username: username,
		password: password,
		calendar: calendarPath,
		http: &http.Client{
			Transport: &basicAuthTransport{username: username, password: password},
			Timeout:   30 * time.Second,
		},
	}
}

// IsConfigured reports whether a server and credentials are set.
func (c *Client) IsConfigured() bool {
	return c.baseURL != "" && c.username != "" && c.password != ""
}

func (c *Client) connect() (*caldav.Client, error) {
	if c.client != nil {
		return c.client, nil
	}
	client, err := caldav.NewClient(c.http, c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to CalDAV: %w", err)
	}
	c.client = client
	return client, nil
}

type basicAuthTransport struct {
	username string
	password string
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.SetBasicAuth(t.username, t.password)
	return http.DefaultTransport.RoundTrip(req)
}

// DiscoverCalendars lists the calendars in the user's home set.
func (c *Client) DiscoverCalendars(ctx context.Context) ([]Calendar, error) {
	client, err := c.connect()
	if err != nil {
		return nil, err
	}
	principal, err := client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return nil, fmt.Errorf("find principal: %w", err)
	}
	homeSet, err := client.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("find home set: %w", err)
	}
	cals, err := client.FindCalendars(ctx, homeSet)
	if err != nil {
		return nil, fmt.Errorf("find calendars: %w", err)
	}
	out := make([]Calendar, 0, len(cals))
	for _, cal := range cals {
		out = append(out, Calendar{Path: cal.Path, DisplayName: cal.Name})
	}
	return out, nil
}

// PushResult counts what a push did.
type PushResult struct {
	Written int
	Failed  int
}

// Push writes one resource per entry, named after the plan id. Existing
// resources are replaced. A failing entry does not stop the others; the
// errors are joined.
func (c *Client) Push(ctx context.Context, entries []export.Entry) (PushResult, error) {
	var res PushResult
	if c.calendar == "" {
		return res, errors.New("calendar path not specified")
	}
	client, err := c.connect()
	if err != nil {
		return res, err
	}

	stamp := time.Now()
	var errs []error
	for _, e := range entries {
		cal, err := export.Object(e, stamp)
		if err == nil {
			_, err = client.PutCalendarObject(ctx, c.objectPath(e.Plan.ID), cal)
		}
		if err != nil {
			res.Failed++
			errs = append(errs, fmt.Errorf("put %s: %w", e.Plan.ID, err))
			continue
		}
		res.Written++
	}
	return res, errors.Join(errs...)
}

// Remove deletes the resource of a plan.
func (c *Client) Remove(ctx context.Context, planID string) error {
	client, err := c.connect()
	if err != nil {
		return err
	}
	if err := client.RemoveAll(ctx, c.objectPath(planID)); err != nil {
		return fmt.Errorf("delete %s: %w", planID, err)
	}
	return nil
}

func (c *Client) objectPath(planID string) string {
	p := c.calendar
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p + planID + ".ics"
}
