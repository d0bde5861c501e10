// Package salesforce talks to the Salesforce REST API using the OAuth password flow.
package salesforce

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"formify.app/pkg/integrations"

	"github.com/gofiber/fiber/v2"
)

const service = "salesforce"

type Config struct {
	LoginURL      string
	ClientID      string
	ClientSecret  string
	Username      string
	Password      string
	SecurityToken string
	APIVersion    string
	Timeout       time.Duration
}

func (c Config) Complete() bool {
	return c.LoginURL != "" && c.ClientID != "" && c.ClientSecret != "" && c.Username != "" && c.Password != ""
}

type Client struct {
	cfg Config
}

func New(cfg Config) *Client {
	cfg.LoginURL = strings.TrimRight(cfg.LoginURL, "/")
	if cfg.APIVersion == "" {
		cfg.APIVersion = "v59.0"
	}
	return &Client{cfg: cfg}
}

// Conn is an authenticated session against one Salesforce instance.
type Conn struct {
	client      *Client
	accessToken string
	instanceURL string
}

// Record is a generic sObject as returned by the REST API.
type Record map[string]interface{}

type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	InstanceURL      string `json:"instance_url"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Connect logs in and returns a session.
func (c *Client) Connect(ctx context.Context) (*Conn, error) {
	if !c.cfg.Complete() {
		return nil, integrations.ErrNotConfigured
	}
	args := fiber.AcquireArgs()
	args.Set("grant_type", "password")
	args.Set("client_id", c.cfg.ClientID)
	args.Set("client_secret", c.cfg.ClientSecret)
	args.Set("username", c.cfg.Username)
	args.Set("password", c.cfg.Password+c.cfg.SecurityToken)

	a := fiber.Post(c.cfg.LoginURL + "/services/oauth2/token")
	a.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	a.Form(args)
	fiber.ReleaseArgs(args)

	code, body, err := integrations.Do(ctx, service, a, c.cfg.Timeout)
	if err != nil {
		return nil, err
	}
	var token tokenResponse
	_ = json.Unmarshal(body, &token)
	if !integrations.IsSuccess(code) || token.AccessToken == "" {
		msg := token.ErrorDescription
		if msg == "" {
			msg = "error logging into Salesforce"
		}
		return nil, &integrations.StatusError{Service: service, Status: code, Message: msg}
	}
	return &Conn{client: c, accessToken: token.AccessToken, instanceURL: strings.TrimRight(token.InstanceURL, "/")}, nil
}

func (c *Conn) sobjectURL(sobject, id string) string {
	u := c.instanceURL + "/services/data/" + c.client.cfg.APIVersion + "/sobjects/" + sobject
	if id != "" {
		u += "/" + id
	}
	return u
}

func (c *Conn) do(ctx context.Context, a *fiber.Agent, out interface{}) error {
	a.Set(fiber.HeaderAuthorization, "Bearer "+c.accessToken)
	a.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	code, body, err := integrations.Do(ctx, service, a, c.client.cfg.Timeout)
	if err != nil {
		return err
	}
	if !integrations.IsSuccess(code) {
		return &integrations.StatusError{Service: service, Status: code, Message: upstreamMessage(body)}
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &integrations.StatusError{Service: service, Status: code, Message: "invalid response from Salesforce"}
	}
	return nil
}

func upstreamMessage(body []byte) string {
	var errs []struct {
		Message   string `json:"message"`
		ErrorCode string `json:"errorCode"`
	}
	if err := json.Unmarshal(body, &errs); err == nil && len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Message)
		}
		return strings.Join(msgs, ", ")
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return "request failed"
}

// Create inserts a record and returns its id.
func (c *Conn) Create(ctx context.Context, sobject string, fields Record) (string, error) {
	a := fiber.Post(c.sobjectURL(sobject, ""))
	a.JSON(fields)
	var res struct {
		ID      string `json:"id"`
		Success bool   `json:"success"`
	}
	if err := c.do(ctx, a, &res); err != nil {
		return "", err
	}
	return res.ID, nil
}

func (c *Conn) Retrieve(ctx context.Context, sobject, id string) (Record, error) {
	var rec Record
	if err := c.do(ctx, fiber.Get(c.sobjectURL(sobject, id)), &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (c *Conn) Destroy(ctx context.Context, sobject, id string) error {
	return c.do(ctx, fiber.Delete(c.sobjectURL(sobject, id)), nil)
}
