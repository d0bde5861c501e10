// Package jira is a small client for the Jira Cloud REST API v3.
package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"formify.app/pkg/integrations"

	"github.com/gofiber/fiber/v2"
)

const service = "jira"

type Config struct {
	BaseURL    string
	Email      string
	APIToken   string
	ProjectKey string
	Timeout    time.Duration
}

// Complete reports whether every setting needed to talk to Jira is present.
func (c Config) Complete() bool {
	return c.BaseURL != "" && c.Email != "" && c.APIToken != "" && c.ProjectKey != ""
}

type Client struct {
	cfg Config
}

func New(cfg Config) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg}
}

func (c *Client) ProjectKey() string { return c.cfg.ProjectKey }

// BrowseURL links to the issue in the Jira UI.
func (c *Client) BrowseURL(key string) string {
	return c.cfg.BaseURL + "/browse/" + key
}

type User struct {
	AccountID    string `json:"accountId"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
}

type IssueType struct {
	Name string `json:"name"`
}

type NamedField struct {
	Name string `json:"name,omitempty"`
}

type Issue struct {
	ID     string `json:"id"`
	Key    string `json:"key"`
	Fields struct {
		Summary  string      `json:"summary"`
		Status   *NamedField `json:"status"`
		Priority *NamedField `json:"priority"`
		Created  string      `json:"created"`
		Updated  string      `json:"updated"`
		Reporter *User       `json:"reporter"`
	} `json:"fields"`
}

type SearchResult struct {
	Total  int     `json:"total"`
	Issues []Issue `json:"issues"`
}

// IssueFields is the payload of a create-issue request.
type IssueFields struct {
	Project     map[string]string `json:"project"`
	Summary     string            `json:"summary"`
	Description Document          `json:"description"`
	IssueType   NamedField        `json:"issuetype"`
	Priority    NamedField        `json:"priority"`
	Reporter    map[string]string `json:"reporter,omitempty"`
	Labels      []string          `json:"labels"`
}

type CreatedIssue struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

type errorBody struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}

func (c *Client) agent(method, path string) *fiber.Agent {
	a := fiber.AcquireAgent()
	a.Request().Header.SetMethod(method)
	a.Request().SetRequestURI(c.cfg.BaseURL + path)
	a.BasicAuth(c.cfg.Email, c.cfg.APIToken)
	a.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	return a
}

func (c *Client) do(ctx context.Context, a *fiber.Agent, out interface{}) error {
	if !c.cfg.Complete() {
		fiber.ReleaseAgent(a)
		return integrations.ErrNotConfigured
	}
	code, body, err := integrations.Do(ctx, service, a, c.cfg.Timeout)
	if err != nil {
		return err
	}
	if !integrations.IsSuccess(code) {
		return &integrations.StatusError{Service: service, Status: code, Message: upstreamMessage(body)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &integrations.StatusError{Service: service, Status: code, Message: "invalid response from Jira"}
	}
	return nil
}

func upstreamMessage(body []byte) string {
	var e errorBody
	if err := json.Unmarshal(body, &e); err == nil {
		if len(e.ErrorMessages) > 0 {
			return strings.Join(e.ErrorMessages, ", ")
		}
		if len(e.Errors) > 0 {
			parts := make([]string, 0, len(e.Errors))
			for field, msg := range e.Errors {
				parts = append(parts, field+": "+msg)
			}
			return strings.Join(parts, ", ")
		}
	}
	text := strings.TrimSpace(string(body))
	if len(text) > 100 {
		text = text[:100]
	}
	if text == "" {
		text = "request failed"
	}
	return text
}

// IssueTypes lists the issue types available in the configured project.
func (c *Client) IssueTypes(ctx context.Context) ([]IssueType, error) {
	var meta struct {
		Projects []struct {
			IssueTypes []IssueType `json:"issuetypes"`
		} `json:"projects"`
	}
	path := "/rest/api/3/issue/createmeta?projectKeys=" + url.QueryEscape(c.cfg.ProjectKey)
	if err := c.do(ctx, c.agent(fiber.MethodGet, path), &meta); err != nil {
		return nil, err
	}
	if len(meta.Projects) == 0 {
		return nil, nil
	}
	return meta.Projects[0].IssueTypes, nil
}

// FindUser returns the user whose email matches exactly, or nil.
func (c *Client) FindUser(ctx context.Context, email string) (*User, error) {
	var users []User
	path := "/rest/api/3/user/search?query=" + url.QueryEscape(email)
	if err := c.do(ctx, c.agent(fiber.MethodGet, path), &users); err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].EmailAddress, email) {
			return &users[i], nil
		}
	}
	return nil, nil
}

func (c *Client) CreateIssue(ctx context.Context, fields IssueFields) (*CreatedIssue, error) {
	a := c.agent(fiber.MethodPost, "/rest/api/3/issue")
	a.JSON(map[string]interface{}{"fields": fields})

	var created CreatedIssue
	if err := c.do(ctx, a, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) Search(ctx context.Context, jql string, startAt, maxResults int) (*SearchResult, error) {
	q := url.Values{}
	q.Set("jql", jql)
	q.Set("startAt", fmt.Sprint(startAt))
	q.Set("maxResults", fmt.Sprint(maxResults))

	var result SearchResult
	if err := c.do(ctx, c.agent(fiber.MethodGet, "/rest/api/3/search?"+q.Encode()), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
