package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"formify.app/configs"
	"formify.app/configs/configslog"
	"formify.app/pkg/integrations/jira"

	"go.uber.org/zap"
)

var (
	preferredIssueTypes = []string{"Service Request", "Incident", "Task", "Problem"}
	jiraPriorities      = map[string]string{"High": "Highest", "Medium": "Medium", "Average": "Medium", "Low": "Low"}
)

const (
	defaultIssueType = "Task"
	defaultPriority  = "Medium"
)

type Reporter struct {
	Name  string
	Email string
}

type TicketInput struct {
	Summary      string `json:"summary"`
	Description  string `json:"description"`
	Priority     string `json:"priority"`
	PageURL      string `json:"pageUrl"`
	TemplateName string `json:"templateName"`
}

type TicketReporter struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	AccountID string `json:"accountId"`
}

type Ticket struct {
	ID          string          `json:"id,omitempty"`
	JiraKey     string          `json:"jiraKey"`
	Summary     string          `json:"summary"`
	Status      string          `json:"status"`
	Priority    string          `json:"priority"`
	Template    string          `json:"template,omitempty"`
	Link        string          `json:"link"`
	CreatedAt   string          `json:"createdAt,omitempty"`
	UpdatedAt   string          `json:"updatedAt,omitempty"`
	ReporterSet bool            `json:"reporterSet"`
	Reporter    *TicketReporter `json:"reporter,omitempty"`
}

type TicketPagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

type TicketPage struct {
	Tickets    []Ticket         `json:"tickets"`
	Pagination TicketPagination `json:"pagination"`
}

// IJiraService files and lists support tickets in Jira.
type IJiraService interface {
	CreateTicket(ctx context.Context, reporter Reporter, in TicketInput) (*Ticket, error)
	ListTickets(ctx context.Context, email string, page, limit int) (*TicketPage, error)
}

// JiraService talks to Jira through the go-jira client.
type JiraService struct {
	client func() *jira.Client
}

// NewJiraService reads the Jira settings on every call so reloaded config applies.
func NewJiraService() IJiraService {
	return &JiraService{client: func() *jira.Client {
		conf := configs.Conf()
		baseURL := conf.Jira.BaseURL
		if baseURL == "" && conf.Jira.Domain != "" {
			baseURL = "https://" + conf.Jira.Domain + ".atlassian.net"
		}
		return jira.New(jira.Config{
			BaseURL:    baseURL,
			Email:      conf.Jira.Email,
			APIToken:   conf.Jira.APIToken,
			ProjectKey: conf.Jira.ProjectKey,
			Timeout:    conf.HTTP.Timeout,
		})
	}}
}

// NewJiraServiceWith builds the service over an existing client.
func NewJiraServiceWith(client *jira.Client) IJiraService {
	return &JiraService{client: func() *jira.Client { return client }}
}

func emailLabel(email string) string {
	return "user-" + strings.Replace(email, "@", "-at-", 1)
}

func templateLabel(name string) string {
	return "template-" + strings.ToLower(strings.Join(strings.Fields(name), "-"))
}

func pickIssueType(types []jira.IssueType) string {
	if len(types) == 0 {
		return defaultIssueType
	}
	for _, preferred := range preferredIssueTypes {
		for _, t := range types {
			if t.Name == preferred {
				return preferred
			}
		}
	}
	return types[0].Name
}

func ticketDescription(in TicketInput, reporter Reporter, jiraUser *jira.User) jira.Document {
	var intro []jira.Document
	if in.Description != "" {
		intro = append(intro, jira.Text(in.Description))
	}
	status := "Jira user not found"
	if jiraUser != nil {
		status = fmt.Sprintf("Jira user found (%s)", jiraUser.DisplayName)
	}
	name := reporter.Name
	if name == "" {
		name = "N/A"
	}
	pageURL := in.PageURL
	if pageURL == "" {
		pageURL = "N/A"
	}

	items := []jira.Document{
		jira.LabeledItem("Reporter Status", status),
		jira.LabeledItem("Name", name),
		jira.LabeledItem("Email", reporter.Email),
	}
	if in.TemplateName != "" {
		items = append(items, jira.LabeledItem("Template", in.TemplateName))
	}
	items = append(items, jira.LabeledItem("Page URL", pageURL))

	return jira.Doc(
		jira.Paragraph(intro...),
		jira.Rule(),
		jira.Heading(3, "Reporter information"),
		jira.BulletList(items...),
	)
}

// CreateTicket files an issue on behalf of the reporter. Issue type and reporter lookup
// failures fall back to defaults; only the create call itself can fail the request.
func (s *JiraService) CreateTicket(ctx context.Context, reporter Reporter, in TicketInput) (*Ticket, error) {
	in.Summary = strings.TrimSpace(in.Summary)
	if in.Summary == "" {
		return nil, newError(ErrInvalidInput, "summary is required")
	}
	client := s.client()

	types, err := client.IssueTypes(ctx)
	if err != nil {
		if mapped := integrationError("Jira", err); errors.Is(mapped, ErrConfig) {
			return nil, mapped
		}
		configslog.Log.Warn("Jira issue types unavailable, using default", zap.Error(err))
	}
	jiraUser, err := client.FindUser(ctx, reporter.Email)
	if err != nil {
		configslog.Log.Warn("Jira reporter lookup failed", zap.String("email", reporter.Email), zap.Error(err))
		jiraUser = nil
	}

	priority, ok := jiraPriorities[in.Priority]
	if !ok {
		priority = defaultPriority
	}
	labels := []string{emailLabel(reporter.Email)}
	if in.TemplateName != "" {
		labels = append(labels, templateLabel(in.TemplateName))
	}
	fields := jira.IssueFields{
		Project:     map[string]string{"key": client.ProjectKey()},
		Summary:     in.Summary,
		Description: ticketDescription(in, reporter, jiraUser),
		IssueType:   jira.NamedField{Name: pickIssueType(types)},
		Priority:    jira.NamedField{Name: priority},
	}
	if jiraUser != nil {
		fields.Reporter = map[string]string{"id": jiraUser.AccountID}
		labels = append(labels, "reporter-found")
	} else {
		labels = append(labels, "reporter-not-found")
	}
	fields.Labels = labels

	created, err := client.CreateIssue(ctx, fields)
	if err != nil {
		configslog.Log.Error("Jira ticket creation failed", zap.String("email", reporter.Email), zap.Error(err))
		return nil, integrationError("Jira", err)
	}
	configslog.SLog.Infof("Jira ticket %s created for %s", created.Key, reporter.Email)
	return &Ticket{
		ID:          created.ID,
		JiraKey:     created.Key,
		Summary:     in.Summary,
		Status:      "Open",
		Priority:    in.Priority,
		Template:    in.TemplateName,
		Link:        client.BrowseURL(created.Key),
		ReporterSet: jiraUser != nil,
	}, nil
}

// ListTickets returns the tickets labelled with, or mentioning, the user's email.
func (s *JiraService) ListTickets(ctx context.Context, email string, page, limit int) (*TicketPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	client := s.client()
	jql := fmt.Sprintf(`project = %s AND (labels = "%s" OR text ~ "%s")`,
		client.ProjectKey(), emailLabel(email), strings.ReplaceAll(email, `"`, ""))

	result, err := client.Search(ctx, jql, (page-1)*limit, limit)
	if err != nil {
		return nil, integrationError("Jira", err)
	}

	tickets := make([]Ticket, 0, len(result.Issues))
	for _, issue := range result.Issues {
		t := Ticket{
			ID:        issue.ID,
			JiraKey:   issue.Key,
			Summary:   issue.Fields.Summary,
			Status:    "Open",
			Priority:  defaultPriority,
			CreatedAt: issue.Fields.Created,
			UpdatedAt: issue.Fields.Updated,
			Link:      client.BrowseURL(issue.Key),
		}
		if issue.Fields.Status != nil && issue.Fields.Status.Name != "" {
			t.Status = issue.Fields.Status.Name
		}
		if issue.Fields.Priority != nil && issue.Fields.Priority.Name != "" {
			t.Priority = issue.Fields.Priority.Name
		}
		if r := issue.Fields.Reporter; r != nil {
			t.Reporter = &TicketReporter{Name: r.DisplayName, Email: r.EmailAddress, AccountID: r.AccountID}
			t.ReporterSet = true
		}
		tickets = append(tickets, t)
	}
	return &TicketPage{
		Tickets: tickets,
		Pagination: TicketPagination{
			Total: result.Total,
			Page:  page,
			Limit: limit,
			Pages: int(math.Ceil(float64(result.Total) / float64(limit))),
		},
	}, nil
}
