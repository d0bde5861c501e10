package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"formify.app/configs"
	"formify.app/configs/configslog"
	"formify.app/models"
	"formify.app/pkg/integrations/salesforce"
	"formify.app/repositories"

	"go.uber.org/zap"
)

type SalesforceLinkInput struct {
	AccountName      string `json:"accountName"`
	ContactFirstName string `json:"contactFirstName"`
	ContactLastName  string `json:"contactLastName"`
	ContactEmail     string `json:"contactEmail"`
	ContactPhone     string `json:"contactPhone"`
	ContactTitle     string `json:"contactTitle"`
	UserID           uint   `json:"userId"`
}

type SalesforceLink struct {
	Account salesforce.Record `json:"account"`
	Contact salesforce.Record `json:"contact"`
}

type SalesforceStatus struct {
	IsSynced bool              `json:"isSynced"`
	Message  string            `json:"message,omitempty"`
	Account  salesforce.Record `json:"account,omitempty"`
	Contact  salesforce.Record `json:"contact,omitempty"`
}

// ISalesforceService links user accounts to Salesforce contacts.
type ISalesforceService interface {
	Link(ctx context.Context, actor Actor, in SalesforceLinkInput) (*SalesforceLink, error)
	Status(ctx context.Context, actor Actor, userID uint) (*SalesforceStatus, error)
	Unlink(ctx context.Context, actor Actor, userID uint) error
}

// SalesforceService is the REST backed ISalesforceService.
type SalesforceService struct {
	users  repositories.IUserRepository
	client func() *salesforce.Client
}

// NewSalesforceService reads credentials from the loaded config.
func NewSalesforceService() ISalesforceService {
	return &SalesforceService{
		users: repositories.NewUserRepository(),
		client: func() *salesforce.Client {
			conf := configs.Conf()
			return salesforce.New(salesforce.Config{
				LoginURL:      conf.Salesforce.LoginURL,
				ClientID:      conf.Salesforce.ClientID,
				ClientSecret:  conf.Salesforce.ClientSecret,
				Username:      conf.Salesforce.Username,
				Password:      conf.Salesforce.Password,
				SecurityToken: conf.Salesforce.SecurityToken,
				APIVersion:    conf.Salesforce.APIVersion,
				Timeout:       conf.HTTP.Timeout,
			})
		},
	}
}

// NewSalesforceServiceWith builds the service over an existing client.
func NewSalesforceServiceWith(users repositories.IUserRepository, client *salesforce.Client) ISalesforceService {
	return &SalesforceService{users: users, client: func() *salesforce.Client { return client }}
}

// targetUser resolves the user an actor operates on; 0 means the actor.
func (s *SalesforceService) targetUser(ctx context.Context, actor Actor, userID uint) (*models.User, error) {
	if actor.ID == 0 {
		return nil, newError(ErrUnauthorized, "login required")
	}
	if userID == 0 {
		userID = actor.ID
	}
	if !actor.CanManage(userID) {
		return nil, newError(ErrForbidden, "you cannot manage this user's CRM link")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, newError(ErrNotFound, "user not found")
		}
		return nil, err
	}
	return user, nil
}

func (s *SalesforceService) Link(ctx context.Context, actor Actor, in SalesforceLinkInput) (*SalesforceLink, error) {
	if strings.TrimSpace(in.AccountName) == "" || strings.TrimSpace(in.ContactFirstName) == "" ||
		strings.TrimSpace(in.ContactLastName) == "" || strings.TrimSpace(in.ContactEmail) == "" {
		return nil, newError(ErrInvalidInput, "some required fields are missing")
	}
	if _, err := mail.ParseAddress(in.ContactEmail); err != nil {
		return nil, newError(ErrInvalidInput, "invalid contact email")
	}
	user, err := s.targetUser(ctx, actor, in.UserID)
	if err != nil {
		return nil, err
	}

	conn, err := s.client().Connect(ctx)
	if err != nil {
		return nil, integrationError("Salesforce", err)
	}
	accountID, err := conn.Create(ctx, "Account", salesforce.Record{"Name": in.AccountName})
	if err != nil {
		return nil, integrationError("Salesforce", err)
	}
	contactID, err := conn.Create(ctx, "Contact", salesforce.Record{
		"FirstName": in.ContactFirstName,
		"LastName":  in.ContactLastName,
		"Email":     in.ContactEmail,
		"Phone":     in.ContactPhone,
		"Title":     in.ContactTitle,
		"AccountId": accountID,
	})
	if err != nil {
		return nil, integrationError("Salesforce", err)
	}

	if err := s.users.Update(ctx, user.ID, map[string]interface{}{
		"salesforce_account_id":     accountID,
		"salesforce_contact_id":     contactID,
		"is_synced_with_salesforce": true,
	}); err != nil {
		configslog.Log.Error("Storing Salesforce linkage failed", zap.Uint("user", user.ID), zap.Error(err))
		return nil, err
	}
	configslog.SLog.Infof("User %d synced with Salesforce (account %s)", user.ID, accountID)
	return &SalesforceLink{
		Account: salesforce.Record{"id": accountID, "success": true},
		Contact: salesforce.Record{"id": contactID, "success": true},
	}, nil
}

func (s *SalesforceService) Status(ctx context.Context, actor Actor, userID uint) (*SalesforceStatus, error) {
	user, err := s.targetUser(ctx, actor, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsSyncedWithSalesforce || user.SalesforceAccountID == nil || user.SalesforceContactID == nil {
		return &SalesforceStatus{IsSynced: false, Message: "User is not synced with Salesforce"}, nil
	}

	conn, err := s.client().Connect(ctx)
	if err != nil {
		return nil, integrationError("Salesforce", err)
	}
	account, err := conn.Retrieve(ctx, "Account", *user.SalesforceAccountID)
	if err != nil {
		return nil, integrationError("Salesforce", err)
	}
	contact, err := conn.Retrieve(ctx, "Contact", *user.SalesforceContactID)
	if err != nil {
		return nil, integrationError("Salesforce", err)
	}
	return &SalesforceStatus{IsSynced: true, Account: account, Contact: contact}, nil
}

// Unlink deletes the CRM records, contact first. Failures there are logged and the local
// linkage is cleared regardless.
func (s *SalesforceService) Unlink(ctx context.Context, actor Actor, userID uint) error {
	user, err := s.targetUser(ctx, actor, userID)
	if err != nil {
		return err
	}
	if !user.IsSyncedWithSalesforce {
		return newError(ErrNotFound, "User is not synced with Salesforce")
	}

	conn, err := s.client().Connect(ctx)
	if err != nil {
		return integrationError("Salesforce", err)
	}
	if user.SalesforceContactID != nil {
		if err := conn.Destroy(ctx, "Contact", *user.SalesforceContactID); err != nil {
			configslog.Log.Warn("Deleting Salesforce contact failed", zap.String("id", *user.SalesforceContactID), zap.Error(err))
		}
	}
	if user.SalesforceAccountID != nil {
		if err := conn.Destroy(ctx, "Account", *user.SalesforceAccountID); err != nil {
			configslog.Log.Warn("Deleting Salesforce account failed", zap.String("id", *user.SalesforceAccountID), zap.Error(err))
		}
	}

	if err := s.users.Update(ctx, user.ID, map[string]interface{}{
		"salesforce_account_id":     nil,
		"salesforce_contact_id":     nil,
		"is_synced_with_salesforce": false,
	}); err != nil {
		return err
	}
	configslog.SLog.Infof("User %d unlinked from Salesforce", user.ID)
	return nil
}
