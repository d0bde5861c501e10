package services

import (
	"errors"

	"formify.app/pkg/integrations"
)

// integrationError maps client errors of an external API onto the service taxonomy.
func integrationError(name string, err error) error {
	var statusErr *integrations.StatusError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, integrations.ErrNotConfigured):
		return newError(ErrConfig, "%s API configuration is incomplete", name)
	case errors.As(err, &statusErr):
		return &UpstreamError{Service: name, Status: statusErr.Status, Message: statusErr.Message}
	}
	return err
}
