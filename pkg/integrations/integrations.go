// Package integrations holds the HTTP plumbing shared by the external API clients.
package integrations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

// ErrNotConfigured is returned before any network call when required settings are missing.
var ErrNotConfigured = errors.New("configuration is incomplete")

// StatusError is a non-2xx upstream response, or a transport failure with Status 0.
type StatusError struct {
	Service string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Service, e.Message)
	}
	return fmt.Sprintf("%s returned %d: %s", e.Service, e.Status, e.Message)
}

// Do sends the prepared agent and returns the status and body. The effective timeout is
// the smaller of timeout and the time left on ctx. The agent is released.
func Do(ctx context.Context, service string, agent *fiber.Agent, timeout time.Duration) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		fiber.ReleaseAgent(agent)
		return 0, nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); timeout <= 0 || left < timeout {
			timeout = left
		}
	}
	if timeout > 0 {
		agent.Timeout(timeout)
	}
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return 0, nil, &StatusError{Service: service, Message: err.Error()}
	}
	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return 0, nil, &StatusError{Service: service, Message: errors.Join(errs...).Error()}
	}
	return code, append([]byte(nil), body...), nil
}

// IsSuccess reports a 2xx status.
func IsSuccess(code int) bool {
	return code >= 200 && code < 300
}
