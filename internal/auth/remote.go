package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portfolio/internal/observability"

	"github.com/gofiber/fiber/v2"
)

const defaultRemoteTimeout = 5 * time.Second

// RemoteVerifier posts the token to the auth server. The token is authenticated
// exactly when the server answers 2xx with a JSON body whose code is 200.
type RemoteVerifier struct {
	url     string
	timeout time.Duration
}

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewRemoteVerifier returns a verifier calling url.
func NewRemoteVerifier(url string, timeout time.Duration) *RemoteVerifier {
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}
	return &RemoteVerifier{url: url, timeout: timeout}
}

func (v *RemoteVerifier) Verify(ctx context.Context, token string) (ok bool, err error) {
	_, span := observability.StartClientSpan(ctx, "auth-server", "authenticateUsingToken")
	defer func() { observability.EndSpan(span, err) }()

	timeout := v.timeout
	if deadline, has := ctx.Deadline(); has {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false, context.DeadlineExceeded
		}
		timeout = min(timeout, remaining)
	}

	agent := fiber.Post(v.url)
	agent.JSON(verifyRequest{Token: token})
	agent.Timeout(timeout)
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return false, fmt.Errorf("auth request: %w", err)
	}

	var resp verifyResponse
	status, _, errs := agent.Struct(&resp)
	switch {
	case status == 0:
		return false, fmt.Errorf("auth request: %w", errors.Join(errs...))
	case status >= fiber.StatusInternalServerError:
		return false, fmt.Errorf("auth server returned HTTP %d", status)
	case status < fiber.StatusOK || status >= fiber.StatusMultipleChoices:
		return false, nil
	case len(errs) > 0:
		return false, fmt.Errorf("auth response: %w", errors.Join(errs...))
	}
	return resp.Code == fiber.StatusOK, nil
}
