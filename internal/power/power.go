// Package power shuts the host machine down and reports the outcome to an
// optional notification endpoint (ntfy.sh or anything accepting a POST body).
package power

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"game-host/internal/hostable"
)

const notifyTimeout = 10 * time.Second

// Result is the outcome of one shutdown attempt.
type Result struct {
	OK      bool
	Message string
}

type Controller struct {
	runner    hostable.Runner
	command   []string
	notifyURL string
	client    *http.Client
	goos      string
}

func NewController(r hostable.Runner, command []string, notifyURL string) *Controller {
	return &Controller{
		runner:    r,
		command:   command,
		notifyURL: notifyURL,
		client:    &http.Client{Timeout: notifyTimeout},
		goos:      runtime.GOOS,
	}
}

// Shutdown runs the configured shutdown command. The classic `shutdown`
// schedules power-off a minute later, so this returns before the host goes away.
func (c *Controller) Shutdown(ctx context.Context) Result {
	if c.goos != "linux" {
		return Result{Message: fmt.Sprintf("shutting down is not supported on %s", c.goos)}
	}

	_, err := c.runner.Run(ctx, c.command[0], c.command[1:]...)
	if err != nil {
		slog.Error("host shutdown failed", "err", err)
		c.notify(ctx, "Failed to shut the game host down:\r\n"+err.Error())
		return Result{Message: err.Error()}
	}

	slog.Warn("host shutdown requested", "command", c.command)
	c.notify(ctx, "Shutting the game host down :(")
	return Result{OK: true, Message: "Shutting the server down"}
}

func (c *Controller) notify(ctx context.Context, text string) {
	if c.notifyURL == "" {
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.notifyURL, bytes.NewBufferString(text))
	if err != nil {
		slog.Warn("build shutdown notification failed", "url", c.notifyURL, "err", err)
		return
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	resp, err := c.client.Do(req)
	if err != nil {
		slog.Warn("shutdown notification failed", "url", c.notifyURL, "err", err)
		return
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= 300 {
		slog.Warn("shutdown notification rejected", "url", c.notifyURL, "status", resp.StatusCode)
	}
}
