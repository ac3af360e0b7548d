package router

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"game-host/internal/hostable"
	"game-host/internal/httpmsg"
	"game-host/internal/power"
	"game-host/internal/registry"
)

//go:embed static/favicon.ico
var favicon []byte

const pingReply = "Ping successful"

// Shutdowner powers the host down.
type Shutdowner interface {
	Shutdown(ctx context.Context) power.Result
}

type Dispatcher struct {
	reg         *registry.Registry
	power       Shutdowner
	landingPage string
}

func New(reg *registry.Registry, p Shutdowner, landingPage string) *Dispatcher {
	return &Dispatcher{reg: reg, power: p, landingPage: landingPage}
}

func (d *Dispatcher) Dispatch(ctx context.Context, method, link string) httpmsg.Message {
	switch method {
	case "GET":
		return d.get(ctx, link)
	case "POST":
		return d.post(ctx, link)
	default:
		slog.Debug("method not available", "method", method)
		return httpmsg.New(httpmsg.NotFound, httpmsg.Text("Unknown method: "+method))
	}
}

// segments splits "/a/b/..." into its first two segments.
func segments(link string) (first, second string) {
	parts := strings.Split(strings.TrimPrefix(link, "/"), "/")
	first = parts[0]
	if len(parts) > 1 {
		second = parts[1]
	}
	return first, second
}

func unknownLink(method, link string) httpmsg.Message {
	slog.Debug("link not accessible", "method", method, "link", link)
	return httpmsg.New(httpmsg.NotFound, httpmsg.Text(fmt.Sprintf("Unknown %s link: %s", method, link)))
}

func (d *Dispatcher) get(ctx context.Context, link string) httpmsg.Message {
	switch link {
	case "/":
		return httpmsg.New(httpmsg.OK, httpmsg.File(d.landingPage))
	case "/favicon.ico":
		return httpmsg.New(httpmsg.OK, httpmsg.RawBytes(favicon))
	case "/available-servers":
		b, err := json.Marshal(d.reg.Paths())
		if err != nil {
			return httpmsg.FromError(err)
		}
		return httpmsg.New(httpmsg.OK, httpmsg.Struct(string(b)))
	}

	first, second := segments(link)
	if first == "file" {
		return d.file(link)
	}

	s, ok := d.reg.Lookup(first)
	if !ok {
		return unknownLink("GET", link)
	}
	switch second {
	case "get_status":
		return status(ctx, s)
	case "update.js":
		return httpmsg.New(httpmsg.OK, httpmsg.File(filepath.Join(s.Path(), "update.js")))
	default:
		return unknownLink("GET", link)
	}
}

// file serves /file/<path>, relative to the working directory.
func (d *Dispatcher) file(link string) httpmsg.Message {
	rel := strings.TrimPrefix(link, "/file/")
	if rel == link || rel == "" {
		return httpmsg.New(httpmsg.NotFound, httpmsg.Text("File Not Found: "+link))
	}
	if !filepath.IsLocal(rel) {
		return httpmsg.New(httpmsg.NotFound, httpmsg.Text("File Not Found: "+link))
	}
	info, err := os.Stat(rel)
	if err != nil {
		return httpmsg.FromError(err)
	}
	if info.IsDir() {
		return httpmsg.FromError(fmt.Errorf("%s is a directory", rel))
	}
	return httpmsg.New(httpmsg.OK, httpmsg.File(rel))
}

func status(ctx context.Context, s hostable.Server) httpmsg.Message {
	if err := s.UpdateStatus(ctx); err != nil {
		slog.Warn("update status failed", "server", s.Path(), "err", err)
		return httpmsg.FromError(err)
	}
	b, err := s.ToJSON()
	if err != nil {
		return httpmsg.FromError(err)
	}
	return httpmsg.New(httpmsg.OK, httpmsg.Struct(string(b)))
}

func (d *Dispatcher) post(ctx context.Context, link string) httpmsg.Message {
	switch link {
	case "/Shutdown":
		res := d.power.Shutdown(ctx)
		if !res.OK {
			return httpmsg.New(httpmsg.ServiceUnavailable, httpmsg.Text(res.Message))
		}
		return httpmsg.New(httpmsg.OK, httpmsg.Text(res.Message))
	case "/Ping":
		return httpmsg.New(httpmsg.OK, httpmsg.Text(pingReply))
	}

	first, second := segments(link)
	s, ok := d.reg.Lookup(first)
	if !ok {
		return unknownLink("POST", link)
	}

	var action func(context.Context) error
	switch second {
	case "start":
		action = s.Start
	case "stop":
		action = s.Stop
	case "restart":
		action = s.Restart
	default:
		return unknownLink("POST", link)
	}
	if err := action(ctx); err != nil {
		slog.Warn("server action failed", "server", s.Path(), "action", second, "err", err)
		return httpmsg.FromError(err)
	}
	slog.Info("server action done", "server", s.Path(), "action", second)
	return httpmsg.Ok()
}
