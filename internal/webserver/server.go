package webserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"game-host/internal/activitylog"
	"game-host/internal/httpmsg"
)

// Dispatcher turns a request's method and path into a response.
type Dispatcher interface {
	Dispatch(ctx context.Context, method, link string) httpmsg.Message
}

// Notifier is told about every accepted connection.
type Notifier interface {
	Alive()
}

// acceptBackoff keeps a persistent accept error (EMFILE) from spinning.
const acceptBackoff = 50 * time.Millisecond

type Options struct {
	// RateLimit is requests per second per peer IP; zero disables limiting.
	// POST /Ping is never limited.
	RateLimit float64
	RateBurst int

	// ReadTimeout bounds the single request read. Zero waits forever.
	ReadTimeout time.Duration
	Activity    *activitylog.Logger
}

type Server struct {
	dispatcher Dispatcher
	alive      Notifier
	limiter    *peerLimiter
	opts       Options
}

func New(d Dispatcher, alive Notifier, opts Options) *Server {
	return &Server{
		dispatcher: d,
		alive:      alive,
		limiter:    newPeerLimiter(opts.RateLimit, opts.RateBurst),
		opts:       opts,
	}
}

// Serve accepts connections on ln until ctx is done, handling each one
// before accepting the next. It closes ln on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()
	defer ln.Close()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			slog.Warn("accept failed", "err", err)
			time.Sleep(acceptBackoff)
			continue
		}
		s.handle(ctx, conn)
	}
}

func (s *Server) handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	s.alive.Alive()

	reqID := activitylog.NewID()
	peer := conn.RemoteAddr().String()
	log := slog.With("req_id", reqID, "peer", peer)

	if s.opts.ReadTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout))
	}
	buf := make([]byte, httpmsg.MaxRequestSize)
	n, err := conn.Read(buf)
	if err != nil && n == 0 {
		log.Warn("read request failed", "err", err)
		return
	}
	method, link := httpmsg.ParseRequestLine(buf[:n])

	var msg httpmsg.Message
	if isPing(method, link) || s.limiter.Allow(peerIP(conn.RemoteAddr()), time.Now()) {
		msg = s.dispatcher.Dispatch(ctx, method, link)
	} else {
		msg = httpmsg.New(httpmsg.ServiceUnavailable, httpmsg.Text("Too many requests"))
	}

	out, sent := msg.Render()
	if _, err := conn.Write(out); err != nil {
		log.Warn("write response failed", "method", method, "link", link, "err", err)
		return
	}

	log.Info("request", "method", method, "link", link, "status", sent.Code())
	s.opts.Activity.Log(activitylog.Record{
		ID:     reqID,
		Type:   activitylog.TypeRequest,
		Peer:   peer,
		Method: method,
		Link:   link,
		Status: sent.Code(),
	})
}

// isPing reports the liveness route, which always answers OK.
func isPing(method, link string) bool {
	return method == "POST" && link == "/Ping"
}

func peerIP(addr net.Addr) string {
	if tcp, ok := addr.(*net.TCPAddr); ok {
		return tcp.IP.String()
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}
