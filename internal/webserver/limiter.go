package webserver

import (
	"time"

	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL    = 10 * time.Minute
	limiterSweepEvery = 256
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// peerLimiter rate limits by remote IP. Only the accept loop touches it.
type peerLimiter struct {
	limit rate.Limit
	burst int

	clients map[string]*clientLimiter
	calls   int
}

func newPeerLimiter(perSecond float64, burst int) *peerLimiter {
	if perSecond <= 0 {
		return nil
	}
	return &peerLimiter{
		limit:   rate.Limit(perSecond),
		burst:   burst,
		clients: map[string]*clientLimiter{},
	}
}

// Allow is always true on a nil limiter.
func (p *peerLimiter) Allow(ip string, now time.Time) bool {
	if p == nil {
		return true
	}
	p.calls++
	if p.calls%limiterSweepEvery == 0 {
		p.sweep(now)
	}

	entry, ok := p.clients[ip]
	if !ok {
		entry = &clientLimiter{limiter: rate.NewLimiter(p.limit, p.burst)}
		p.clients[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

func (p *peerLimiter) sweep(now time.Time) {
	for ip, entry := range p.clients {
		if now.Sub(entry.lastSeen) > limiterIdleTTL {
			delete(p.clients, ip)
		}
	}
}
