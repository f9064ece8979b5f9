// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterCache keeps a token-bucket limiter per client IP. Entries idle
// for over an hour are evicted by a background sweep.
type limiterCache struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	rps      rate.Limit
	burst    int
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLimiterCache(rps float64, burst int) *limiterCache {
	c := &limiterCache{
		limiters: make(map[string]*limiterEntry),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
	go c.sweep()
	return c
}

func (c *limiterCache) get(ip string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.limiters[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(c.rps, c.burst)}
		c.limiters[ip] = e
	}
	e.lastSeen = time.Now()
	return e.limiter
}

func (c *limiterCache) sweep() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-time.Hour)
		c.mu.Lock()
		for ip, e := range c.limiters {
			if e.lastSeen.Before(cutoff) {
				delete(c.limiters, ip)
			}
		}
		c.mu.Unlock()
	}
}

// RateLimit returns middleware that throttles requests per client IP.
// Intended for the login endpoint to slow credential stuffing.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	cache := newLimiterCache(rps, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			if !cache.get(ip).Allow() {
				writeJSONError(w, http.StatusTooManyRequests, "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
