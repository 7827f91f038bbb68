/* Copyright 2025 Dnote Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/recallcards/recall/pkg/server/config"
	"github.com/recallcards/recall/pkg/server/log"
	"golang.org/x/time/rate"
)

const (
	// defaultRatePerSecond is the number of requests per second accepted from one IP
	defaultRatePerSecond = 20
	// defaultBurst is the burst capacity of a single IP
	defaultBurst = 40
	// visitorTTL is how long an idle visitor is remembered
	visitorTTL = 3 * time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter limits the rate of requests per client IP
type RateLimiter struct {
	ratePerSecond int
	burst         int

	visitors map[string]*visitor
	mtx      sync.Mutex
}

// NewRateLimiter returns a limiter allowing ratePerSecond requests per second
// from each IP with the given burst
func NewRateLimiter(ratePerSecond, burst int) *RateLimiter {
	return &RateLimiter{
		ratePerSecond: ratePerSecond,
		burst:         burst,
		visitors:      make(map[string]*visitor),
	}
}

var (
	defaultLimiter     *RateLimiter
	defaultLimiterOnce sync.Once
)

func getDefaultLimiter() *RateLimiter {
	defaultLimiterOnce.Do(func() {
		defaultLimiter = NewRateLimiter(defaultRatePerSecond, defaultBurst)
		go defaultLimiter.cleanupLoop(time.Minute)
	})

	return defaultLimiter
}

// getVisitor returns the limiter for the given identifier, adding a visitor
// if not seen before
func (rl *RateLimiter) getVisitor(identifier string, now time.Time) *rate.Limiter {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()

	v, ok := rl.visitors[identifier]
	if !ok {
		interval := time.Second / time.Duration(rl.ratePerSecond)
		v = &visitor{
			limiter: rate.NewLimiter(rate.Every(interval), rl.burst),
		}
		rl.visitors[identifier] = v
	}
	v.lastSeen = now

	return v.limiter
}

// cleanup forgets the visitors idle since before the cutoff
func (rl *RateLimiter) cleanup(cutoff time.Time) int {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()

	n := 0
	for identifier, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, identifier)
			n++
		}
	}

	return n
}

func (rl *RateLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		rl.cleanup(time.Now().Add(-visitorTTL))
	}
}

// lookupIP returns the IP of the client of the request
func lookupIP(r *http.Request) string {
	if forwardedFor := r.Header.Get("X-Forwarded-For"); forwardedFor != "" {
		parts := strings.Split(forwardedFor, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}

// Limit is a middleware to rate limit the handler
func (rl *RateLimiter) Limit(next http.Handler) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identifier := lookupIP(r)
		limiter := rl.getVisitor(identifier, time.Now())

		if !limiter.Allow() {
			log.WithFields(log.Fields{
				"ip": identifier,
			}).Warn("too many requests")
			RespondError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ApplyLimit applies the shared rate limit to the handler unless the app
// runs under test
func ApplyLimit(h http.HandlerFunc, rateLimit bool, appEnv string) http.Handler {
	var ret http.Handler = h

	if rateLimit && appEnv != config.AppEnvTest {
		ret = getDefaultLimiter().Limit(ret)
	}

	return ret
}
