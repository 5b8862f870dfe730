// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements RedactingLogger, the production access logger. It is
// PII-aware by necessity: campaign links put target identifiers in the query
// string (userId, name on /record-behavior) and operators paste addresses
// into send requests, so the raw query and headers are scrubbed before any
// byte of them reaches a log line.
//
// Scrubbing happens in two passes:
//   - known-sensitive query parameters are masked wholesale by name
//     (userId, name, email, to_email, fullname, recipient)
//   - whatever remains is pattern-redacted (emails, UUIDs, phone numbers)
//     so PII in unexpected places still never lands in logs verbatim
//
// Sensitive headers (Authorization, Cookie, Set-Cookie, Idempotency-Key,
// X-Api-Key, plus opts.MaskHeaders) are fully replaced with "[REDACTED]".
//
// The middleware also attaches the request-scoped zerolog.Logger under the
// shared context key, so LoggerFrom(c) returns an enriched logger in the
// production stack without installing Logger() a second time.
package middleware

import (
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RedactOptions configures extra scrub behavior for RedactingLogger.
//
// MaskHeaders lists additional header names to fully mask; MaskParams lists
// additional query-parameter names whose values are fully masked. Both are
// case-insensitive and merged with the built-in sets.
type RedactOptions struct {
	MaskHeaders []string
	MaskParams  []string
}

// Parameter names whose values are always masked. These are the identifiers
// the campaign surface actually transports: tracking links carry the target,
// send requests carry the recipient.
var builtinMaskParams = []string{
	"userId", "name", "email", "to_email", "fullname", "recipient",
}

// Headers that are always masked. Idempotency-Key is client-chosen and has
// been observed carrying "<recipient>:<template>" style values.
var builtinMaskHeaders = []string{
	"authorization", "cookie", "set-cookie", "x-api-key", "idempotency-key",
}

// RedactingLogger returns the structured access logger with PII scrubbing.
//
// Per request it logs method, route path, scrubbed query, status, response
// size, latency, and scrubbed request headers, at a level chosen by outcome
// (info, warn for 4xx, error for 5xx). It must run after RequestID so the
// correlation id is available for the log line and for LoggerFrom callers.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	// Compiled once. UUIDs go before phones so the phone pattern cannot eat
	// the digit segments of an id.
	uuidRE := regexp.MustCompile(`(?i)\b[0-9a-f]{8}\-[0-9a-f]{4}\-[1-5][0-9a-f]{3}\-[89ab][0-9a-f]{3}\-[0-9a-f]{12}\b`)
	emailRE := regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+(?:@|%40)[a-z0-9.\-]+\.[a-z]{2,}\b`)
	phoneRE := regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`)

	scrub := func(s string) string {
		if s == "" {
			return s
		}
		out := uuidRE.ReplaceAllString(s, "[REDACTED:id]")
		out = emailRE.ReplaceAllString(out, "[REDACTED:email]")
		return phoneRE.ReplaceAllString(out, "[REDACTED:phone]")
	}

	// Masked query parameters, matched against the raw query by name so the
	// string never has to be parsed and re-encoded.
	maskParams := append(append([]string{}, builtinMaskParams...), opts.MaskParams...)
	for i, p := range maskParams {
		maskParams[i] = regexp.QuoteMeta(p)
	}
	paramRE := regexp.MustCompile(`(?i)(^|[&?])(` + strings.Join(maskParams, "|") + `)=[^&]*`)

	scrubQuery := func(q string) string {
		if q == "" {
			return q
		}
		return scrub(paramRE.ReplaceAllString(q, "$1$2=[REDACTED]"))
	}

	maskHeaders := make(map[string]struct{}, len(builtinMaskHeaders)+len(opts.MaskHeaders))
	for _, h := range builtinMaskHeaders {
		maskHeaders[h] = struct{}{}
	}
	for _, h := range opts.MaskHeaders {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			maskHeaders[h] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		start := time.Now()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		safeQuery := scrubQuery(c.Request.URL.RawQuery)

		safeHeaders := make(map[string]string, len(c.Request.Header))
		for k, vv := range c.Request.Header {
			if _, masked := maskHeaders[strings.ToLower(k)]; masked {
				safeHeaders[k] = "[REDACTED]"
				continue
			}
			safeHeaders[k] = scrub(strings.Join(vv, ", "))
		}

		rid := c.Writer.Header().Get(requestIDHeader)
		if rid == "" {
			rid = c.GetHeader(requestIDHeader)
		}

		// Request-scoped logger for handlers (LoggerFrom). Only safe fields.
		scoped := log.With().
			Str("request_id", rid).
			Str("method", c.Request.Method).
			Str("path", path).
			Logger()
		c.Set(loggerKey, &scoped)

		c.Next()

		status := c.Writer.Status()
		ev := scoped.Info()
		switch {
		case status >= 500:
			ev = scoped.Error()
		case status >= 400:
			ev = scoped.Warn()
		}

		ev.
			Str("query", safeQuery).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Interface("headers", safeHeaders).
			Msg("http_request")
	}
}
