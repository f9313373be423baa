// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import "net/http"

// SecureHeaders sets the browser security headers on every response,
// pages and API alike.
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()

		// No MIME sniffing of the served Content-Type.
		h.Set("X-Content-Type-Options", "nosniff")

		// Board pages must not be framed from other origins.
		h.Set("X-Frame-Options", "SAMEORIGIN")

		// The legacy XSS filter stays off.
		h.Set("X-XSS-Protection", "0")

		// Cross-origin requests get the origin only.
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

		h.Set("Permissions-Policy", "interest-cohort=()")

		next.ServeHTTP(w, r)
	})
}
