// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import "net/http"

// contentSecurityPolicy allows the YouTube player iframe and images from any
// https origin (thumbnails and uploaded covers live on other hosts).
const contentSecurityPolicy = "default-src 'self'; " +
	"img-src 'self' https: data:; " +
	"frame-src https://www.youtube.com https://www.youtube-nocookie.com; " +
	"script-src 'self' https://unpkg.com https://cdn.tailwindcss.com; " +
	"style-src 'self' 'unsafe-inline'; " +
	"object-src 'none'; base-uri 'self'"

// SecureHeaders adds security-related HTTP headers to every response.
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()

		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "SAMEORIGIN")

		// Legacy XSS filter off; CSP covers it.
		h.Set("X-XSS-Protection", "0")

		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "interest-cohort=()")
		h.Set("Content-Security-Policy", contentSecurityPolicy)

		next.ServeHTTP(w, r)
	})
}
