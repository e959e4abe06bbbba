// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"crypto/subtle"
	"net/http"
)

// APIKey guards the admin API with a static key check. The client sends
// the key in the X-API-KEY header; any key from the configured list is
// accepted. With an empty list every request is rejected, so a server
// deployed without keys exposes no admin surface.
func APIKey(keys []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := r.Header.Get("X-API-KEY")
			if presented == "" || !keyMatches(presented, keys) {
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"message":"Unauthorized"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// keyMatches compares in constant time to avoid leaking key prefixes
// through response timing.
func keyMatches(presented string, keys []string) bool {
	match := false
	for _, key := range keys {
		if subtle.ConstantTimeCompare([]byte(presented), []byte(key)) == 1 {
			match = true
		}
	}
	return match
}
