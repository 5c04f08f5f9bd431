package middleware

import "net/http"

// NewMaxBodySizeHandler returns a middleware that limits incoming request
// bodies to limit bytes. The only body-carrying endpoint here is login, so
// anything beyond a small limit is abuse. An oversized body surfaces as a
// *http.MaxBytesError from the handler's JSON decode, which the handler
// maps to 413 Request Entity Too Large.
func NewMaxBodySizeHandler(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
