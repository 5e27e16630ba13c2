// Package server hosts the HTTP surface: a Gin engine on a root mux, served
// with h2c, wrapped in net/http middleware (server/middleware) and carrying
// the probe endpoints (server/endpoint). API routes live in package api.
package server
