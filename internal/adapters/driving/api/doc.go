// Package api provides the HTTP driving adapter. It exposes the query
// service over a small JSON API served by Fiber.
package api
