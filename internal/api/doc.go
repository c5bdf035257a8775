// Package api implements the HTTP surface: request validation, error
// sanitization, and the routing that maps endpoints onto the service
// layer.
package api
