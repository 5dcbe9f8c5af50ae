// Package api provides the HTTP handlers for the task tracking API:
// authentication, user accounts, tasks, and notifications. Handlers decode
// and validate requests, delegate to the service layer, and translate
// internal errors into sanitized HTTP responses through the shared error
// mapping.
package api
