// Package domain defines the core business entities of the task tracker:
// users with their access roles, tasks with their workflow statuses, and
// the notification records produced by task status transitions.
package domain
