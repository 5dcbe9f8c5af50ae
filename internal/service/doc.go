// Package service contains the application services: the task service with
// its role-gated transition engine, and the user service with its
// role-hierarchy rules. Services depend on the store interfaces and on the
// authz capability policy, and emit transition events to a registered
// observer.
package service
