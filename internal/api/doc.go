// Package api contains the HTTP handlers, request/response models, and
// error mapping for the StudyHall REST API. Handlers translate between
// HTTP and the service layer; they hold no business logic of their own.
package api
