// Package api contains the HTTP handlers for the application's pages and
// form posts. Handlers resolve the current user from the request context,
// call into the stores or services, and answer with either JSON view data
// or a 303 redirect carrying a flash message.
package api
