// Package service contains the operations that compose multiple store calls
// or add policy on top of them: registration and login, the transactional
// delete cascades, and dashboard statistics assembly. Simple owner-scoped
// CRUD goes straight from the handlers to the stores.
package service
