// Package postgres contains the PostgreSQL implementations of the store
// interfaces, reached through database/sql over the pgx stdlib driver.
package postgres
