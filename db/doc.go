// Package db implements how the backend stores and retrieves its journal of confirmed writes.
// Supported storage: mongoDB
package db
