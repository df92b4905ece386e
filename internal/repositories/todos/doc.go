// Package todos persists day-scoped to-do items.
//
// The due_date column holds the local midnight of the owning day in epoch
// milliseconds. Listings are ordered by created_at ASC and range queries on
// due_date are half-open.
package todos
