// Package ideas provides the persistence layer for captured ideas.
//
// # Overview
//
// The package defines a Repository interface for CRUD and query operations on
// models.Idea. SQLRepository implements it over a dbx.DBTX (either *sql.DB or
// *sql.Tx) for both supported dialects; queries are written once with '?'
// placeholders and rebound for PostgreSQL.
//
// # Ordering and ranges
//
// Listings are ordered by created_at DESC. Range queries are half-open:
// created_at >= start AND created_at < end, both in epoch milliseconds.
//
// # Search
//
// Search matches the title or the plain text of the body case-insensitively.
// Both are folded with strings.ToLower into the search_text column, kept in
// sync on every insert and update, so non-ASCII letters match too.
//
// Typical Usage
//
//	repo := ideas.NewSQLiteRepository(db)
//	id, _ := repo.Insert(ctx, idea)
//	list, _ := repo.Search(ctx, "garden")
//	_ = repo.IncrementUpCount(ctx, id, time.Now().UnixMilli())
package ideas
