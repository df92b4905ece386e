// Package services holds the journal's use cases: capturing and curating
// ideas, day-scoped todos and the saved backup target.
package services
