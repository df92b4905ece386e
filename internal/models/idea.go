// Package models defines the records MindStitch stores and exchanges:
// ideas, day-scoped todos, the backup manifest and the saved remote profile.
package models

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/mindstitch/internal/content"
)

const (
	DefaultFolder   = "Default"
	DefaultIdeaType = "TEXT"

	MinRating = 0
	MaxRating = 5
)

// Idea is a captured note. ContentBlocks holds the encoded body
// (see package content); timestamps are epoch milliseconds.
type Idea struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	ContentBlocks string `json:"contentBlocks"`
	Type          string `json:"type"`
	Tags          string `json:"tags"`
	Folder        string `json:"folder"`
	Rating        int    `json:"rating"`
	UpCount       int    `json:"upCount"`
	CreatedAt     int64  `json:"createdAt"`
	UpdatedAt     int64  `json:"updatedAt"`
}

// NewIdea returns an idea with the storage defaults applied and both
// timestamps set to now.
func NewIdea(title string, blocks []content.Block, now time.Time) Idea {
	ms := Millis(now)
	return Idea{
		Title:         title,
		ContentBlocks: content.Encode(blocks),
		Type:          DefaultIdeaType,
		Folder:        DefaultFolder,
		CreatedAt:     ms,
		UpdatedAt:     ms,
	}
}

// Blocks decodes the idea body.
func (i Idea) Blocks() []content.Block {
	return content.Decode(i.ContentBlocks)
}

// SetBlocks replaces the encoded body.
func (i *Idea) SetBlocks(blocks []content.Block) {
	i.ContentBlocks = content.Encode(blocks)
}

func (i Idea) HasImages() bool {
	return content.HasImages(i.Blocks())
}

func (i Idea) TextContent() string {
	return content.TextContent(i.Blocks())
}

// TagList splits the comma-joined tags, dropping blanks.
func (i Idea) TagList() []string {
	var out []string
	for _, t := range strings.Split(i.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// JoinTags is the inverse of TagList.
func JoinTags(tags []string) string {
	clean := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			clean = append(clean, t)
		}
	}
	return strings.Join(clean, ",")
}

func (i Idea) Created() time.Time { return FromMillis(i.CreatedAt) }
func (i Idea) Updated() time.Time { return FromMillis(i.UpdatedAt) }

// ValidRating reports whether r is within the star range.
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}
