package models

import "time"

// Todo is a task owned by a calendar day. Date is the local midnight of that
// day, not the creation time.
type Todo struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Date        int64  `json:"date"`
	IsCompleted bool   `json:"isCompleted"`
	CreatedAt   int64  `json:"createdAt"`
}

func (t Todo) Day() time.Time { return FromMillis(t.Date) }
