package models

import "time"

// Comment — неизменяемый комментарий: либо вложенный в News.Comments,
// либо элемент глобального потока.
type Comment struct {
	ID        string
	Author    string
	Text      string
	Timestamp time.Time
}
