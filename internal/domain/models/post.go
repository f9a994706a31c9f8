package model

import (
	"unicode/utf8"

	"github.com/jackc/pgx/v5/pgtype"
)

type Post struct {
	ID       int64              `json:"id"`
	Text     string             `json:"text"`
	PubDate  pgtype.Timestamptz `json:"pub_date"`
	AuthorID int64              `json:"author_id"`
	GroupID  *int64             `json:"group_id,omitempty"`
}

// Excerpt returns at most n runes of the post text.
func (p *Post) Excerpt(n int) string {
	if utf8.RuneCountInString(p.Text) <= n {
		return p.Text
	}
	runes := []rune(p.Text)
	return string(runes[:n])
}
