package model

import "time"

type Book struct {
	UUID          string    `db:"uuid" json:"uuid"`
	Title         string    `db:"title" json:"title"`
	Author        string    `db:"author" json:"author"`
	Publisher     string    `db:"publisher" json:"publisher"`
	PublishedDate string    `db:"published_date" json:"published_date"`
	PageCount     int       `db:"page_count" json:"page_count"`
	Language      string    `db:"language" json:"language"`
	UserUUID      string    `db:"user_uuid" json:"user_uuid"`
	CoverKey      string    `db:"cover_key" json:"cover_key,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// BookDetail : книга вместе с отзывами и тегами
type BookDetail struct {
	Book
	Reviews []*Review `json:"reviews"`
	Tags    []*Tag    `json:"tags"`
}
