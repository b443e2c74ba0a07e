package model

import "time"

type Review struct {
	UUID       string    `db:"uuid" json:"uuid"`
	Rating     int       `db:"rating" json:"rating"`
	ReviewText string    `db:"review_text" json:"review_text"`
	UserUUID   string    `db:"user_uuid" json:"user_uuid"`
	BookUUID   string    `db:"book_uuid" json:"book_uuid"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
