package model

import "time"

type GmailToken struct {
	UserID       string    `db:"user_id" json:"user_id"`
	AccessToken  string    `db:"access_token" json:"-"`
	RefreshToken string    `db:"refresh_token" json:"-"`
	TokenType    string    `db:"token_type" json:"token_type"`
	Expiry       time.Time `db:"expiry" json:"expiry"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
