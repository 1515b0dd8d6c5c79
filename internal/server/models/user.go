package models

import "time"

type User struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash []byte
	Role         string
	CreatedAt    time.Time
}
