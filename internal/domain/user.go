package domain

import "time"

type User struct {
	Email        string    `json:"email"`
	FullName     string    `json:"fullName"`
	ClaimedGifts []Gift    `json:"claimedGifts"`
	CreatedAt    time.Time `json:"-"`
}

// NewUser is what the persistence layer stores on sign-up. PasswordHash
// is already hashed.
type NewUser struct {
	Email        string
	PasswordHash string
	FullName     string
}

type SignUpFormData struct {
	Email    string
	Password string
	FullName string
}

type SignInCreds struct {
	Email    string
	Password string
}
