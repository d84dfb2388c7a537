package users

import "errors"

var ErrUserNotFound = errors.New("user not found")

type User struct {
	ID       int    `json:"id"`
	UserName string `json:"userName"`
	// the bcrypt hash never leaves the service
	PasswordHash string `json:"-"`
}

// UserUpdate carries a partial update, nil fields stay as they are. A
// new password comes in plain and is hashed before storage.
type UserUpdate struct {
	UserName *string `json:"userName,omitempty"`
	Password *string `json:"password,omitempty"`
}
