package models

import "time"

// Avatar holds the uploaded profile image reference. The backend persists it
// as-is; interpreting the storage key is the storage layer's business.
type Avatar struct {
	StorageID string `json:"storageId"`
	URL       string `json:"url"`
}

// User represents a user record in DB (internal use only).
type User struct {
	ID           int64     `json:"id"`
	StudentID    string    `json:"student_id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Birthday     time.Time `json:"birthday"`
	PasswordHash string    `json:"-"`
	Avatar       *Avatar   `json:"avatar,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicUser is the projection of a User safe to return to clients.
// It never carries the password hash.
type PublicUser struct {
	ID        int64   `json:"id"`
	StudentID string  `json:"studentId"`
	Email     string  `json:"email"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Birthday  string  `json:"birthday"`
	Avatar    *Avatar `json:"avatar,omitempty"`
}

// Public returns the client-facing projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		StudentID: u.StudentID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Birthday:  u.Birthday.Format("2006-01-02"),
		Avatar:    u.Avatar,
	}
}

// SignupRequest holds the data for creating a new account.
type SignupRequest struct {
	StudentID string `json:"studentId" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Birthday  string `json:"birthday" validate:"required,datetime=2006-01-02"`
	Password  string `json:"password" validate:"required,min=8"`
}

// LoginRequest represents credentials provided by the client.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned upon successful authentication.
type LoginResponse struct {
	Token     string     `json:"token"`
	User      PublicUser `json:"user"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// UpdateProfileRequest carries optional profile edits.
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,min=1"`
	LastName  *string `json:"lastName,omitempty" validate:"omitempty,min=1"`
	Birthday  *string `json:"birthday,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// ChangePasswordRequest carries a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

// SetAvatarRequest persists an uploaded avatar reference on the profile.
type SetAvatarRequest struct {
	StorageID string `json:"storageId" validate:"required"`
	URL       string `json:"url" validate:"required,url"`
}

// MsgResponse is the simple message shape for API responses.
type MsgResponse struct {
	Msg string `json:"msg"`
}

// ErrorResponse is a simple error shape for API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}
