package client

import (
	"context"
	"time"
)

// RegisterRequest describes a new account. AvatarPath, when set, is sent as
// a multipart upload.
type RegisterRequest struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	Headline    string `json:"headline,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
	AvatarPath  string `json:"-"`
}

// User is the account summary returned by login.
type User struct {
	ID             string  `json:"id"`
	FullName       string  `json:"fullName"`
	Email          string  `json:"email"`
	Role           string  `json:"role"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
	IsVerified     bool    `json:"isVerified"`
}

// Principal is the identity the server resolved for the current session.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type Session struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Client interface {
	Register(ctx context.Context, req RegisterRequest) (string, error)
	VerifyOTP(ctx context.Context, email, otp string) error
	ResendOTP(ctx context.Context, email string) error
	Login(ctx context.Context, email string, password []byte) (*Session, error)
	CurrentUser(ctx context.Context) (*Principal, error)
	Logout(ctx context.Context) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token string, password []byte) error
	Ping(ctx context.Context) error
}
