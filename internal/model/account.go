package model

import (
	"time"

	"github.com/google/uuid"
)

// User is an account owner. Each owner registers their own employees and
// configures their own notification channels.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// AccountSettings holds an owner's notification channel credentials. An empty
// field means the channel is not configured; a channel is active only when
// all of its fields are set.
type AccountSettings struct {
	Gmail         string    `json:"gmail,omitempty"`
	GmailPassword string    `json:"gmail_password,omitempty"`
	NotifyEmail   string    `json:"notify_email,omitempty"`
	TelegramToken string    `json:"telegram_token,omitempty"`
	TelegramChat  string    `json:"telegram_chat,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (s *AccountSettings) EmailActive() bool {
	return s != nil && s.Gmail != "" && s.GmailPassword != ""
}

func (s *AccountSettings) TelegramActive() bool {
	return s != nil && s.TelegramToken != "" && s.TelegramChat != ""
}

// Recipient is the address reminders are mailed to. Falls back to the sender
// address when no separate notification address was set.
func (s *AccountSettings) Recipient() string {
	if s.NotifyEmail != "" {
		return s.NotifyEmail
	}
	return s.Gmail
}

// TokenResponse is returned on successful login.
type TokenResponse struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
