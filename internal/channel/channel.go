// Package channel defines the notification transport contract.
package channel

import (
	"context"

	"github.com/hrtools/rptracker/internal/model"
)

const (
	KindEmail    = "email"
	KindTelegram = "telegram"
)

// Channel delivers an expiry reminder over one transport. Implementations
// must report missing credentials through Configured rather than a send
// error, and bound their own network timeouts so a stuck transport cannot
// hang a scheduler pass.
type Channel interface {
	Kind() string
	Configured(settings *model.AccountSettings) bool
	Send(ctx context.Context, settings *model.AccountSettings, employee *model.Employee, daysLeft int) error
}
