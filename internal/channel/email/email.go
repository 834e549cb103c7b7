// Package email sends expiry reminders through the owner's own SMTP account.
package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/hrtools/rptracker/internal/channel"
	"github.com/hrtools/rptracker/internal/model"
)

const urgentDays = 15

type Config struct {
	Host string
	Port int
}

type Channel struct {
	host string
	port int
}

func New(cfg Config) *Channel {
	host := cfg.Host
	if host == "" {
		host = "smtp.gmail.com"
	}
	port := cfg.Port
	if port == 0 {
		port = 587
	}
	return &Channel{host: host, port: port}
}

func (c *Channel) Kind() string {
	return channel.KindEmail
}

func (c *Channel) Configured(settings *model.AccountSettings) bool {
	return settings.EmailActive()
}

// Send dials the owner's SMTP account and delivers the reminder. The dial and
// send run under the caller's context; when it expires the attempt resolves
// to an error instead of blocking the pass.
func (c *Channel) Send(ctx context.Context, settings *model.AccountSettings, employee *model.Employee, daysLeft int) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", settings.Gmail, "RP Tracker Alert")
	m.SetHeader("To", settings.Recipient())
	m.SetHeader("Subject", fmt.Sprintf("URGENT: RP Expiry Alert - %s (%d days left)", employee.FullName, daysLeft))
	m.SetBody("text/html", renderBody(employee, daysLeft))

	d := gomail.NewDialer(c.host, c.port, settings.Gmail, settings.GmailPassword)

	done := make(chan error, 1)
	go func() { done <- d.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("email send aborted: %w", ctx.Err())
	}
}

func renderBody(employee *model.Employee, daysLeft int) string {
	accent := "#fbc02d"
	if daysLeft <= urgentDays {
		accent = "#d32f2f"
	}

	return fmt.Sprintf(`
<div style="font-family: Arial; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="background: #667eea; color: white; padding: 20px; text-align: center;">RP EXPIRY ALERT</h1>
  <div style="border-left: 4px solid %[1]s; padding: 16px; margin: 16px 0;">
    <h2 style="color: %[1]s; margin-top: 0;">Urgent - action required</h2>
    <p style="font-size: 18px; font-weight: bold;">RP expires in %[2]d days</p>
  </div>
  <table style="width: 100%%;">
    <tr><td style="padding: 8px; font-weight: bold;">Full Name:</td><td style="padding: 8px;">%[3]s</td></tr>
    <tr><td style="padding: 8px; font-weight: bold;">QID Number:</td><td style="padding: 8px;">%[4]s</td></tr>
    <tr><td style="padding: 8px; font-weight: bold;">Nationality:</td><td style="padding: 8px;">%[5]s</td></tr>
    <tr><td style="padding: 8px; font-weight: bold;">Gender:</td><td style="padding: 8px;">%[6]s</td></tr>
    <tr><td style="padding: 8px; font-weight: bold;">Expiry Date:</td><td style="padding: 8px; color: %[1]s; font-weight: bold;">%[7]s</td></tr>
  </table>
  <p style="color: #666;">Please process the RP renewal immediately to avoid legal complications and work disruptions.</p>
  <p style="color: #999; font-size: 12px; text-align: center;">Automated notification from RP Tracker.</p>
</div>`,
		accent, daysLeft, employee.FullName, employee.QIDNumber,
		employee.Nationality, employee.Gender, employee.ExpiryDate)
}
