// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package mailer sends notification emails over SMTP. The mailer is
// optional: with no SMTP host configured every send is a no-op.
package mailer

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

// Mailer sends emails through an SMTP relay.
type Mailer struct {
	host string
	port int
	user string
	pass string
	from string
}

// New creates a mailer. An empty host disables sending.
func New(host string, port int, user, pass, from string) *Mailer {
	return &Mailer{host: host, port: port, user: user, pass: pass, from: from}
}

// Enabled reports whether an SMTP relay is configured.
func (m *Mailer) Enabled() bool {
	return m.host != ""
}

// SendListingCreated notifies the given address that a listing was
// published on the board.
func (m *Mailer) SendListingCreated(to, title string) error {
	if !m.Enabled() {
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "New listing: "+title)
	msg.SetBody("text/plain", fmt.Sprintf("A new listing %q was published on the bulletin board.", title))

	d := gomail.NewDialer(m.host, m.port, m.user, m.pass)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("send listing notification: %w", err)
	}
	return nil
}
