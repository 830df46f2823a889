// Package mail sends the service's outbound email: verification codes and
// account lock alerts. Use cases depend on the Mail interface so delivery
// can move from SMTP to a provider API without touching them.
package mail

import (
	"context"
	"io"
)

// Message is one email to deliver.
type Message struct {
	// From overrides the configured default sender when set.
	From string
	// To lists primary recipients.
	To []string
	// Cc lists carbon copy recipients.
	Cc []string
	// Bcc lists blind carbon copy recipients.
	Bcc []string
	// Subject is the subject line.
	Subject string
	// TextBody is the plain-text body.
	TextBody string
	// HTMLBody is the HTML body; when both bodies are set the message goes
	// out as multipart/alternative.
	HTMLBody string
}

// Mail abstracts an email provider.
type Mail interface {
	io.Closer
	// Send delivers the message.
	Send(ctx context.Context, msg Message) error
}
