package mailer

import "context"

// Message is a single outbound email.
type Message struct {
	To        string
	Subject   string
	PlainText string
	HTML      string
}

// Mailer delivers transactional email.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
