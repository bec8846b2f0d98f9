package repository

import "context"

// Mailer delivers a plaintext message to a destination address. Delivery
// failure must come back as an error; the reset flow reports it distinctly
// from store failures because by that point the password has already been
// rotated.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
