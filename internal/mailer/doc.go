// Package mailer delivers HTML email over SMTP.
//
// SMTPTransport opens one connection per message: implicit TLS when the
// configuration asks for SSL, otherwise plain TCP upgraded with a mandatory
// STARTTLS when TLS is requested. Both paths require TLS 1.2 or newer and
// verify the server name. PLAIN authentication uses the decrypted identity
// and secret from the store.
//
// Mailer wraps a Transport with retry: three attempts per message, waiting
// 2s then 4s between them. Batches never stop on a single failure; the
// Report counts what was sent and what was not.
package mailer
