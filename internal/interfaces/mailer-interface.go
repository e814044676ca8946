package interfaces

// Mailer delivers account mail (welcome, verification codes). A delivery
// failure aborts the operation that requested it.
type Mailer interface {
	Send(to, subject, body string) error
}
