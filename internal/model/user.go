package model

// User document fields.
const (
	UserFieldEmail = "email"
)

// UserControlledFields are never accepted from clients on update.
// The email is the user's identity key.
var UserControlledFields = []string{FieldID, UserFieldEmail}
