package model

import "time"

// Listing document fields.
const (
	ListingFieldCategory   = "category"
	ListingFieldOwnerEmail = "email"
	ListingFieldCreatedAt  = "created_at"
)

// ListingControlledFields are set by the server and stripped from client input.
var ListingControlledFields = []string{FieldID, ListingFieldOwnerEmail, ListingFieldCreatedAt}

// TimestampLayout is the ISO-8601 layout used for created_at.
// Fixed-width milliseconds keep lexical and chronological order identical.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
