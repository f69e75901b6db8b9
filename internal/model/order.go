package model

// Order document fields.
const (
	OrderFieldBuyerEmail = "buyer_email"
)
