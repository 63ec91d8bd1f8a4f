package common

// PayloadDelimiter separates the fields of a request payload.
const PayloadDelimiter = ":::"

// Collection names. Each one maps to its own file and its own lock.
const (
	CollectionUsers     = "users"
	CollectionIncidents = "incidents"
)

// MaxLineSize bounds a single protocol line in either direction.
const MaxLineSize = 1 << 20
