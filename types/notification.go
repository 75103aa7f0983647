package types

import "time"

type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notification is a user-facing outcome message of an action or a state load.
type Notification struct {
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Variant   Variant   `json:"variant"`
	CreatedAt time.Time `json:"createdAt"`
}
