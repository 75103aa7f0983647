package types

import "time"

// Activity is a confirmed write recorded in the journal.
type Activity struct {
	Action    string    `json:"action" bson:"action"`
	Branch    string    `json:"branch,omitempty" bson:"branch,omitempty"`
	TxHash    string    `json:"txHash" bson:"txHash"`
	Account   string    `json:"account" bson:"account"`
	Detail    string    `json:"detail,omitempty" bson:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
