package model

import "time"

// Message is a directed text from one identity to another. Immutable once stored.
type Message struct {
	ID   string    `json:"id"`
	From string    `json:"from"`
	To   string    `json:"to"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Counterparty returns the other side of the message as seen by userID.
func (m Message) Counterparty(userID string) string {
	if m.From == userID {
		return m.To
	}
	return m.From
}

// Thread summarises the conversation with one counterparty.
type Thread struct {
	Other string  `json:"other"`
	Last  Message `json:"last"`
	Count int     `json:"count"`
}
