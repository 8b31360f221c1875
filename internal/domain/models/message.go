package models

import "github.com/google/uuid"

// Message represents a message to be sent through the onion routing network
type Message struct {
	ID                string
	Content           string
	DestinationUserID int
}

// NewMessage creates a new message with a fresh id
func NewMessage(content string, destinationUserID int) Message {
	return Message{
		ID:                uuid.NewString(),
		Content:           content,
		DestinationUserID: destinationUserID,
	}
}
