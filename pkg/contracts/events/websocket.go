// Package events defines the messages pushed to websocket clients.
package events

import (
	"encoding/json"
	"time"

	"studentpulse/pkg/contracts/domain"
)

// MessageType identifies the payload carried by a Message
type MessageType string

const (
	TypeConnection        MessageType = "connection"
	TypeAnalysisCompleted MessageType = domain.EventAnalysisCompleted
)

// Message is the envelope of every websocket frame
type Message struct {
	Type      MessageType `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ConnectionData greets a client right after it registers
type ConnectionData struct {
	Status   string `json:"status"`
	ClientID string `json:"clientId"`
}

// Encode wraps data in a Message stamped with the current UTC time
func Encode(msgType MessageType, data interface{}) ([]byte, error) {
	return json.Marshal(Message{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}
