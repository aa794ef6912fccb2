package p2p

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// MessageType identifies what a message payload holds.
type MessageType string

// Set of message types nodes exchange.
const (
	MessageTypeBlock MessageType = "block"
)

// Message represents the envelope carried inside every frame.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// NewMessage creates a new message with the given type and payload.
func NewMessage(msgType MessageType, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("encoding %s payload: %w", msgType, err)
	}

	return Message{
		Type:    msgType,
		Payload: data,
	}, nil
}

// Encode marshals the message into the bytes placed in a frame.
func (m Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// ParsePayload unmarshals the message payload into the provided value.
// Unknown fields are rejected.
func (m Message) ParsePayload(payload any) error {
	if err := strictUnmarshal(m.Payload, payload); err != nil {
		return fmt.Errorf("%w: %s payload: %w", ErrMalformedPayload, m.Type, err)
	}
	return nil
}

// DecodeMessage unmarshals the envelope held in a frame.
func DecodeMessage(data []byte) (Message, error) {
	var msg Message
	if err := strictUnmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	if msg.Type == "" || len(msg.Payload) == 0 {
		return Message{}, fmt.Errorf("%w: missing type or payload", ErrMalformedPayload)
	}

	return msg, nil
}

func strictUnmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return err
	}

	if dec.More() {
		return errors.New("trailing data after value")
	}

	return nil
}
