package whatsapp

import "context"

// Sender delivers a text message to a phone number.
type Sender interface {
	SendMessage(ctx context.Context, phoneNumber, message string) error
}

// BrokerAPI is the slice of the remote client covering the server-side
// WhatsApp broker.
type BrokerAPI interface {
	SendWhatsApp(ctx context.Context, userID, phone, text string) error
}

// BrokerSender delivers messages through the invitation API's WhatsApp
// broker instead of a locally linked session.
type BrokerSender struct {
	api    BrokerAPI
	userID string
}

// NewBrokerSender creates a broker-backed sender for the given session
// user.
func NewBrokerSender(api BrokerAPI, userID string) *BrokerSender {
	return &BrokerSender{api: api, userID: userID}
}

// SendMessage sends the text through the broker. The API layer normalizes
// the phone to bare digits.
func (s *BrokerSender) SendMessage(ctx context.Context, phoneNumber, message string) error {
	return s.api.SendWhatsApp(ctx, s.userID, phoneNumber, message)
}
