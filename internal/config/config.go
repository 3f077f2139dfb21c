package config

import (
	"os"
	"strconv"
)

// Config holds the application configuration
type Config struct {
	// Invitation API
	APIBaseURL string
	APIToken   string
	UserID     string

	// Realtime channel
	PubNubPublishKey   string
	PubNubSubscribeKey string
	PubNubChannel      string

	// WhatsApp delivery. When DirectWhatsApp is true a locally linked
	// session is used instead of the API's broker.
	DirectWhatsApp  bool
	WhatsAppDataDir string

	// Invitation message details
	EventName     string
	EventDate     string
	EventLocation string
	HostName      string
}

// LoadConfig loads configuration from environment variables or defaults
func LoadConfig() *Config {
	return &Config{
		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:3000"),
		APIToken:   getEnv("API_TOKEN", ""),
		UserID:     getEnv("USER_ID", ""),

		PubNubPublishKey:   getEnv("PUBNUB_PUBLISH_KEY", ""),
		PubNubSubscribeKey: getEnv("PUBNUB_SUBSCRIBE_KEY", ""),
		PubNubChannel:      getEnv("PUBNUB_CHANNEL", "invitations"),

		DirectWhatsApp:  getEnvAsBool("DIRECT_WHATSAPP", false),
		WhatsAppDataDir: getEnv("WHATSAPP_DATA_DIR", "data"),

		EventName:     getEnv("EVENT_NAME", "Our Wedding"),
		EventDate:     getEnv("EVENT_DATE", "TBD"),
		EventLocation: getEnv("EVENT_LOCATION", "Venue TBD"),
		HostName:      getEnv("HOST_NAME", "The hosts"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}
