package entity

import "time"

// PhotoPlaceholder is written as the conversation's last message when a
// message carries only an image.
const PhotoPlaceholder = "📷 Photo"

// Message is append-only. Only Read and Translations change after creation.
type Message struct {
	ID             string                 `json:"id" firestore:"id"`
	ConversationID string                 `json:"conversation_id" firestore:"conversationId"`
	SenderID       string                 `json:"sender_id" firestore:"senderId"`
	Text           string                 `json:"text,omitempty" firestore:"text,omitempty"`
	ImageURL       string                 `json:"image_url,omitempty" firestore:"imageUrl,omitempty"`
	Read           bool                   `json:"read" firestore:"read"`
	Translations   map[string]Translation `json:"translations,omitempty" firestore:"translations,omitempty"`
	CreatedAt      time.Time              `json:"created_at" firestore:"createdAt"`
}

type Translation struct {
	Text         string    `json:"text" firestore:"text"`
	TranslatedAt time.Time `json:"translated_at" firestore:"translatedAt"`
}

// Summary is the text shown in conversation lists.
func (m *Message) Summary() string {
	if m.Text == "" && m.ImageURL != "" {
		return PhotoPlaceholder
	}
	return m.Text
}
