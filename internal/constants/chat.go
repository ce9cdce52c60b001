package constants

import "time"

const (
	// DefaultConversationTitle is kept until the first user message arrives
	DefaultConversationTitle = "New Conversation"
	// GreetingMessage seeds every new conversation
	GreetingMessage = "Hi! I'm your AI wellness buddy. How can I help you today?"
	// FallbackReply is used when no canned answer matches the question exactly
	FallbackReply = "I hear you. Based on what you've shared, I'd recommend taking some time for yourself today. Would you like some specific wellness tips?"

	// MaxTitleLength is the number of characters taken from the first message
	MaxTitleLength = 40
	// DefaultReplyDelay is how long the simulated responder "types"
	DefaultReplyDelay = 1500 * time.Millisecond
	// MaxReplyDelay bounds configured delays
	MaxReplyDelay = 30 * time.Second

	// SharePreviewLength is the prefix of journal text carried into a chat
	SharePreviewLength = 200
	// ShareTemplate wraps the shared journal prefix
	ShareTemplate = "Based on my journal: \"%s...\" — can you give me advice?"
	// SharePurposeNotice is shown with every share consent prompt
	SharePurposeNotice = "Your entry will be used only to start this one conversation. It stays on this device and is not stored anywhere else."

	// Disclaimer rendered above every chat
	MedicalDisclaimer = "AI buddy is not a medical professional. Replies are not a diagnosis or medical advice."
)
