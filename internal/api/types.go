package api

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FlexInt decodes a JSON value that may arrive as a number, a numeric string,
// or null. Anything unparseable becomes 0; counters from the backend are
// display data, not something worth failing a whole page over.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*f = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			*f = 0
			return nil
		}
		*f = FlexInt(n)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil || n < 0 {
		*f = 0
		return nil
	}
	*f = FlexInt(int(n))
	return nil
}

// ConversationType values used by the backend.
const (
	ConversationPrivate = "private"
	ConversationGroup   = "group"
)

// Conversation is one entry of the conversation list. Timestamps stay as the
// raw strings the backend sends; the client orders by event arrival, not by
// parsing them.
type Conversation struct {
	ID                   string  `json:"id"`
	Title                string  `json:"title,omitempty"`
	Type                 string  `json:"type"`
	OtherUsername        string  `json:"other_username,omitempty"`
	LastMessage          string  `json:"last_message,omitempty"`
	LastMessageSenderID  string  `json:"last_message_sender_id,omitempty"`
	LastMessageType      string  `json:"last_message_type,omitempty"`
	LastMessageMediaURL  string  `json:"last_message_media_url,omitempty"`
	LastMessageCreatedAt string  `json:"last_message_created_at,omitempty"`
	LastMessageAt        string  `json:"last_message_at,omitempty"`
	UnreadCount          FlexInt `json:"unread_count"`
	CreatedAt            string  `json:"created_at,omitempty"`
	UpdatedAt            string  `json:"updated_at,omitempty"`
}

// Message is a single chat message.
type Message struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversation_id"`
	SenderID       string `json:"sender_id"`
	Body           string `json:"message"`
	Type           string `json:"message_type,omitempty"`
	MediaURL       string `json:"media_url,omitempty"`
	CreatedAt      string `json:"created_at"`
	SenderUsername string `json:"sender_username,omitempty"`
	SenderFullName string `json:"sender_full_name,omitempty"`
}

// ConversationHeader is the metadata block returned with a message page.
type ConversationHeader struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title,omitempty"`
	OtherUser *struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"other_user,omitempty"`
}

// MessagesPage is the response of the message-list endpoint.
type MessagesPage struct {
	Messages     []Message           `json:"messages"`
	Conversation *ConversationHeader `json:"conversation,omitempty"`
}

// CreateConversationRequest creates a private or group conversation.
type CreateConversationRequest struct {
	Title        string   `json:"title,omitempty"`
	Participants []string `json:"participants"`
	Type         string   `json:"type,omitempty"`
}

// ReactionCount is one kind's aggregate for a content item.
type ReactionCount struct {
	Name  string  `json:"name"`
	Count FlexInt `json:"count"`
}

// Reaction is a single user's recorded reaction.
type Reaction struct {
	UserID       string `json:"user_id"`
	ReactionName string `json:"reaction_name"`
}

// ReactionSummary is the response of the reaction-summary endpoint: aggregate
// counts plus the full reaction list (used to find the local user's own kind).
type ReactionSummary struct {
	Counts    []ReactionCount `json:"counts"`
	Reactions []Reaction      `json:"reactions"`
}

// Comment is a comment or a reply on any content item.
type Comment struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Username  string `json:"username,omitempty"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// Post is one feed entry.
type Post struct {
	ID            string   `json:"id"`
	Content       string   `json:"content"`
	MediaURLs     []string `json:"media_urls"`
	UserID        string   `json:"user_id"`
	Username      string   `json:"username"`
	AvatarURL     string   `json:"avatar_url,omitempty"`
	FullName      string   `json:"full_name,omitempty"`
	LikesCount    FlexInt  `json:"likes_count"`
	CommentsCount FlexInt  `json:"comments_count"`
}

// CreatePostRequest publishes a new post.
type CreatePostRequest struct {
	Caption    string   `json:"caption"`
	Media      []string `json:"media"`
	Visibility string   `json:"visibility"`
}

// Story is one story entry.
type Story struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Username  string `json:"username,omitempty"`
	MediaURL  string `json:"media_url,omitempty"`
	MediaType string `json:"media_type,omitempty"`
	Caption   string `json:"caption,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// CreateStoryRequest publishes a new story.
type CreateStoryRequest struct {
	MediaBase64 string `json:"mediaBase64"`
	MediaType   string `json:"mediaType"`
	Caption     string `json:"caption,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// ViewStoryRequest records a story view.
type ViewStoryRequest struct {
	ViewDuration int  `json:"viewDuration,omitempty"`
	Completed    bool `json:"completed,omitempty"`
}

// Reel is one reel entry.
type Reel struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	Username     string `json:"username,omitempty"`
	MediaURL     string `json:"media_url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Caption      string `json:"caption,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
}

// CreateReelRequest publishes a new reel.
type CreateReelRequest struct {
	MediaURL        string `json:"media_url"`
	ThumbnailURL    string `json:"thumbnail_url,omitempty"`
	Duration        int    `json:"duration,omitempty"`
	Caption         string `json:"caption,omitempty"`
	MusicTrackURL   string `json:"music_track_url,omitempty"`
	MusicTrackName  string `json:"music_track_name,omitempty"`
	MusicArtistName string `json:"music_artist_name,omitempty"`
}

// Friend is one accepted friendship entry.
type Friend struct {
	FriendshipID string `json:"friendship_id"`
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
	FullName     string `json:"full_name,omitempty"`
	AvatarURL    string `json:"avatar_url,omitempty"`
}

// FriendRequest is one pending incoming friend request.
type FriendRequest struct {
	ID        string `json:"id"`
	SenderID  string `json:"sender_id"`
	Username  string `json:"username,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// FriendshipStatus describes the relationship with another user: "none",
// "pending", "friends" or "blocked", plus the friendship id when one exists.
type FriendshipStatus struct {
	Status       string `json:"status"`
	FriendshipID string `json:"friendship_id,omitempty"`
}

// Notification is one entry of the notification feed.
type Notification struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Message   string `json:"message,omitempty"`
	ActorID   string `json:"actor_id,omitempty"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at,omitempty"`
}

// NotificationPreferences maps a notification kind to whether it is delivered.
type NotificationPreferences map[string]bool

// User is a public profile summary.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// LoginRequest authenticates with email and password.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the session token.
type LoginResponse struct {
	Token string `json:"token"`
}

// RegisterRequest creates an account pending OTP verification.
type RegisterRequest struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	CountryCode  int    `json:"countryCode"`
	MobileNumber string `json:"mobileNumber"`
}

// RegisterResponse carries the issued OTP and the created user.
type RegisterResponse struct {
	OTP  string `json:"otp"`
	User *User  `json:"user,omitempty"`
}

// VerifyOTPRequest confirms the account and yields a session token.
type VerifyOTPRequest struct {
	OTP   string `json:"otp"`
	Email string `json:"email"`
}

// VerifyOTPResponse carries the session token after OTP verification.
type VerifyOTPResponse struct {
	Token string `json:"token"`
}
