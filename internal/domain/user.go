package domain

import "fmt"

// Opaque user identifier assigned by the chat transport
type UserID int64

func (id UserID) String() string {
	return fmt.Sprintf("%d", int64(id))
}

type ChatID int64

// A conversation is a single user talking to the bot in a single chat
type Conversation struct {
	ChatID ChatID
	UserID UserID
}

func (c Conversation) String() string {
	return fmt.Sprintf("chat:%d|user:%d", int64(c.ChatID), int64(c.UserID))
}
