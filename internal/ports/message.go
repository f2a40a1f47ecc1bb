package ports

import (
	"context"
	"strings"

	"github.com/Amund211/ethwalletbot/internal/domain"
)

// An inbound text message from a user in a chat
type Message struct {
	ChatID domain.ChatID
	UserID domain.UserID
	Text   string
}

func (m Message) Conversation() domain.Conversation {
	return domain.Conversation{ChatID: m.ChatID, UserID: m.UserID}
}

type Handler func(ctx context.Context, msg Message)

type Replier interface {
	Reply(ctx context.Context, chatID domain.ChatID, text string) error
}

// Get the command of the message, e.g. "/start" for "/start@ethwalletbot now".
// Returns "" if the message is not a command.
func parseCommand(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}

	command := fields[0]
	if !strings.HasPrefix(command, "/") {
		return ""
	}

	command, _, _ = strings.Cut(command, "@")
	return strings.ToLower(command)
}
