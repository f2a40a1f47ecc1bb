package ports

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Amund211/ethwalletbot/internal/adapters/activitylog"
	"github.com/Amund211/ethwalletbot/internal/adapters/conversationstate"
	"github.com/Amund211/ethwalletbot/internal/app"
	"github.com/Amund211/ethwalletbot/internal/domain"
	"github.com/Amund211/ethwalletbot/internal/logging"
	"github.com/Amund211/ethwalletbot/internal/reporting"
)

type handlers struct {
	replier     Replier
	activityLog activitylog.ActivityLogger
	states      conversationstate.Store

	setWallet       app.SetWallet
	getTransactions app.GetTransactions
	getBalance      app.GetBalance
}

func (h *handlers) reply(ctx context.Context, chatID domain.ChatID, text string) {
	err := h.replier.Reply(ctx, chatID, text)
	if err != nil {
		// NOTE: Replier implementations handle their own error reporting
		logging.FromContext(ctx).ErrorContext(ctx, "Failed to send reply", "error", err.Error())
	}
}

// Write to the user's activity log. Failures never prevent the reply.
func (h *handlers) log(ctx context.Context, userID domain.UserID, text string) {
	err := h.activityLog.Log(ctx, userID, text)
	if err != nil {
		reporting.Report(ctx, fmt.Errorf("failed to write activity log: %w", err))
	}
}

func (h *handlers) start(ctx context.Context, msg Message) {
	h.log(ctx, msg.UserID, "User started bot. Message: "+msg.Text)
	h.reply(ctx, msg.ChatID, welcomeReply)
}

func (h *handlers) help(ctx context.Context, msg Message) {
	h.log(ctx, msg.UserID, "Help requested. Message: "+msg.Text)
	h.reply(ctx, msg.ChatID, helpReply)
}

func (h *handlers) requestWallet(ctx context.Context, msg Message) {
	h.log(ctx, msg.UserID, "Wallet set requested. Message: "+msg.Text)
	h.states.AwaitWalletAddress(ctx, msg.Conversation())
	h.reply(ctx, msg.ChatID, askWalletReply)
}

// Handle a message while the conversation is awaiting a wallet address
func (h *handlers) captureWallet(ctx context.Context, msg Message) {
	address, err := h.setWallet(ctx, msg.UserID, msg.Text)
	if errors.Is(err, domain.ErrEmptyWalletAddress) {
		h.log(ctx, msg.UserID, "Empty wallet address. Message: "+msg.Text)
		h.states.AwaitWalletAddress(ctx, msg.Conversation())
		h.reply(ctx, msg.ChatID, emptyWalletReply)
		return
	} else if err != nil {
		h.reply(ctx, msg.ChatID, internalErrReply)
		return
	}

	h.log(ctx, msg.UserID, "Wallet address set to: "+address)
	h.reply(ctx, msg.ChatID, fmt.Sprintf(walletTrackedReplyFmt, address))
}

func (h *handlers) checkTransactions(ctx context.Context, msg Message) {
	h.log(ctx, msg.UserID, "Transactions check requested. Message: "+msg.Text)

	transactions, err := h.getTransactions(ctx, msg.UserID)
	switch {
	case errors.Is(err, domain.ErrWalletNotSet):
		h.reply(ctx, msg.ChatID, walletNotSetReply)
		return
	case errors.Is(err, domain.ErrTemporarilyUnavailable):
		h.reply(ctx, msg.ChatID, unavailableReply)
		return
	case err != nil:
		h.reply(ctx, msg.ChatID, transactionsFailedReply)
		return
	}

	h.log(ctx, msg.UserID, "Transactions fetched successfully.")
	for _, transaction := range transactions {
		h.reply(ctx, msg.ChatID, formatTransaction(ctx, transaction))
	}
}

func formatTransaction(ctx context.Context, transaction domain.Transaction) string {
	var buf bytes.Buffer
	err := json.Indent(&buf, transaction.Raw, "", "    ")
	if err != nil {
		reporting.Report(ctx, fmt.Errorf("failed to indent transaction: %w", err), map[string]string{
			"hash": transaction.Hash,
		})
		return string(transaction.Raw)
	}
	return buf.String()
}

func (h *handlers) balance(ctx context.Context, msg Message) {
	h.log(ctx, msg.UserID, "Balance check requested. Message: "+msg.Text)

	balance, err := h.getBalance(ctx, msg.UserID)
	switch {
	case errors.Is(err, domain.ErrWalletNotSet):
		h.reply(ctx, msg.ChatID, walletNotSetReply)
		return
	case errors.Is(err, domain.ErrTemporarilyUnavailable):
		h.reply(ctx, msg.ChatID, unavailableReply)
		return
	case err != nil:
		h.reply(ctx, msg.ChatID, balanceFailedReply)
		return
	}

	ether := balance.EtherString()
	h.log(ctx, msg.UserID, fmt.Sprintf("Balance fetched: %s ETH.", ether))
	h.reply(ctx, msg.ChatID, fmt.Sprintf(balanceReplyFmt, ether))
}

func (h *handlers) cancel(ctx context.Context, msg Message) {
	h.log(ctx, msg.UserID, "Wallet capture cancelled. Message: "+msg.Text)

	if !h.states.TakeWalletAddressCapture(ctx, msg.Conversation()) {
		h.reply(ctx, msg.ChatID, nothingToCancelReply)
		return
	}
	h.reply(ctx, msg.ChatID, cancelledReply)
}

// Single handler for everything that is not a known command
func (h *handlers) fallback(ctx context.Context, msg Message) {
	conversation := msg.Conversation()
	if parseCommand(msg.Text) == "" && h.states.State(ctx, conversation) == domain.ConversationAwaitingWalletAddress {
		if strings.TrimSpace(msg.Text) == "" {
			h.log(ctx, msg.UserID, "Empty wallet address. Message: "+msg.Text)
			h.reply(ctx, msg.ChatID, emptyWalletReply)
			return
		}

		if h.states.TakeWalletAddressCapture(ctx, conversation) {
			logging.FromContext(ctx).InfoContext(ctx, "Capturing wallet address", "conversation", conversation.String())
			h.captureWallet(ctx, msg)
			return
		}
	}

	h.log(ctx, msg.UserID, "Unrecognised message: "+msg.Text)
	h.reply(ctx, msg.ChatID, fallbackReply)
}
