package commands

import (
	"Trades/internal/config"
	"Trades/internal/model"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

type chatsCmd struct{}

func (chatsCmd) Name() string        { return "chats" }
func (chatsCmd) Description() string { return "List conversations" }
func (chatsCmd) Usage() string       { return "chats" }

func (chatsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	var convs []model.Conversation
	if _, err := call(ctx, cfg, http.MethodGet, "/api/conversations", nil, &convs); err != nil {
		return err
	}
	if len(convs) == 0 {
		fmt.Fprintln(Out, "No conversations")
		return nil
	}
	for _, c := range convs {
		last := "(no messages)"
		if c.LastMessage != nil {
			last = c.LastMessage.Text
		}
		fmt.Fprintf(Out, "- %s [%s]: %s\n", c.Counterpart.DisplayName, c.Counterpart.ID, last)
	}
	return nil
}

type messagesCmd struct{}

func (messagesCmd) Name() string        { return "messages" }
func (messagesCmd) Description() string { return "Show messages with a user" }
func (messagesCmd) Usage() string       { return "messages <userID>" }

func (messagesCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 || args[0] == "" {
		return ErrUsage
	}
	var msgs []model.Message
	if _, err := call(ctx, cfg, http.MethodGet, "/api/conversations/"+url.PathEscape(args[0])+"/messages", nil, &msgs); err != nil {
		return err
	}
	for _, m := range msgs {
		fmt.Fprintf(Out, "[%s] %s: %s\n", m.CreatedAt.Local().Format("2006-01-02 15:04"), m.SenderID, m.Text)
	}
	if len(msgs) == 0 {
		fmt.Fprintln(Out, "No messages")
	}
	return nil
}

type sendCmd struct{}

func (sendCmd) Name() string        { return "send" }
func (sendCmd) Description() string { return "Send a message to a user" }
func (sendCmd) Usage() string       { return "send <userID> <text...>" }

func (sendCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 || args[0] == "" {
		return ErrUsage
	}
	text := strings.TrimSpace(strings.Join(args[1:], " "))
	if text == "" {
		return ErrUsage
	}
	path := "/api/conversations/" + url.PathEscape(args[0]) + "/messages"
	if _, err := call(ctx, cfg, http.MethodPost, path, map[string]string{"text": text}, nil); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Sent")
	return nil
}

func init() {
	RegisterCmd(chatsCmd{})
	RegisterCmd(messagesCmd{})
	RegisterCmd(sendCmd{})
}
