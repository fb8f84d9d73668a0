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

func printTrade(t model.Trade) {
	fmt.Fprintf(Out, "Trade %s [%s]\n", t.ID, t.Status)
	fmt.Fprintf(Out, "  items:        %s\n", strings.Join(t.ItemIDs, ", "))
	fmt.Fprintf(Out, "  participants: %s\n", strings.Join(t.ParticipantIDs, ", "))
}

type tradeCmd struct{}

func (tradeCmd) Name() string        { return "trade" }
func (tradeCmd) Description() string { return "Propose a trade between your items and others'" }
func (tradeCmd) Usage() string       { return "trade <itemID> <itemID> [itemID...]" }

func (tradeCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	var t model.Trade
	if _, err := call(ctx, cfg, http.MethodPost, "/api/trades", map[string][]string{"item_ids": args}, &t); err != nil {
		return err
	}
	printTrade(t)
	return nil
}

type tradeCompleteCmd struct{}

func (tradeCompleteCmd) Name() string        { return "trade-complete" }
func (tradeCompleteCmd) Description() string { return "Mark a trade as completed" }
func (tradeCompleteCmd) Usage() string       { return "trade-complete <tradeID>" }

func (tradeCompleteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 || args[0] == "" {
		return ErrUsage
	}
	var t model.Trade
	if _, err := call(ctx, cfg, http.MethodPost, "/api/trades/"+url.PathEscape(args[0])+"/complete", nil, &t); err != nil {
		return err
	}
	printTrade(t)
	return nil
}

func init() {
	RegisterCmd(tradeCmd{})
	RegisterCmd(tradeCompleteCmd{})
}
