package commands

import (
	"Trades/internal/config"
	"Trades/internal/model"
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

type deckResponse struct {
	Deck []model.Item `json:"deck"`
}

type swipeResponse struct {
	Deck  []model.Item `json:"deck"`
	Match *model.Item  `json:"match"`
}

func printItem(n int, it model.Item) {
	fmt.Fprintf(Out, "%2d. %-4s %-28s %-12s %s  id=%s\n", n, it.ValueTier, it.Title, it.Category, it.PickupLocation, it.ID)
}

type deckCmd struct{}

func (deckCmd) Name() string        { return "deck" }
func (deckCmd) Description() string { return "Rebuild and show the swipe deck" }
func (deckCmd) Usage() string       { return "deck [--tier=$|$$|$$$|all] [--category=<name>|all]" }

func (deckCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("deck", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	tier := fs.String("tier", "", "ценовая категория")
	category := fs.String("category", "", "категория предмета")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return ErrUsage
	}
	if _, ok := model.ParseValueTier(*tier); !ok {
		return ErrUsage
	}
	if _, ok := model.ParseCategory(*category); !ok {
		return ErrUsage
	}

	q := url.Values{}
	if *tier != "" {
		q.Set("tier", *tier)
	}
	if *category != "" {
		q.Set("category", *category)
	}
	path := "/api/deck"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var dr deckResponse
	if _, err := call(ctx, cfg, http.MethodGet, path, nil, &dr); err != nil {
		return err
	}
	if len(dr.Deck) == 0 {
		fmt.Fprintln(Out, "Deck is empty")
		return nil
	}
	for i, it := range dr.Deck {
		printItem(i+1, it)
	}
	fmt.Fprintf(Out, "Total: %d\n", len(dr.Deck))
	return nil
}

type swipeCmd struct{}

func (swipeCmd) Name() string        { return "swipe" }
func (swipeCmd) Description() string { return "Swipe the top card of the deck" }
func (swipeCmd) Usage() string       { return "swipe <left|right>" }

func (swipeCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	dir := model.Direction(strings.ToLower(args[0]))
	if !dir.Valid() {
		return ErrUsage
	}

	var sr swipeResponse
	_, err := call(ctx, cfg, http.MethodPost, "/api/deck/swipe", map[string]model.Direction{"direction": dir}, &sr)
	if isStatus(err, http.StatusConflict) {
		fmt.Fprintln(Out, "Deck is empty, run `deck` to refresh")
		return nil
	}
	if err != nil {
		return err
	}
	if sr.Match != nil {
		fmt.Fprintf(Out, "It's a match: %s\n", sr.Match.Title)
		fmt.Fprintf(Out, "Confirm with: match %s\n", sr.Match.ID)
	}
	if len(sr.Deck) == 0 {
		fmt.Fprintln(Out, "No more cards")
		return nil
	}
	fmt.Fprintln(Out, "Next:")
	printItem(1, sr.Deck[0])
	fmt.Fprintf(Out, "Left in deck: %d\n", len(sr.Deck))
	return nil
}

func init() {
	RegisterCmd(deckCmd{})
	RegisterCmd(swipeCmd{})
}
