package commands

import (
	"Trades/internal/config"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

type ratingResponse struct {
	ItemID  string  `json:"item_id"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
	MyStars *int    `json:"my_stars"`
}

func printRating(r ratingResponse) {
	fmt.Fprintf(Out, "%s: %.1f★ (%d ratings)", r.ItemID, r.Average, r.Count)
	if r.MyStars != nil {
		fmt.Fprintf(Out, ", yours: %d", *r.MyStars)
	}
	fmt.Fprintln(Out)
}

type rateCmd struct{}

func (rateCmd) Name() string        { return "rate" }
func (rateCmd) Description() string { return "Rate an item from 1 to 5 stars" }
func (rateCmd) Usage() string       { return "rate <itemID> <1-5>" }

func (rateCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 || args[0] == "" {
		return ErrUsage
	}
	stars, err := strconv.Atoi(args[1])
	if err != nil || stars < 1 || stars > 5 {
		return ErrUsage
	}
	var r ratingResponse
	path := "/api/items/" + url.PathEscape(args[0]) + "/rating"
	if _, err := call(ctx, cfg, http.MethodPut, path, map[string]int{"stars": stars}, &r); err != nil {
		return err
	}
	printRating(r)
	return nil
}

type ratingCmd struct{}

func (ratingCmd) Name() string        { return "rating" }
func (ratingCmd) Description() string { return "Show the average rating of an item" }
func (ratingCmd) Usage() string       { return "rating <itemID>" }

func (ratingCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 || args[0] == "" {
		return ErrUsage
	}
	var r ratingResponse
	if _, err := call(ctx, cfg, http.MethodGet, "/api/items/"+url.PathEscape(args[0])+"/rating", nil, &r); err != nil {
		return err
	}
	printRating(r)
	return nil
}

func init() {
	RegisterCmd(rateCmd{})
	RegisterCmd(ratingCmd{})
}
