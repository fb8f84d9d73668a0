package commands

import (
	"Trades/internal/config"
	"context"
	"fmt"
	"net/http"
	"net/url"
)

type matchCmd struct{}

func (matchCmd) Name() string        { return "match" }
func (matchCmd) Description() string { return "Confirm a match with an item" }
func (matchCmd) Usage() string       { return "match <itemID>" }

func (matchCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 || args[0] == "" {
		return ErrUsage
	}
	code, err := call(ctx, cfg, http.MethodPost, "/api/matches/"+url.PathEscape(args[0]), nil, nil)
	if err != nil {
		return err
	}
	if code == http.StatusCreated {
		fmt.Fprintln(Out, "Match saved")
	} else {
		fmt.Fprintln(Out, "Already matched")
	}
	return nil
}

type unmatchCmd struct{}

func (unmatchCmd) Name() string        { return "unmatch" }
func (unmatchCmd) Description() string { return "Remove an item from matches" }
func (unmatchCmd) Usage() string       { return "unmatch <itemID>" }

func (unmatchCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 || args[0] == "" {
		return ErrUsage
	}
	if _, err := call(ctx, cfg, http.MethodDelete, "/api/matches/"+url.PathEscape(args[0]), nil, nil); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Match removed")
	return nil
}

type matchesCmd struct{}

func (matchesCmd) Name() string        { return "matches" }
func (matchesCmd) Description() string { return "List matched item ids" }
func (matchesCmd) Usage() string       { return "matches" }

func (matchesCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	var mr struct {
		Matches []string `json:"matches"`
	}
	if _, err := call(ctx, cfg, http.MethodGet, "/api/matches", nil, &mr); err != nil {
		return err
	}
	if len(mr.Matches) == 0 {
		fmt.Fprintln(Out, "No matches yet")
		return nil
	}
	for _, id := range mr.Matches {
		fmt.Fprintf(Out, "- %s\n", id)
	}
	fmt.Fprintf(Out, "Total: %d\n", len(mr.Matches))
	return nil
}

func init() {
	RegisterCmd(matchCmd{})
	RegisterCmd(unmatchCmd{})
	RegisterCmd(matchesCmd{})
}
