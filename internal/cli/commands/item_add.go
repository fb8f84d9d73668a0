package commands

import (
	"Trades/internal/config"
	"Trades/internal/model"
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type itemInput struct {
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	Photos         []string `json:"photos,omitempty"`
	ValueTier      string   `json:"value_tier"`
	Category       string   `json:"category"`
	PickupLocation string   `json:"pickup_location,omitempty"`
}

type photoList []string

func (p *photoList) String() string     { return strings.Join(*p, ",") }
func (p *photoList) Set(v string) error { *p = append(*p, v); return nil }

type itemAddCmd struct{}

func (itemAddCmd) Name() string        { return "item-add" }
func (itemAddCmd) Description() string { return "List an item for trade" }
func (itemAddCmd) Usage() string {
	return "item-add --tier=<$|$$|$$$> --category=<name> [--desc=] [--location=] [--photo=URL]... <title...>"
}

func (itemAddCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("item-add", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	in := itemInput{}
	var photos photoList
	fs.StringVar(&in.ValueTier, "tier", "", "ценовая категория")
	fs.StringVar(&in.Category, "category", "", "категория")
	fs.StringVar(&in.Description, "desc", "", "описание")
	fs.StringVar(&in.PickupLocation, "location", "", "место передачи")
	fs.Var(&photos, "photo", "URL фото (можно несколько)")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}
	in.Title = strings.TrimSpace(strings.Join(fs.Args(), " "))
	in.Photos = photos
	if in.Title == "" || in.ValueTier == "" || in.Category == "" {
		return ErrUsage
	}

	var it model.Item
	if _, err := call(ctx, cfg, http.MethodPost, "/api/items", in, &it); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Created:")
	fmt.Fprintf(Out, "  id:       %s\n", it.ID)
	fmt.Fprintf(Out, "  title:    %s\n", it.Title)
	fmt.Fprintf(Out, "  tier:     %s\n", it.ValueTier)
	fmt.Fprintf(Out, "  category: %s\n", it.Category)
	return nil
}

func init() { RegisterCmd(itemAddCmd{}) }
