package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"gamestore/internal/browse"
	"gamestore/internal/cart"
	"gamestore/internal/cartsync"
	"gamestore/internal/game"
	"gamestore/internal/storage"
)

const usage = `usage: shop <command> [arguments]

commands:
  browse [-genre G] [-search S] [-pages N]   list games
  add <id>                                   add a game to the cart
  remove <id>                                remove a game from the cart
  qty <id> <n>                               set a line's quantity (0 removes)
  cart                                       show the cart
  clear                                      empty the cart
  watch                                      print the cart whenever it changes`

var errUsage = errors.New(usage)

type catalogClient interface {
	browse.Fetcher
	Get(ctx context.Context, id string) (game.Game, error)
}

type app struct {
	out        io.Writer
	log        *slog.Logger
	catalog    catalogClient
	medium     storage.Medium
	cartKey    string
	minLoading time.Duration
}

func (a *app) store() *cart.Store {
	return cart.NewStore(a.medium, a.cartKey, a.log)
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "browse":
		return a.browse(ctx, rest)
	case "add":
		if len(rest) != 1 {
			return errUsage
		}
		return a.add(ctx, rest[0])
	case "remove":
		if len(rest) != 1 {
			return errUsage
		}
		s := a.store()
		s.Remove(rest[0])
		return a.printCart(s.Summary())
	case "qty":
		if len(rest) != 2 {
			return errUsage
		}
		n, err := strconv.Atoi(rest[1])
		if err != nil {
			return fmt.Errorf("quantity must be a number: %q", rest[1])
		}
		s := a.store()
		s.SetQuantity(rest[0], n)
		return a.printCart(s.Summary())
	case "cart":
		return a.printCart(a.store().Summary())
	case "clear":
		a.store().Clear()
		fmt.Fprintln(a.out, "Cart cleared.")
		return nil
	case "watch":
		return a.watch(ctx)
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}

func (a *app) browse(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("browse", flag.ContinueOnError)
	fs.SetOutput(a.out)
	genre := fs.String("genre", "", "exact genre")
	search := fs.String("search", "", "name contains (case-insensitive)")
	pages := fs.Int("pages", 1, "pages to load")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c := browse.New(a.catalog, browse.WithMinLoading(a.minLoading), browse.WithLogger(a.log))
	if err := c.FiltersChanged(ctx, *genre, *search); err != nil {
		return errors.New(c.State().Message())
	}
	for i := 1; i < *pages && c.State().HasMore; i++ {
		if err := c.LoadMore(ctx); err != nil {
			a.log.Warn("load more failed", "error", err)
			break
		}
	}
	return a.printBrowse(c.State())
}

func (a *app) add(ctx context.Context, id string) error {
	g, err := a.catalog.Get(ctx, id)
	if errors.Is(err, game.ErrNotFound) {
		return fmt.Errorf("no game with id %q", id)
	}
	if err != nil {
		return err
	}

	s := a.store()
	s.Add(g)
	fmt.Fprintf(a.out, "Added %s.\n", g.Name)
	return a.printCart(s.Summary())
}

// watch prints the cart now and after every change made by any process
// sharing the storage, until ctx ends.
func (a *app) watch(ctx context.Context) error {
	view := cartsync.NewView(a.store())
	if err := a.printCart(view.Summary()); err != nil {
		return err
	}
	view.OnChange(func(sum cart.Summary) {
		fmt.Fprintln(a.out, "--")
		_ = a.printCart(sum)
	})
	return cartsync.NewSyncer(view, a.medium, a.log).Run(ctx)
}

func (a *app) printBrowse(st browse.State) error {
	if len(st.Genres) > 0 {
		fmt.Fprintf(a.out, "Genres: %v\n", st.Genres)
	}
	if st.Empty() {
		fmt.Fprintln(a.out, "No games found.")
		return nil
	}
	for _, g := range st.Items {
		marker := ""
		if g.IsNew {
			marker = " NEW"
		}
		fmt.Fprintf(a.out, "%-4s %-42s %-11s %8.2f%s\n", g.ID, g.Name, g.Genre, g.Price, marker)
	}
	more := ""
	if st.HasMore {
		more = ", more available"
	}
	if st.LoadMoreErr != nil {
		more = ", " + st.Message()
	}
	fmt.Fprintf(a.out, "Page %d of %d%s\n", st.CurrentPage, st.TotalPages, more)
	return nil
}

func (a *app) printCart(sum cart.Summary) error {
	if len(sum.Items) == 0 {
		_, err := fmt.Fprintln(a.out, "Your cart is empty.")
		return err
	}
	for _, l := range sum.Items {
		fmt.Fprintf(a.out, "%-4s %-42s %3d x %8.2f\n", l.ID, l.Name, l.Quantity, l.Price)
	}
	_, err := fmt.Fprintf(a.out, "Items: %d  Total: $%.2f\n", sum.TotalItems, sum.TotalPrice)
	return err
}
