package main

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/norun9/gomarketplace-cartstore/cart"
	"github.com/norun9/gomarketplace-cartstore/cartstore"
	"github.com/norun9/gomarketplace-cartstore/internal/config"
	"github.com/norun9/gomarketplace-cartstore/internal/view"
	"github.com/norun9/gomarketplace-cartstore/kvstore"
)

const usage = `usage: cartctl <command> [flags]

commands:
  list                                       show the cart
  health                                     check the durable store answers
  add --id ID --title T --image URL --price P  add one unit of a product
  inc ID                                     add one unit of an item
  dec ID                                     remove one unit of an item
`

// storeOptions maps configuration onto cart store options.
func storeOptions(cfg config.Config, log logrus.FieldLogger) []cartstore.Option {
	opts := []cartstore.Option{
		cartstore.WithNamespace(cfg.Namespace),
		cartstore.WithLogger(log),
	}
	if cfg.Persistence.Async {
		opts = append(opts, cartstore.WithAsyncPersistence(func(err error) {
			log.WithError(err).Error("background cart write failed")
		}))
	}
	if cfg.Persistence.Ordered {
		opts = append(opts, cartstore.WithOrderedPersistence())
	}
	if cfg.StrictIDs {
		opts = append(opts, cartstore.WithStrictIDs())
	}
	return opts
}

// run opens the configured store, executes one command and renders the
// resulting cart to out.
func run(ctx context.Context, args []string, cfg config.Config, log logrus.FieldLogger, out io.Writer) (err error) {
	if len(args) == 0 {
		return fmt.Errorf("missing command\n%s", usage)
	}

	kv, err := kvstore.Open(ctx, cfg.KVOptions(), log)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Backend, err)
	}
	defer func() {
		if cerr := kv.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	store, err := cartstore.Create(ctx, kv, storeOptions(cfg, log)...)
	if err != nil {
		return err
	}
	ctx = cartstore.NewContext(ctx, store)

	var latest cart.Cart
	unsubscribe := store.Subscribe(func(c cart.Cart) { latest = c })
	defer unsubscribe()
	latest = store.Products()

	cmdErr := dispatch(ctx, args[0], args[1:])
	if derr := store.Dispose(ctx); derr != nil && cmdErr == nil {
		cmdErr = derr
	}
	if cmdErr != nil {
		return cmdErr
	}

	fmt.Fprintln(out, view.Render(latest))
	return nil
}

func dispatch(ctx context.Context, name string, args []string) error {
	store := cartstore.MustFromContext(ctx)

	switch name {
	case "list":
		return nil
	case "health":
		if !store.Healthy(ctx) {
			return fmt.Errorf("health: durable store is NOT_SERVING")
		}
		return nil
	case "add":
		p, err := parseProduct(args)
		if err != nil {
			return err
		}
		return store.AddToCart(ctx, p)
	case "inc", "dec":
		if len(args) != 1 {
			return fmt.Errorf("%s takes exactly one item id", name)
		}
		if name == "inc" {
			return store.Increment(ctx, args[0])
		}
		return store.Decrement(ctx, args[0])
	default:
		return fmt.Errorf("unknown command %q\n%s", name, usage)
	}
}

func parseProduct(args []string) (cart.Product, error) {
	fs := pflag.NewFlagSet("add", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var p cart.Product
	fs.StringVar(&p.ID, "id", "", "product id")
	fs.StringVar(&p.Title, "title", "", "product title")
	fs.StringVar(&p.ImageURL, "image", "", "product image URL")
	fs.Float64Var(&p.Price, "price", 0, "unit price")

	if err := fs.Parse(args); err != nil {
		return cart.Product{}, fmt.Errorf("add: %w", err)
	}
	return p, nil
}
