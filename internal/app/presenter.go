package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-faster/errors"

	"github.com/etec-programacion-3/electrotech-client/internal/domain/product"
	"github.com/etec-programacion-3/electrotech-client/internal/gateway"
	"github.com/etec-programacion-3/electrotech-client/internal/shop"
)

// runPresenter is the view projection: a line-oriented terminal UI that
// renders the client's state and forwards intents. It holds no business
// state of its own.
func runPresenter(ctx context.Context, client *shop.Client) error {
	var out io.Writer = os.Stdout

	client.OnChange(func() { render(out, client) })
	client.OnError(func(err error) {
		fmt.Fprintf(out, "! fetch failed: %v\n", err)
	})
	client.Start()
	render(out, client)

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		fmt.Fprint(out, "> ")
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if err := dispatch(ctx, out, client, line); err != nil {
				if err == errQuit {
					return nil
				}
				fmt.Fprintf(out, "! %v\n", err)
			}
		}
	}
}

var errQuit = fmt.Errorf("quit")

// dispatch handles exactly one input line. It never reads from stdin itself;
// the single reader goroutine in runPresenter owns that fd, which is why
// checkout confirmation is a separate command rather than an inline prompt.
func dispatch(ctx context.Context, out io.Writer, client *shop.Client, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "quit", "exit":
		return errQuit
	case "help":
		printHelp(out)
	case "register":
		if len(args) < 5 {
			return fmt.Errorf("usage: register <username> <email> <password> <first> <last>")
		}
		if err := client.Register(ctx, gateway.Registration{
			Username: args[0], Email: args[1], Password: args[2],
			FirstName: args[3], LastName: args[4],
		}); err != nil {
			return err
		}
		fmt.Fprintln(out, "registered — log in to continue")
	case "login":
		if len(args) != 2 {
			return fmt.Errorf("usage: login <username> <password>")
		}
		return client.Login(ctx, args[0], args[1])
	case "logout":
		client.Logout()
	case "view":
		if len(args) != 1 {
			return fmt.Errorf("usage: view catalog|cart|orders|admin")
		}
		client.SetView(shop.View(args[0]))
	case "search":
		client.Search(strings.Join(args, " "))
	case "category":
		client.SelectCategory(strings.Join(args, " "))
	case "next":
		client.NextPage()
	case "prev":
		client.PrevPage()
	case "show":
		if len(args) != 1 {
			return fmt.Errorf("usage: show <product-id>")
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("bad product id %q", args[0])
		}
		p, err := client.Product(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "#%d %s — $%s (stock %d)\n", p.ID, p.Name, p.Price.StringFixed(2), p.Stock)
		if p.Brand != "" {
			fmt.Fprintf(out, "   brand: %s\n", p.Brand)
		}
		if p.Category != "" {
			fmt.Fprintf(out, "   category: %s\n", p.Category)
		}
		if p.Description != "" {
			fmt.Fprintf(out, "   %s\n", p.Description)
		}
	case "order":
		if len(args) != 1 {
			return fmt.Errorf("usage: order <order-id>")
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("bad order id %q", args[0])
		}
		o, err := client.Order(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "order #%d [%s] %s — total $%s\n",
			o.ID, o.Status, o.CreatedAt.Format("2006-01-02"), o.Total.StringFixed(2))
		for _, it := range o.Items {
			fmt.Fprintf(out, "   %dx %s @ $%s\n", it.Quantity, it.Product.Name, it.Product.Price.StringFixed(2))
		}
	case "add":
		if len(args) < 1 {
			return fmt.Errorf("usage: add <product-id> [quantity]")
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("bad product id %q", args[0])
		}
		qty := 1
		if len(args) > 1 {
			if qty, err = strconv.Atoi(args[1]); err != nil || qty < 1 {
				return fmt.Errorf("bad quantity %q", args[1])
			}
		}
		if err := client.AddToCart(ctx, id, qty); err != nil {
			return err
		}
		fmt.Fprintln(out, "added to cart")
	case "checkout":
		total, err := client.BeginCheckout()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "total is $%s — type 'confirm' to place the order or 'decline' to abandon\n", total.StringFixed(2))
	case "confirm":
		o, err := client.ConfirmCheckout(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "order #%d placed\n", o.ID)
	case "decline":
		if err := client.DeclineCheckout(); err != nil {
			return err
		}
		fmt.Fprintln(out, "checkout abandoned")
	case "new-product":
		if len(args) < 6 {
			return fmt.Errorf("usage: new-product <name> <description> <brand> <category> <price> <stock> [image-url]")
		}
		imageURL := ""
		if len(args) > 6 {
			imageURL = args[6]
		}
		draft, err := product.ParseDraft(args[0], args[1], args[2], args[3], args[4], args[5], imageURL)
		if err != nil {
			return err
		}
		if err := client.CreateProduct(ctx, draft); err != nil {
			var privErr *gateway.PrivilegeError
			if errors.As(err, &privErr) {
				return fmt.Errorf("not permitted: administrator capability required")
			}
			return err
		}
		fmt.Fprintln(out, "product created")
	default:
		return fmt.Errorf("unknown command %q (try help)", cmd)
	}
	return nil
}

func render(out io.Writer, client *shop.Client) {
	switch client.View() {
	case shop.ViewLogin:
		fmt.Fprintln(out, "-- not logged in: register | login")
	case shop.ViewCatalog:
		f := client.Filter()
		fmt.Fprintf(out, "-- catalog (page %d/%d", f.Page, client.TotalPages())
		if f.Search != "" {
			fmt.Fprintf(out, ", search %q", f.Search)
		}
		if f.Category != "" {
			fmt.Fprintf(out, ", category %q", f.Category)
		}
		fmt.Fprintln(out, ")")
		products := client.Products()
		if len(products) == 0 {
			fmt.Fprintln(out, "   no products found")
		}
		for _, p := range products {
			fmt.Fprintf(out, "   #%d %s — $%s (stock %d)\n", p.ID, p.Name, p.Price.StringFixed(2), p.Stock)
		}
	case shop.ViewCart:
		c := client.Cart()
		if c.Empty() {
			fmt.Fprintln(out, "-- cart is empty")
			return
		}
		fmt.Fprintf(out, "-- cart (%d items, total $%s)\n", c.Len(), c.Total().StringFixed(2))
		for _, it := range c.Items {
			fmt.Fprintf(out, "   %dx %s @ $%s\n", it.Quantity, it.Product.Name, it.Product.Price.StringFixed(2))
		}
	case shop.ViewOrders:
		orders := client.Orders()
		if len(orders) == 0 {
			fmt.Fprintln(out, "-- no orders yet")
			return
		}
		fmt.Fprintln(out, "-- order history")
		for _, o := range orders {
			fmt.Fprintf(out, "   #%d [%s] %s — $%s\n",
				o.ID, o.Status, o.CreatedAt.Format("2006-01-02"), o.Total.StringFixed(2))
		}
	case shop.ViewAdmin:
		fmt.Fprintln(out, "-- admin: new-product <name> <description> <brand> <category> <price> <stock> [image-url]")
	}
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, `commands:
  register <username> <email> <password> <first> <last>
  login <username> <password> | logout
  view catalog|cart|orders|admin
  search <term> | category <name> | next | prev
  show <product-id> | order <order-id>
  add <product-id> [quantity]
  checkout | confirm | decline
  new-product <name> <description> <brand> <category> <price> <stock> [image-url]
  quit`)
}
