package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matheus3301/wppdash/internal/model"
	"github.com/matheus3301/wppdash/internal/router"
	"github.com/matheus3301/wppdash/internal/state"
)

var errUsage = errors.New("invalid arguments; run dashctl --help")

func (c *cli) run(ctx context.Context, args []string) error {
	switch args[0] {
	case "login":
		if len(args) != 3 {
			return errUsage
		}
		return c.login(ctx, args[1], args[2])
	case "logout":
		return c.logout()
	case "whoami":
		return c.whoami()
	case "data":
		return c.data(ctx)
	case "sidebar":
		return c.sidebar(ctx)
	case "contacts":
		if len(args) < 2 {
			return errUsage
		}
		return c.contacts(ctx, args[1], args[2:])
	case "groups":
		if len(args) < 2 {
			return errUsage
		}
		return c.groups(ctx, args[1], args[2:])
	case "open":
		if len(args) != 2 {
			return errUsage
		}
		return c.open(args[1])
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

// enter navigates to a view the command belongs to. The guard refuses
// protected views while logged out.
func (c *cli) enter(path string) error {
	loc, err := c.router.Push(path)
	if err != nil {
		return err
	}
	if loc.Name == router.RouteLogin {
		return errors.New("not logged in; run dashctl login")
	}
	return nil
}

func (c *cli) login(ctx context.Context, email, password string) error {
	if err := c.router.Replace(router.RouteLogin); err != nil {
		return err
	}
	res, err := c.root.Login(ctx, model.Credentials{Email: email, Password: password})
	if err != nil {
		return err
	}
	if err := c.router.Replace(router.RouteDashboard); err != nil {
		return err
	}
	if c.jsonOut {
		outputJSON(res.User)
		return nil
	}
	fmt.Printf("Logged in as %s\n", c.root.UserName())
	return nil
}

func (c *cli) logout() error {
	if err := c.root.Logout(); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

func (c *cli) whoami() error {
	if c.jsonOut {
		outputJSON(map[string]any{
			"authenticated": c.root.IsAuthenticated(),
			"user":          c.root.CurrentUser(),
		})
		return nil
	}
	if !c.root.IsAuthenticated() {
		fmt.Println("Not logged in.")
		return nil
	}
	fmt.Printf("User: %s\n", c.root.UserName())
	if u := c.root.CurrentUser(); u != nil && u.Email != "" {
		fmt.Printf("Email: %s\n", u.Email)
	}
	return nil
}

func (c *cli) data(ctx context.Context) error {
	if err := c.enter("/"); err != nil {
		return err
	}
	data, err := c.root.GetData(ctx)
	if err != nil {
		return err
	}
	outputJSON(data)
	return nil
}

func (c *cli) sidebar(ctx context.Context) error {
	if err := c.enter("/messages"); err != nil {
		return err
	}
	items, err := c.root.FetchSidebar(ctx)
	if err != nil {
		return err
	}
	if c.jsonOut {
		outputJSON(items)
		return nil
	}
	if len(items) == 0 {
		fmt.Println("No conversations.")
		return nil
	}
	for _, it := range items {
		unread := ""
		if n, ok := it.UnreadCount(); ok && n > 0 {
			unread = fmt.Sprintf(" (%d unread)", n)
		}
		last, _ := it.LastMessage()
		fmt.Printf("%-8s %-6d %-24s %s%s\n", it.Type(), it.ID(), it.Name(), last, unread)
	}
	return nil
}

func listFlags(name string, args []string) (state.ListParams, []string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	page := fs.Int("page", 0, "page number")
	search := fs.String("search", "", "search term")
	if err := fs.Parse(args); err != nil {
		return state.ListParams{}, nil, err
	}
	return state.ListParams{Page: *page, Search: *search}, fs.Args(), nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// leadingID splits "<id> --flags..." into the id and the remaining flags.
func leadingID(args []string) (int64, []string, error) {
	if len(args) == 0 {
		return 0, nil, errUsage
	}
	id, err := parseID(args[0])
	return id, args[1:], err
}

func contactInput(name string, args []string) (model.ContactInput, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var in model.ContactInput
	fs.StringVar(&in.Name, "name", "", "contact name")
	fs.StringVar(&in.Phone, "phone", "", "phone number")
	fs.StringVar(&in.Email, "email", "", "email address")
	if err := fs.Parse(args); err != nil {
		return in, err
	}
	if in.Name == "" {
		return in, errors.New("--name is required")
	}
	return in, nil
}

func (c *cli) contacts(ctx context.Context, sub string, args []string) error {
	if err := c.enter("/contacts"); err != nil {
		return err
	}
	store := c.root.Contacts

	switch sub {
	case "list":
		p, _, err := listFlags("contacts list", args)
		if err != nil {
			return err
		}
		if _, err := store.FetchList(ctx, p); err != nil {
			return err
		}
		if c.jsonOut {
			outputJSON(map[string]any{"data": store.All(), "pagination": store.Pagination()})
			return nil
		}
		printContacts(store.All())
		pg := store.Pagination()
		fmt.Printf("Page %d/%d, %d total\n", pg.CurrentPage, pg.LastPage, pg.Total)
		return nil
	case "create":
		in, err := contactInput("contacts create", args)
		if err != nil {
			return err
		}
		ct, err := store.Create(ctx, in)
		if err != nil {
			return err
		}
		c.printContact(ct)
		return nil
	case "update":
		id, rest, err := leadingID(args)
		if err != nil {
			return err
		}
		in, err := contactInput("contacts update", rest)
		if err != nil {
			return err
		}
		ct, err := store.Update(ctx, id, in)
		if err != nil {
			return err
		}
		c.printContact(ct)
		return nil
	case "delete":
		id, _, err := leadingID(args)
		if err != nil {
			return err
		}
		if err := store.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Printf("Contact %d deleted.\n", id)
		return nil
	default:
		return fmt.Errorf("unknown contacts subcommand: %s", sub)
	}
}

func (c *cli) printContact(ct model.Contact) {
	if c.jsonOut {
		outputJSON(ct)
		return
	}
	printContacts([]model.Contact{ct})
}

func printContacts(cs []model.Contact) {
	if len(cs) == 0 {
		fmt.Println("No contacts.")
		return
	}
	for _, ct := range cs {
		fmt.Printf("%-6d %-24s %-16s %s\n", ct.ID, ct.Name, ct.Phone, ct.Email)
	}
}

func groupInput(name string, args []string) (model.GroupInput, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var in model.GroupInput
	fs.StringVar(&in.Name, "name", "", "group name")
	fs.StringVar(&in.Description, "description", "", "group description")
	if err := fs.Parse(args); err != nil {
		return in, err
	}
	if in.Name == "" {
		return in, errors.New("--name is required")
	}
	return in, nil
}

func (c *cli) groups(ctx context.Context, sub string, args []string) error {
	store := c.root.Groups

	if sub == "list" || sub == "create" {
		if err := c.enter("/groups"); err != nil {
			return err
		}
	} else {
		id, _, err := leadingID(args)
		if err != nil {
			return err
		}
		path, err := c.router.GroupDetailURL(id)
		if err != nil {
			return err
		}
		if err := c.enter(path); err != nil {
			return err
		}
	}

	switch sub {
	case "list":
		p, _, err := listFlags("groups list", args)
		if err != nil {
			return err
		}
		if _, err := store.FetchList(ctx, p); err != nil {
			return err
		}
		if c.jsonOut {
			outputJSON(store.All())
			return nil
		}
		if len(store.All()) == 0 {
			fmt.Println("No groups.")
		}
		for _, g := range store.All() {
			fmt.Printf("%-6d %-24s %s\n", g.ID, g.Name, g.Description)
		}
		return nil
	case "show":
		id, _, _ := leadingID(args)
		g, err := store.FetchOne(ctx, id)
		if err != nil {
			return err
		}
		c.printGroup(*g)
		return nil
	case "create":
		in, err := groupInput("groups create", args)
		if err != nil {
			return err
		}
		g, err := store.Create(ctx, in)
		if err != nil {
			return err
		}
		c.printGroup(g)
		return nil
	case "update":
		id, rest, _ := leadingID(args)
		in, err := groupInput("groups update", rest)
		if err != nil {
			return err
		}
		g, err := store.Update(ctx, id, in)
		if err != nil {
			return err
		}
		c.printGroup(g)
		return nil
	case "delete":
		id, _, _ := leadingID(args)
		if err := store.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Printf("Group %d deleted.\n", id)
		return nil
	case "add-members":
		id, rest, _ := leadingID(args)
		if len(rest) == 0 {
			return errUsage
		}
		var ids []int64
		for _, s := range rest {
			cid, err := parseID(s)
			if err != nil {
				return err
			}
			ids = append(ids, cid)
		}
		g, err := store.AddMembers(ctx, id, ids)
		if err != nil {
			return err
		}
		c.printGroup(*g)
		return nil
	case "remove-member":
		id, rest, _ := leadingID(args)
		if len(rest) != 1 {
			return errUsage
		}
		cid, err := parseID(rest[0])
		if err != nil {
			return err
		}
		g, err := store.RemoveMember(ctx, id, cid)
		if err != nil {
			return err
		}
		c.printGroup(*g)
		return nil
	case "messages":
		id, _, _ := leadingID(args)
		msgs, err := store.FetchMessages(ctx, id)
		if err != nil {
			return err
		}
		c.printMessages(msgs)
		return nil
	case "send":
		id, rest, _ := leadingID(args)
		if len(rest) == 0 {
			return errUsage
		}
		res, err := store.SendMessage(ctx, id, model.MessageInput{Text: strings.Join(rest, " ")})
		if err != nil {
			return err
		}
		if c.jsonOut {
			outputJSON(res)
			return nil
		}
		if !res.Success {
			return fmt.Errorf("message not sent: %s", res.Error)
		}
		fmt.Println("Message sent.")
		return nil
	default:
		return fmt.Errorf("unknown groups subcommand: %s", sub)
	}
}

func (c *cli) printGroup(g model.Group) {
	if c.jsonOut {
		outputJSON(g)
		return
	}
	fmt.Printf("Group:   %d %s\n", g.ID, g.Name)
	if g.Description != "" {
		fmt.Printf("About:   %s\n", g.Description)
	}
	fmt.Printf("Members: %d\n", len(g.Members))
	for _, m := range g.Members {
		fmt.Printf("  %-6d %s\n", m.ID, m.Name)
	}
}

func (c *cli) printMessages(msgs []model.Message) {
	if c.jsonOut {
		outputJSON(msgs)
		return
	}
	if len(msgs) == 0 {
		fmt.Println("No messages.")
		return
	}
	for _, m := range msgs {
		fmt.Printf("[%s] %s (%s)\n", m.CreatedAt, m.Text, m.Status)
	}
}

func (c *cli) open(path string) error {
	loc, err := c.router.Push(path)
	if err != nil {
		return err
	}
	if c.jsonOut {
		outputJSON(map[string]any{"name": loc.Name, "path": loc.Path, "params": loc.Params})
		return nil
	}
	fmt.Printf("%s %s\n", loc.Name, loc.Path)
	return nil
}
