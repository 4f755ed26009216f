// Command inventoryctl browses the inventory admin API from a terminal.
//
//	inventoryctl [-url URL] [-token JWT | -email E -password P] list <resource> [-filter k=v ...] [-sort field ...] [-page n] [-limit n]
//	inventoryctl get <resource> <id>
//	inventoryctl message <transaction|product-account-user> <id>
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/inventory_api/pkg/apiclient"
	"github.com/GTDGit/inventory_api/pkg/listquery"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// multiFlag collects a repeatable string flag.
type multiFlag []string

func (m *multiFlag) String() string     { return strings.Join(*m, ",") }
func (m *multiFlag) Set(v string) error { *m = append(*m, v); return nil }

func run(ctx context.Context, args []string, out io.Writer) error {
	global := flag.NewFlagSet("inventoryctl", flag.ContinueOnError)
	baseURL := global.String("url", envOr("INVENTORY_API_URL", "http://localhost:8080"), "API base URL")
	token := global.String("token", os.Getenv("INVENTORY_API_TOKEN"), "bearer token")
	email := global.String("email", "", "admin email, used to log in when no token is given")
	password := global.String("password", os.Getenv("INVENTORY_API_PASSWORD"), "admin password")
	debug := global.Bool("debug", false, "log HTTP traffic")
	if err := global.Parse(args); err != nil {
		return err
	}

	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	rest := global.Args()
	if len(rest) < 2 {
		return errors.New("usage: inventoryctl [flags] list|get|message <resource> ...")
	}

	client := apiclient.New(*baseURL, apiclient.WithToken(*token), apiclient.WithDebug(*debug))
	if *token == "" && *email != "" {
		if err := client.Login(ctx, *email, *password); err != nil {
			return fmt.Errorf("login: %w", err)
		}
	}

	cmd, resource := rest[0], rest[1]
	switch cmd {
	case "list":
		return runList(ctx, client, resource, rest[2:], out)
	case "get":
		id, err := idArg(rest[2:])
		if err != nil {
			return err
		}
		item, err := apiclient.Get[map[string]any](ctx, client, resource, id)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(item)
	case "message":
		id, err := idArg(rest[2:])
		if err != nil {
			return err
		}
		msg, err := apiclient.Message(ctx, client, resource, id)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, msg)
		return err
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runList(ctx context.Context, client *apiclient.Client, resource string, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	var filters, sorts multiFlag
	fs.Var(&filters, "filter", "filter as key=value, repeatable")
	fs.Var(&sorts, "sort", "toggle sort on a field, repeatable (asc, desc, none)")
	page := fs.Int("page", listquery.DefaultPage, "page number")
	limit := fs.Int("limit", listquery.DefaultLimit, "page size")
	if err := fs.Parse(args); err != nil {
		return err
	}

	state := listquery.NewState()
	for _, f := range filters {
		key, value, ok := strings.Cut(f, "=")
		if !ok {
			return fmt.Errorf("invalid filter %q, want key=value", f)
		}
		state.SetDraft(key, value)
	}
	state.CommitFilter()
	for _, field := range sorts {
		state.ToggleOrder(field)
	}
	state.SetPage(*page)

	result, err := apiclient.List[map[string]any](ctx, client, resource, state.Params(*limit))
	if err != nil {
		return err
	}
	return printPage(out, result)
}

func printPage(out io.Writer, page *listquery.Page[map[string]any]) error {
	columns := columnsOf(page.Items)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.ToUpper(strings.Join(columns, "\t")))
	for _, item := range page.Items {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = cell(item[col])
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	p := page.PaginationData
	footer := fmt.Sprintf("page %d/%d, %d items", p.CurrentPage, p.TotalPage, p.TotalItems)
	if page.OrderData.OrderBy != "" {
		footer += fmt.Sprintf(", sorted by %s %s", page.OrderData.OrderBy, page.OrderData.OrderDirection)
	}
	_, err := fmt.Fprintln(out, footer)
	return err
}

// columnsOf returns the scalar keys of the listed items with id first.
func columnsOf(items []map[string]any) []string {
	seen := map[string]bool{}
	var cols []string
	for _, item := range items {
		for k, v := range item {
			switch v.(type) {
			case map[string]any, []any:
				continue
			}
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	slices.SortFunc(cols, func(a, b string) int {
		if a == "id" {
			return -1
		}
		if b == "id" {
			return 1
		}
		return strings.Compare(a, b)
	})
	return cols
}

func cell(v any) string {
	switch t := v.(type) {
	case nil:
		return "-"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func idArg(args []string) (int, error) {
	if len(args) != 1 {
		return 0, errors.New("expected exactly one id")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
