package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"github.com/shinyyama/virtual-fridge/internal/apiclient"
	"github.com/shinyyama/virtual-fridge/internal/view"
)

type clientConfig struct {
	APIURL     string        `env:"FRIDGE_API_URL" envDefault:"http://localhost:8080"`
	CatalogURL string        `env:"FRIDGE_CATALOG_URL" envDefault:"http://localhost:8000"`
	Timeout    time.Duration `env:"FRIDGE_TIMEOUT" envDefault:"15s"`
}

const help = `commands:
  list                 check the server and reload items
  add <name>           put a new item in the fridge
  toggle <id>          move an item in or out of the fridge
  rm <id>              delete an item
  door                 open or close the door
  search <query>       search the catalog (a category name works too)
  clear                leave search results
  categories           load category shortcuts
  stats                load statistics
  dismiss              hide the error banner
  help                 show this text
  quit                 exit`

func main() {
	_ = godotenv.Load()

	var cfg clientConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("config load error: %v", err)
	}
	flag.StringVar(&cfg.APIURL, "api", cfg.APIURL, "inventory api base url")
	flag.StringVar(&cfg.CatalogURL, "catalog", cfg.CatalogURL, "catalog service base url")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := apiclient.New(cfg.APIURL, cfg.CatalogURL, nil)
	f := view.NewFridge(client, client)
	_ = f.CheckHealth(ctx)
	_ = f.Load(ctx)
	render(f, os.Stdout)

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	for {
		fmt.Fprint(os.Stdout, "> ")
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			reqCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
			quit := execute(reqCtx, f, line, os.Stdout)
			cancel()
			if quit {
				return
			}
		}
	}
}

// execute runs one command line and redraws. It reports whether the user asked to quit.
func execute(ctx context.Context, f *view.Fridge, line string, out io.Writer) bool {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "":
		return false
	case "quit", "exit", "q":
		return true
	case "help", "?":
		fmt.Fprintln(out, help)
		return false
	case "list", "ls":
		_ = f.CheckHealth(ctx)
		_ = f.Load(ctx)
	case "add":
		_ = f.Add(ctx, arg)
	case "toggle", "mv":
		if id, ok := parseID(arg, out); ok {
			_ = f.Toggle(ctx, id)
		}
	case "rm", "del", "delete":
		if id, ok := parseID(arg, out); ok {
			_ = f.Remove(ctx, id)
		}
	case "door":
		f.ToggleDoor()
	case "search":
		if isCategory(f, arg) {
			_ = f.SearchCategory(ctx, arg)
		} else {
			_ = f.Search(ctx, arg)
		}
	case "clear":
		f.ClearSearch()
	case "categories", "cats":
		_ = f.LoadCategories(ctx)
	case "stats":
		_ = f.LoadStatistics(ctx)
	case "dismiss":
		f.DismissError()
	default:
		fmt.Fprintf(out, "unknown command %q, try help\n", cmd)
		return false
	}
	render(f, out)
	return false
}

func parseID(arg string, out io.Writer) (uint64, bool) {
	id, err := strconv.ParseUint(strings.TrimPrefix(arg, "#"), 10, 64)
	if err != nil || id == 0 {
		fmt.Fprintf(out, "invalid id %q\n", arg)
		return 0, false
	}
	return id, true
}

func isCategory(f *view.Fridge, arg string) bool {
	for _, c := range f.Categories() {
		if strings.EqualFold(c, arg) {
			return true
		}
	}
	return false
}

func render(f *view.Fridge, out io.Writer) {
	if err := f.Render(out); err != nil {
		log.Printf("render error: %v", err)
	}
}
