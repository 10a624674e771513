package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"bookregistry/internal/config"
	"bookregistry/internal/entity"
	"bookregistry/internal/httpx"
	"bookregistry/internal/platform/notion"
	"bookregistry/internal/platform/openlibrary"
	"bookregistry/internal/registry"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type cli struct {
	cfg     *config.Config
	log     zerolog.Logger
	out     io.Writer
	token   string
	timeout time.Duration
}

func newRootCmd(cfg *config.Config, log zerolog.Logger, out io.Writer) *cobra.Command {
	c := &cli{cfg: cfg, log: log, out: out}

	rootCmd := &cobra.Command{
		Use:          "register",
		Short:        "Register book metadata in a Notion database",
		SilenceUsage: true,
	}
	rootCmd.SetOut(out)
	rootCmd.PersistentFlags().StringVar(&c.token, "token", "", "Notion access token (defaults to NOTION_TOKEN)")
	rootCmd.PersistentFlags().DurationVar(&c.timeout, "timeout", 0, "Abort the whole command after this long (0 waits forever)")

	rootCmd.AddCommand(c.fileCmd())
	rootCmd.AddCommand(c.isbnCmd())

	return rootCmd
}

func (c *cli) fileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "file <book.json>",
		Short: "Register a book described by a JSON file ('-' reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := readBook(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			ctx, cancel := c.withTimeout(cmd.Context())
			defer cancel()
			return c.register(ctx, book)
		},
	}
}

func (c *cli) isbnCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "isbn <isbn>",
		Short: "Fetch metadata from Open Library and register it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.withTimeout(cmd.Context())
			defer cancel()

			ol := openlibrary.NewClient(c.cfg.OpenLibraryBaseURL, c.cfg.UserAgent, c.cfg.OpenLibraryRPS, c.cfg.OpenLibraryRetries)
			book, err := ol.GetBookByISBN(ctx, strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("lookup %s: %w", args[0], err)
			}

			if dryRun {
				enc := json.NewEncoder(c.out)
				enc.SetIndent("", "  ")
				return enc.Encode(book)
			}
			return c.register(ctx, book)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the fetched book instead of registering it")

	return cmd
}

func (c *cli) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *cli) accessToken() (string, error) {
	if c.token != "" {
		return c.token, nil
	}
	if c.cfg.NotionToken != "" {
		return c.cfg.NotionToken, nil
	}
	return "", errors.New("missing Notion token: pass --token or set NOTION_TOKEN")
}

func (c *cli) register(ctx context.Context, book entity.Book) error {
	token, err := c.accessToken()
	if err != nil {
		return err
	}
	if details := httpx.ValidateStruct(book); details != nil {
		msgs := make([]string, len(details))
		for i, d := range details {
			msgs[i] = d.Message
		}
		return fmt.Errorf("invalid book: %s", strings.Join(msgs, "; "))
	}

	svc := registry.NewService(registry.NotionStores(notion.Config{
		BaseURL:   c.cfg.NotionBaseURL,
		Version:   c.cfg.NotionVersion,
		UserAgent: c.cfg.UserAgent,
	}), c.log)

	created, err := svc.RegisterBook(ctx, book, token)
	if err != nil {
		return err
	}

	if created {
		fmt.Fprintln(c.out, "created")
	} else {
		fmt.Fprintln(c.out, "updated")
	}
	return nil
}

func readBook(stdin io.Reader, path string) (entity.Book, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return entity.Book{}, err
		}
		defer f.Close()
		r = f
	}

	var book entity.Book
	if err := json.NewDecoder(r).Decode(&book); err != nil {
		return entity.Book{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return book, nil
}
