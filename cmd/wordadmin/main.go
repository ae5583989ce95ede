// Command wordadmin manages the blocked-word list: add or update a word with
// a severity tier, deactivate a word, or list the active set. Changes reach
// running moderators on their next cache refresh.
//
// Usage:
//
//	wordadmin add -word spamword -severity high
//	wordadmin remove -word spamword
//	wordadmin list
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/threadkit/comments/internal/config"
	"github.com/threadkit/comments/internal/db"
	"github.com/threadkit/comments/internal/moderation"
	"github.com/threadkit/comments/internal/wordlist"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}

	pg, err := db.Open(cfg.PostgresDSN)
	if err != nil {
		fatal(err)
	}
	defer pg.Close()

	store := wordlist.NewStore(pg)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch os.Args[1] {
	case "add":
		fs := flag.NewFlagSet("add", flag.ExitOnError)
		word := fs.String("word", "", "word to block")
		severity := fs.String("severity", "medium", "severity tier: low, medium, high, critical")
		fs.Parse(os.Args[2:])

		if err := store.Upsert(ctx, *word, moderation.Severity(*severity)); err != nil {
			fatal(err)
		}
		fmt.Printf("blocked %q (%s)\n", *word, *severity)

	case "remove":
		fs := flag.NewFlagSet("remove", flag.ExitOnError)
		word := fs.String("word", "", "word to deactivate")
		fs.Parse(os.Args[2:])

		if err := store.Deactivate(ctx, *word); err != nil {
			fatal(err)
		}
		fmt.Printf("deactivated %q\n", *word)

	case "list":
		entries, err := store.ListActive(ctx)
		if err != nil {
			fatal(err)
		}
		for _, e := range entries {
			fmt.Printf("%-30s %s\n", e.Word, e.Severity)
		}
		fmt.Printf("%d active words\n", len(entries))

	default:
		usage()
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: wordadmin <add|remove|list> [flags]")
	os.Exit(2)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "wordadmin:", err)
	os.Exit(1)
}
