package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/cli"
)

func runPurge(args []string) int {
	fs := flag.NewFlagSet("purge", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 30*time.Second, "Command timeout")
	prefix := fs.String("prefix", "", "Key prefix to delete, for example product.42.")
	yes := fs.Bool("yes", false, "Delete without the dry-run preview")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "purge does not accept positional arguments")
		return 2
	}
	keyPrefix := strings.TrimSpace(*prefix)
	if keyPrefix == "" {
		fmt.Fprintln(os.Stderr, "--prefix is required")
		return 2
	}

	ctx, cancel, pool, err := connectReadPool(*timeout, envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer cancel()
	defer pool.Close()

	if !*yes {
		rows, err := pool.CountTranslationsByPrefix(ctx, keyPrefix)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to preview purge: %v\n", err)
			return 1
		}
		fmt.Printf("purge prefix=%s rows=%d dry_run=true (rerun with --yes to delete)\n", keyPrefix, rows)
		return 0
	}

	deleted, err := pool.DeleteTranslationsByPrefix(ctx, keyPrefix)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Purge failed: %v\n", err)
		return 1
	}
	fmt.Printf("purge prefix=%s deleted=%d\n", keyPrefix, deleted)
	return 0
}
