package app

import (
	"fmt"
	"os"
	"strings"
)

// Run executes the CLI command and returns a process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "help", "--help", "-h":
		printUsage()
		return 0
	case "health":
		return runHealth(args[1:])
	case "sync":
		return runSync(args[1:])
	case "resync":
		return runResync(args[1:])
	case "validate":
		return runValidate(args[1:])
	case "show":
		return runShow(args[1:])
	case "stats":
		return runStats(args[1:])
	case "languages":
		return runLanguages(args[1:])
	case "purge":
		return runPurge(args[1:])
	case "serve":
		return runServe(args[1:])
	case "hash-token":
		return runHashToken(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "i18nsync CLI")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  i18nsync <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  health     Verify database connectivity")
	fmt.Fprintln(os.Stderr, "  sync       Sync one unit or a unit file into every target language")
	fmt.Fprintln(os.Stderr, "  resync     Fill missing languages for stored canonical rows")
	fmt.Fprintln(os.Stderr, "  validate   Check unit files without touching the database")
	fmt.Fprintln(os.Stderr, "  show       Print stored translations of one key")
	fmt.Fprintln(os.Stderr, "  stats      Print row counts per language")
	fmt.Fprintln(os.Stderr, "  languages  List supported languages and providers")
	fmt.Fprintln(os.Stderr, "  purge      Delete every row under a key prefix")
	fmt.Fprintln(os.Stderr, "  serve      Start Echo API server")
	fmt.Fprintln(os.Stderr, "  hash-token Print the bcrypt hash for API_TOKEN_HASH")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Use \"i18nsync <command> -h\" for command-specific flags.")
}
