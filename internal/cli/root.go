package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const asciiLogo = `
                       _ _
 _ __   __ _  ___ __ _| | |
| '_ \ / _' |/ __/ _' | | |
| |_) | (_| | (_| (_| | | |
| .__/ \__, |\___\__,_|_|_|
|_|    |___/`

var rootCmd = &cobra.Command{
	Use:   "pgcall",
	Short: "Typed command execution against PostgreSQL",
	Long: asciiLogo + `

pgcall dispatches named, typed operations: local built-ins such as greeting
and now_ms, and store-backed operations such as query_proxy that forward
query text to PostgreSQL verbatim. Every call produces exactly one result:
a typed value or a classified error, never both.

Operation behavior is tuned through bounded settings (persisted in
pgcall.yaml, overridable per call with --set); out-of-range values are
rejected before anything runs.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or setting value
  11 - Database connection failed
  12 - Unknown operation
  13 - Invalid call arguments
  14 - Query execution failed
  15 - Unexpected result shape
  16 - Operation execution failed`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	// --help stays available but without the -h shorthand, which belongs
	// to --host on connection-aware commands.
	rootCmd.PersistentFlags().Bool("help", false, "Help for pgcall")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
