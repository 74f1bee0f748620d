package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pgcall/pgcall/pkg/pgcall"
)

var operationsCmd = &cobra.Command{
	Use:   "operations",
	Short: "List the registered operations",
	Long: `Lists every registered operation with its argument signature.

Examples:
  pgcall operations`,
	Args: cobra.NoArgs,
	RunE: runOperations,
}

func init() {
	rootCmd.AddCommand(operationsCmd)
}

func runOperations(cmd *cobra.Command, args []string) error {
	catalog, err := operationCatalog()
	if err != nil {
		return err
	}

	for _, op := range catalog {
		fmt.Println(operationSignature(op))
	}
	return nil
}

// operationSignature renders an operation's argument list, for example
// "greeting(name string)".
func operationSignature(op pgcall.Operation) string {
	var b strings.Builder
	b.WriteString(op.Name())
	b.WriteString("(")
	for i, arg := range op.Args() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(arg.Name)
		b.WriteString(" ")
		b.WriteString(arg.Kind.String())
	}
	b.WriteString(")")
	return b.String()
}
