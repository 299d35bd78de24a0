package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

// ErrValidationFailed marks runs whose outcome was already reported through
// the logger: no tests were found or at least one failed validation.
var ErrValidationFailed = errors.New("validation failed")

// ErrNoTests is returned when the results directory held no result files.
var ErrNoTests = fmt.Errorf("%w: no tests found", ErrValidationFailed)

func newRootCmd() *cobra.Command {
	var opts validateOptions

	cmd := &cobra.Command{
		Use:   "matrixcheck",
		Short: "Validate Moshi test matrix results",
		Long: "matrixcheck walks a results directory written by the test matrix runner, validates every " +
			"result.json and its sibling logs, and writes a markdown report with matrix coverage and issue counts.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, opts)
		},
	}
	opts.bind(cmd)

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newMCPCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}
