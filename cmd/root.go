package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the drivecheck application
var rootCmd = &cobra.Command{
	Use:   "drivecheck",
	Short: "Verifies Google Drive OAuth credentials end to end",
	Long: `drivecheck checks that a set of stored Google OAuth credentials can
authenticate against the Google Drive API and perform the operations an
application relies on: listing files, reading account quota, reading a
configured root folder, and creating, sharing and deleting a test folder.

It performs one run, prints a report and exits.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "drivecheck version %s\n" .Version}}`)

	rootCmd.SetArgs(defaultArgs(os.Args[1:]))

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// defaultArgs runs the check command when no subcommand is given, including
// when only check flags such as --plain are passed.
func defaultArgs(args []string) []string {
	if len(args) == 0 {
		return []string{"check"}
	}
	switch args[0] {
	case "-h", "--help", "-v", "--version":
		return args
	}
	if strings.HasPrefix(args[0], "-") {
		return append([]string{"check"}, args...)
	}
	return args
}

func init() {
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newVersionCmd())
}
