// Command sqlrow runs statements against SQLite and prints typed rows.
package main

import (
	"os"

	"github.com/roach88/sqlrow/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	err := cmd.Execute()
	if err == nil {
		return
	}

	format, _ := cmd.PersistentFlags().GetString("format")
	f := &cli.OutputFormatter{Format: format, Writer: os.Stderr}
	if format == "json" {
		f.Writer = os.Stdout
	}
	_ = f.Error(cli.ErrorCode(err), err.Error(), nil)
	os.Exit(cli.GetExitCode(err))
}
