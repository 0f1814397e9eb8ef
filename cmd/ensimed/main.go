// Command ensimed is the server process: it loads a project config, starts
// the Analyzer/Indexer/Debug actors, and accepts client connections on a
// TCP port advertised through a port-file, the way spec.md §5/§6 describe.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ensimed",
		Short: "JVM editor-assistant backend: symbol index, analyzer, debugger",
	}
	cmd.AddCommand(serveCmd())
	cmd.AddCommand(configCmd())
	return cmd
}

func resolveConfigPath(flag string) string {
	if flag != "" {
		return flag
	}
	if v := os.Getenv("ENSIMED_CONFIG"); v != "" {
		return v
	}
	return ".ensime"
}
