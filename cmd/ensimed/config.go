package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adamchandra/ensime/internal/config"
)

func configCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View project configuration",
	}
	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to the project config file (default .ensime, or $ENSIMED_CONFIG)")
	cmd.AddCommand(configPathCmd(&cfgPath))
	cmd.AddCommand(configShowCmd(&cfgPath))
	return cmd
}

func configPathCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path that would be used",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(resolveConfigPath(*cfgPath))
		},
	}
}

func configShowCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Load and print the resolved project configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(resolveConfigPath(*cfgPath))
			if err != nil {
				fmt.Fprintf(os.Stderr, "error loading config: %s\n", err)
				return err
			}
			fmt.Printf("root:    %s\n", cfg.RootDir)
			fmt.Printf("name:    %s\n", cfg.Name)
			fmt.Printf("module:  %s\n", cfg.ModuleName)
			fmt.Printf("active:  %s\n", cfg.ActiveSubproject)
			fmt.Printf("sources: %v\n", cfg.SourceRoots)
			fmt.Printf("subprojects: %d\n", len(cfg.Subprojects))
			return nil
		},
	}
}
