package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"weft/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:          "clean",
	Short:        "Drop the cached fixture outcomes",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := driver.OpenDiskCache(cacheAppName)
		if err != nil {
			return err
		}
		if err := cache.DropAll(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "cache dropped")
		return nil
	},
}
