package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"docharvest/pkg/cache"
	"docharvest/pkg/ui"
)

// cacheCmd represents the cache command
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage cached analysis responses",
}

// cacheClearCmd represents the cache clear command
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached Textract response",
	RunE:  runCacheClear,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	r, err := startRun("cache", nil)
	if err != nil {
		return err
	}
	defer r.Close()

	store, err := cache.NewStore(r.cfg.Textract.CacheDir)
	if err != nil {
		return err
	}
	removed, err := store.Clear()
	if err != nil {
		return err
	}
	ui.PrintSuccess(fmt.Sprintf("Removed %d cached responses", removed))
	return nil
}
