package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for crimetrends.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crimetrends",
		Short: "Publish a document on recorded crime trends in London's boroughs",
		Long: `crimetrends turns the London Datastore's recorded offences by borough into a
published document.

A build downloads the CSV, cleans and aggregates it, renders a small-multiples
chart of every borough, publishes an interactive grid with one panel per
borough and offence type, and writes a Markdown article embedding both.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewBuildCmd())
	cmd.AddCommand(NewVerifyCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
