package main

import (
	"github.com/spf13/cobra"

	"github.com/saurabhrpi/startup-ecosystem-intelligence/internal/version"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "insightd",
		Short: "Startup ecosystem query interpretation and narrative service",
		Long: `insightd normalizes ecosystem search queries, forwards them to the ranking
service and turns the returned narrative and matches into structured,
grounded recommendations.`,
		SilenceUsage: true,
	}
	root.AddCommand(
		newServeCmd(),
		newNormalizeCmd(),
		newPresentCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print build information",
			Run: func(cmd *cobra.Command, _ []string) {
				cmd.Println(version.String())
			},
		},
	)
	return root
}
