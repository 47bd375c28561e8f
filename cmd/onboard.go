package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/0x0BSoD/newsApp/internal/appentry"
)

func (c *cli) onboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "onboard",
		Short: "Show the onboarding pages and mark onboarding as done",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.onboard(cmd)
		},
	}
}

func (c *cli) onboard(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	for i, p := range appentry.Pages {
		fmt.Fprintf(out, "[%d/%d] %s\n      %s\n", i+1, len(appentry.Pages), p.Title, p.Description)
	}
	return c.app.entry.Save(cmd.Context())
}
