package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/DeutscheModelUnitedNations/badgeGenerator/model"
)

var brandsCmd = &cobra.Command{
	Use:   "brands",
	Short: "List brands and document types",
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now()
		for _, b := range model.Brands() {
			info, _ := model.LookupBrand(b, now)
			swatch := styles.renderer.NewStyle().Foreground(lipgloss.Color(info.PrimaryColor)).Render("■")
			fmt.Fprintf(cmd.OutOrStdout(), "%s %-7s %s\n", swatch, styles.heading.Render(string(b)), info.ConferenceName)
		}
		fmt.Fprintln(cmd.OutOrStdout())
		for _, t := range model.DocumentTypes() {
			fmt.Fprintln(cmd.OutOrStdout(), styles.info.Render(string(t)))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(brandsCmd)
}
