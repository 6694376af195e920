package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/advocaid/assistant/backend/internal/model/category"
	"github.com/advocaid/assistant/backend/internal/model/persona"
)

var categoriesDomain string

var titleStyle = lipgloss.NewStyle().Bold(true)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the advice categories",
	Long: `List categories from CATEGORIES_FILE, or the built-in catalog.

Examples:
  advocaid categories
  advocaid categories --domain career`,
	RunE: func(cmd *cobra.Command, args []string) error {
		items, _, err := loadCategories(cfg.Chat.CategoriesFile)
		if err != nil {
			return err
		}
		store := category.NewMemoryStore(items)
		if categoriesDomain != "" {
			items = store.ListDomain(persona.Domain(categoriesDomain))
		}

		out := cmd.OutOrStdout()
		if len(items) == 0 {
			fmt.Fprintln(out, "No categories found.")
			return nil
		}
		for _, c := range items {
			fmt.Fprintf(out, "%s  %s (%s)\n    %s\n", titleStyle.Render(c.Title), c.ID, c.Domain, c.Description)
		}
		return nil
	},
}

var personasCmd = &cobra.Command{
	Use:   "personas",
	Short: "List the assistant variants",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		store := persona.NewMemoryStore(persona.Seed())
		active, _ := persona.Select(store, cfg.Chat.Persona)
		for _, p := range store.List() {
			marker := " "
			if p.ID == active.ID {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %s  %s: %s\n", marker, titleStyle.Render(p.Name), p.ID, p.Title)
		}
		return nil
	},
}

func init() {
	categoriesCmd.Flags().StringVarP(&categoriesDomain, "domain", "d", "", "legal or career")
}
