package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kersley/attend/internal/store"
)

var registrationsJSON bool

var registrationsCmd = &cobra.Command{
	Use:   "registrations",
	Short: "List registrations stored on this machine",
	Long: `List the registrations already submitted from this machine.

Examples:
  # Human-readable listing
  attend registrations

  # JSON for scripting
  attend registrations --json | jq '.[].email'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.NewDB(cfg.DatabasePath())
		if err != nil {
			return fmt.Errorf("opening registration database: %w", err)
		}
		defer func() {
			_ = db.Close()
		}()

		summaries, err := db.List(context.Background())
		if err != nil {
			return fmt.Errorf("listing registrations: %w", err)
		}

		if registrationsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(summaries)
		}

		if len(summaries) == 0 {
			fmt.Println("No registrations stored.")
			return nil
		}
		for _, s := range summaries {
			fmt.Printf("%s  %s  (submitted %s)\n",
				s.ID, s.Email, s.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func init() {
	registrationsCmd.Flags().BoolVar(&registrationsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(registrationsCmd)
}
