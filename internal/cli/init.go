package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/agenda/internal/config"
	"github.com/example/agenda/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the agenda workspace",
		Long:  `Write .agenda/config.yaml (if missing) and create the database with the current schema.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(configPath)
			if err != nil {
				return err
			}
			if _, err := os.Stat(configPath); os.IsNotExist(err) {
				if err := config.SaveFile(configPath, cfg); err != nil {
					return err
				}
				fmt.Printf("✓ Config written to %s\n", configPath)
			}

			conn, err := db.Open(cfg.DB.Path)
			if err != nil {
				return err
			}
			defer conn.Close()

			version, err := db.CurrentVersion(conn)
			if err != nil {
				return err
			}
			fmt.Printf("✓ Database initialized at %s (schema v%d)\n", cfg.DB.Path, version)
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println(`  agenda user add "Dana Lee" --permission 7 --department ward-3 --facility F1`)
			fmt.Println(`  agenda proposal create "Night shift handover checklist" --author USR-xxxx`)
			return nil
		},
	}
}
