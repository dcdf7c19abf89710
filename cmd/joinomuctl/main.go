// joinomuctl is the ops CLI: it seeds demo data, assigns patients to
// providers, generates synthetic vitals and verifies provisioning
// invariants. Every command is a thin caller into the same services
// the server runs.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ryanjameskelley/joinomu-sub002/internal/catalog"
	"github.com/ryanjameskelley/joinomu-sub002/internal/config"
	"github.com/ryanjameskelley/joinomu-sub002/internal/database"
	"github.com/ryanjameskelley/joinomu-sub002/internal/logging"
)

var (
	cfg *config.Config
	cat *catalog.Catalog
)

func main() {
	root := &cobra.Command{
		Use:   "joinomuctl",
		Short: "Ops tooling for the JoinOmu scheduling backend",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.Setup()
			cfg = config.Load()

			var err error
			cat, err = catalog.LoadFromFile(cfg.CatalogPath)
			if err != nil {
				return err
			}
			return database.Connect(cfg)
		},
	}

	root.AddCommand(newSeedCommand())
	root.AddCommand(newAssignCommand())
	root.AddCommand(newVitalsCommand())
	root.AddCommand(newVerifyCommand())

	if err := root.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
