package main

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ryanjameskelley/joinomu-sub002/internal/database"
	"github.com/ryanjameskelley/joinomu-sub002/internal/features/careteam"
	"github.com/ryanjameskelley/joinomu-sub002/internal/models"
)

func newAssignCommand() *cobra.Command {
	var treatment string

	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Round-robin every patient onto an active provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := database.MigrateModels(careteam.New().Models()); err != nil {
				return err
			}

			var patients []models.Patient
			if err := database.DB.Order("created_at ASC").Find(&patients).Error; err != nil {
				return err
			}
			var providers []models.Provider
			if err := database.DB.Where("active = true").Order("created_at ASC").Find(&providers).Error; err != nil {
				return err
			}
			if len(providers) == 0 {
				return errors.New("no active providers to assign to; run seed first")
			}

			service := careteam.NewAssignmentService(database.DB, cat)

			assigned, skipped := 0, 0
			for i, p := range patients {
				provider := providers[i%len(providers)]
				_, err := service.Assign(p.ID, provider.ID, treatment)
				if errors.Is(err, careteam.ErrAlreadyAssigned) {
					skipped++
					continue
				}
				if err != nil {
					return err
				}
				assigned++
			}

			slog.Info("assignment completed",
				"patients", len(patients), "providers", len(providers),
				"treatment", treatment, "assigned", assigned, "skipped", skipped)
			return nil
		},
	}

	cmd.Flags().StringVar(&treatment, "treatment", "weight_loss", "treatment type to assign")
	return cmd
}
