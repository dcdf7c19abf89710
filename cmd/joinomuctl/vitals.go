package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ryanjameskelley/joinomu-sub002/internal/database"
	"github.com/ryanjameskelley/joinomu-sub002/internal/features/vitals"
	"github.com/ryanjameskelley/joinomu-sub002/internal/models"
)

func newVitalsCommand() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "vitals",
		Short: "Generate synthetic health-metric series for every patient",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := database.MigrateModels(vitals.New().Models()); err != nil {
				return err
			}

			var patients []models.Patient
			if err := database.DB.Find(&patients).Error; err != nil {
				return err
			}

			service := vitals.NewService(database.DB)
			metrics := []string{vitals.MetricWeight, vitals.MetricHeartRate, vitals.MetricSteps}

			total := 0
			for _, p := range patients {
				for _, m := range metrics {
					n, err := service.Generate(p.ID, m, days)
					if err != nil {
						return err
					}
					total += n
				}
			}

			slog.Info("vitals generated", "patients", len(patients), "days", days, "rows", total)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 90, "days of history per metric")
	return cmd
}
