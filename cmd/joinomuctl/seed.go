package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ryanjameskelley/joinomu-sub002/internal/database"
	"github.com/ryanjameskelley/joinomu-sub002/internal/dto"
	"github.com/ryanjameskelley/joinomu-sub002/internal/features/medications"
	"github.com/ryanjameskelley/joinomu-sub002/internal/services"
)

type seedUser struct {
	Email    string
	Password string
	Metadata map[string]interface{}
}

var seedProviders = []seedUser{
	{
		Email:    "dr.chen@joinomu.demo",
		Password: "demo-password-1",
		Metadata: map[string]interface{}{
			"role": "provider", "first_name": "Sarah", "last_name": "Chen",
			"specialty": "Endocrinology", "license_number": "MD-44821", "phone": "+1-555-0101",
		},
	},
	{
		Email:    "dr.okafor@joinomu.demo",
		Password: "demo-password-2",
		Metadata: map[string]interface{}{
			// camelCase spellings on purpose: the normalizer handles both.
			"role": "provider", "firstName": "David", "lastName": "Okafor",
			"specialty": "Internal Medicine", "licenseNumber": "MD-90132", "phone": "+1-555-0102",
		},
	},
	{
		Email:    "dr.reyes@joinomu.demo",
		Password: "demo-password-3",
		Metadata: map[string]interface{}{
			"role": "provider", "first_name": "Lucia", "last_name": "Reyes",
			"specialty": "Urology", "license_number": "MD-22940", "phone": "+1-555-0103",
		},
	},
}

var seedPatients = []seedUser{
	{
		Email:    "amy.walker@joinomu.demo",
		Password: "demo-password-4",
		Metadata: map[string]interface{}{
			"role": "patient", "first_name": "Amy", "last_name": "Walker", "phone": "+1-555-0201",
		},
	},
	{
		Email:    "ben.tran@joinomu.demo",
		Password: "demo-password-5",
		Metadata: map[string]interface{}{
			"role": "patient", "firstName": "Ben", "lastName": "Tran", "phone": "+1-555-0202",
		},
	},
	{
		Email:    "cara.smith@joinomu.demo",
		Password: "demo-password-6",
		Metadata: map[string]interface{}{
			"role": "patient", "first_name": "Cara", "last_name": "Smith", "phone": "+1-555-0203",
		},
	},
	{
		Email:    "dan.ivanov@joinomu.demo",
		Password: "demo-password-7",
		// No metadata at all: exercises the pure-default path.
		Metadata: nil,
	},
}

var seedAdmin = seedUser{
	Email:    "admin@joinomu.demo",
	Password: "demo-password-0",
	Metadata: map[string]interface{}{
		"role": "admin", "first_name": "Olive", "last_name": "Nakamura",
	},
}

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed demo users and the medication catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := database.MigrateShared(); err != nil {
				return err
			}
			if err := database.MigrateModels(medications.New().Models()); err != nil {
				return err
			}

			prov := services.NewProvisioningService(database.DB, cat, cfg.ProvisioningPolicy)
			auth := services.NewAuthService(database.DB, cfg, prov)

			created, skipped := 0, 0
			all := append(append([]seedUser{seedAdmin}, seedProviders...), seedPatients...)
			for _, u := range all {
				_, err := auth.Signup(&dto.SignupRequest{
					Email:    u.Email,
					Password: u.Password,
					Metadata: u.Metadata,
				})
				if errors.Is(err, services.ErrEmailTaken) {
					skipped++
					continue
				}
				if err != nil {
					return fmt.Errorf("seeding %s: %w", u.Email, err)
				}
				created++
			}

			if err := medications.SeedCatalog(database.DB); err != nil {
				return err
			}

			slog.Info("seed completed", "created", created, "skipped", skipped)
			return nil
		},
	}
}
