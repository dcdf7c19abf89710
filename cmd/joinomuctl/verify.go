package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/ryanjameskelley/joinomu-sub002/internal/database"
	"github.com/ryanjameskelley/joinomu-sub002/internal/models"
	"github.com/ryanjameskelley/joinomu-sub002/internal/services"
)

func newVerifyCommand() *cobra.Command {
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that every identity is fully and consistently provisioned",
		RunE: func(cmd *cobra.Command, args []string) error {
			prov := services.NewProvisioningService(database.DB, cat, cfg.ProvisioningPolicy)

			var users []models.User
			if err := database.DB.Find(&users).Error; err != nil {
				return err
			}
			if len(users) == 0 {
				return fmt.Errorf("no identities to verify; run seed first")
			}

			if err := waitForProvisioning(prov, users, wait); err != nil {
				return err
			}

			violations := 0
			for _, u := range users {
				for _, v := range verifyIdentity(&u) {
					violations++
					slog.Error("invariant violation", "email", u.Email, "user_id", u.ID, "detail", v)
				}
			}

			var orphans int64
			if err := database.DB.Model(&models.Profile{}).
				Where("id NOT IN (?)", database.DB.Model(&models.User{}).Select("id")).
				Count(&orphans).Error; err != nil {
				return err
			}
			if orphans > 0 {
				violations++
				slog.Error("invariant violation", "detail",
					fmt.Sprintf("%d profiles with no identity row", orphans))
			}

			var unresolved int64
			if err := database.DB.Model(&models.ProvisioningFailure{}).
				Where("resolved = false").Count(&unresolved).Error; err != nil {
				return err
			}
			if unresolved > 0 {
				violations++
				slog.Error("invariant violation", "detail",
					fmt.Sprintf("%d unresolved provisioning failures", unresolved))
			}

			if violations > 0 {
				return fmt.Errorf("verification failed with %d violations", violations)
			}
			slog.Info("verification passed", "identities", len(users))
			return nil
		},
	}

	cmd.Flags().DurationVar(&wait, "wait", 30*time.Second, "how long to wait for pending provisioning")
	return cmd
}

// waitForProvisioning polls with backoff until every identity is
// provisioned or the deadline passes. Identities still pending at the
// deadline are reported by verifyIdentity, so this never fails on its
// own.
func waitForProvisioning(prov *services.ProvisioningService, users []models.User, wait time.Duration) error {
	deadline := time.Now().Add(wait)
	delay := 250 * time.Millisecond

	for time.Now().Before(deadline) {
		pending := 0
		for _, u := range users {
			if !prov.IsProvisioned(u.ID) {
				pending++
			}
		}
		if pending == 0 {
			return nil
		}
		slog.Info("waiting for provisioning", "pending", pending, "retry_in", delay)
		time.Sleep(delay)
		if delay *= 2; delay > 5*time.Second {
			delay = 5 * time.Second
		}
	}
	return nil
}

// verifyIdentity returns a human-readable violation per broken
// invariant: exactly one profile keyed by the identity id, exactly one
// role record in the matching table and none in the others, and for
// providers the five-day default week.
func verifyIdentity(u *models.User) []string {
	db := database.DB
	var violations []string

	var profile models.Profile
	if err := db.First(&profile, "id = ?", u.ID).Error; err != nil {
		return []string{"no profile row"}
	}
	if profile.Email != u.Email {
		violations = append(violations, fmt.Sprintf("profile email %q does not match identity", profile.Email))
	}

	var patients, providers, admins int64
	db.Model(&models.Patient{}).Where("profile_id = ?", profile.ID).Count(&patients)
	db.Model(&models.Provider{}).Where("profile_id = ?", profile.ID).Count(&providers)
	db.Model(&models.Admin{}).Where("profile_id = ?", profile.ID).Count(&admins)

	expected := map[string]int64{models.RolePatient: patients, models.RoleProvider: providers, models.RoleAdmin: admins}
	for role, count := range expected {
		want := int64(0)
		if role == profile.Role {
			want = 1
		}
		if count != want {
			violations = append(violations,
				fmt.Sprintf("expected %d %s record(s) for role %q, found %d", want, role, profile.Role, count))
		}
	}

	if profile.Role == models.RoleProvider && providers == 1 {
		var provider models.Provider
		if err := db.First(&provider, "profile_id = ?", profile.ID).Error; err == nil {
			violations = append(violations, verifySchedule(&provider)...)
		}
	}
	return violations
}

func verifySchedule(provider *models.Provider) []string {
	var schedules []models.ProviderSchedule
	if err := database.DB.Where("provider_id = ?", provider.ID).Find(&schedules).Error; err != nil {
		return []string{fmt.Sprintf("loading schedules: %v", err)}
	}

	week := cat.DefaultWeek()
	byDay := make(map[string]bool, len(schedules))
	var violations []string
	for _, s := range schedules {
		byDay[s.DayOfWeek] = true
		if s.StartTime != week.StartTime || s.EndTime != week.EndTime {
			violations = append(violations,
				fmt.Sprintf("schedule %s has window %s-%s, want %s-%s",
					s.DayOfWeek, s.StartTime, s.EndTime, week.StartTime, week.EndTime))
		}
	}
	for _, day := range week.Days {
		if !byDay[day] {
			violations = append(violations, fmt.Sprintf("missing schedule row for %s", day))
		}
	}
	if len(schedules) != len(week.Days) {
		violations = append(violations,
			fmt.Sprintf("expected %d schedule rows, found %d", len(week.Days), len(schedules)))
	}
	return violations
}
