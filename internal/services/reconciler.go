package services

import (
	"errors"
	"log/slog"
	"time"

	"github.com/ryanjameskelley/joinomu-sub002/internal/models"
	"gorm.io/gorm"
)

// Reconciler drains the provisioning_failures table in the background,
// re-running provisioning with per-row exponential backoff until it
// succeeds or the retry limit is reached.
type Reconciler struct {
	db           *gorm.DB
	provisioning *ProvisioningService
	interval     time.Duration
	maxRetries   int
	done         chan struct{}
}

func NewReconciler(db *gorm.DB, prov *ProvisioningService, interval time.Duration, maxRetries int) *Reconciler {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if maxRetries <= 0 {
		maxRetries = 8
	}
	return &Reconciler{
		db:           db,
		provisioning: prov,
		interval:     interval,
		maxRetries:   maxRetries,
		done:         make(chan struct{}),
	}
}

func (r *Reconciler) Start() {
	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.Sweep()
			case <-r.done:
				return
			}
		}
	}()
}

func (r *Reconciler) Stop() {
	close(r.done)
}

// Sweep retries every due failure once. Exported so the ops CLI can
// force a pass without waiting for the ticker.
func (r *Reconciler) Sweep() {
	var failures []models.ProvisioningFailure
	err := r.db.
		Where("resolved = false AND attempts < ? AND next_retry_at <= ?", r.maxRetries, time.Now()).
		Order("next_retry_at ASC").
		Limit(100).
		Find(&failures).Error
	if err != nil {
		slog.Error("reconciler query failed", "error", err)
		return
	}

	for i := range failures {
		f := &failures[i]
		if err := r.provisioning.Reprovision(f.UserID); err != nil {
			if errors.Is(err, ErrIdentityNotFound) {
				// Identity is gone; nothing left to provision.
				r.db.Model(f).Update("resolved", true)
				continue
			}
			// Provision already bumped attempts and next_retry_at.
			slog.Warn("reconciler retry failed",
				"user_id", f.UserID.String(), "attempts", f.Attempts+1, "error", err)
			continue
		}
		slog.Info("provisioning reconciled", "user_id", f.UserID.String())
	}
}
