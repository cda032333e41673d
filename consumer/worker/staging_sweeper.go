package worker

import (
	"context"
	"time"

	"github.com/tnqbao/gau-upload-service/config"
	"github.com/tnqbao/gau-upload-service/infra"
)

// StagingSweeper purges staging directories whose uploads were abandoned. The
// HTTP core never expires anything on its own; without the sweeper, unmerged
// chunk sets accumulate forever.
type StagingSweeper struct {
	infra    *infra.Infra
	ttl      time.Duration
	interval time.Duration
}

func NewStagingSweeper(infra *infra.Infra, cfg *config.EnvConfig) *StagingSweeper {
	return &StagingSweeper{
		infra:    infra,
		ttl:      time.Duration(cfg.Upload.StagingTTL) * time.Second,
		interval: time.Duration(cfg.Upload.SweepInterval) * time.Second,
	}
}

func (s *StagingSweeper) Start(ctx context.Context) {
	s.infra.Logger.InfoWithContextf(ctx, "[Staging Sweeper] Sweeping every %s, TTL %s", s.interval, s.ttl)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.infra.Logger.InfoWithContextf(ctx, "[Staging Sweeper] Shutting down...")
				return
			case <-ticker.C:
				s.sweep(ctx)
			}
		}
	}()
}

func (s *StagingSweeper) sweep(ctx context.Context) {
	dirs, err := s.infra.Chunks.StagingDirs()
	if err != nil {
		s.infra.Logger.ErrorWithContextf(ctx, err, "[Staging Sweeper] Failed to enumerate staging dirs")
		return
	}

	for _, dir := range dirs {
		age := time.Since(dir.ModTime)
		if age <= s.ttl {
			continue
		}
		if err := s.infra.Chunks.Cleanup(dir.Key); err != nil {
			s.infra.Logger.WarningWithContextf(ctx, "[Staging Sweeper] Failed to purge %s: %v", dir.Key, err)
			continue
		}
		s.infra.Logger.InfoWithContextf(ctx, "[Staging Sweeper] Purged %s (age %s)", dir.Key, age.Truncate(time.Second))
	}
}
