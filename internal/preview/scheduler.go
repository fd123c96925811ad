package preview

import (
	"fmt"

	"github.com/go-co-op/gocron/v2"
)

// scheduler triggers periodic rebuilds.
type scheduler struct {
	s gocron.Scheduler
}

// startScheduler schedules trigger every serve.rebuild_interval. It returns
// nil when periodic rebuilds are disabled.
func (s *Server) startScheduler(trigger func()) (*scheduler, error) {
	interval, err := s.opts.Config.Serve.Interval()
	if err != nil {
		return nil, err
	}
	if interval == 0 {
		return nil, nil
	}

	gs, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	if _, err := gs.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			s.logger.Debug("Periodic rebuild")
			trigger()
		}),
		gocron.WithName("periodic-rebuild"),
	); err != nil {
		_ = gs.Shutdown()
		return nil, fmt.Errorf("failed to create periodic rebuild job: %w", err)
	}
	gs.Start()
	s.logger.Info("Periodic rebuild scheduled", "interval", interval.String())
	return &scheduler{s: gs}, nil
}

func (sc *scheduler) stop() error {
	return sc.s.Shutdown()
}
