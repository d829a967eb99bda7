package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/djewell11/cmti-tools/internal/domain"
	"github.com/djewell11/cmti-tools/internal/service/importer"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Re-import profile sources on their cron schedules",
		Long: `Runs the import scheduler in the foreground. Every source in the
import profile that carries a schedule is re-imported from its path on
that cadence, until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			if e.profile == nil {
				return domain.ErrValidation("serve needs an import profile (--profile or CMTI_PROFILE)")
			}

			sched := importer.NewScheduler(e.pipeline, e.logger)
			n, err := addProfileSchedules(e, sched)
			if err != nil {
				return err
			}
			if n == 0 {
				return domain.ErrValidation("no source in the profile carries a schedule")
			}

			sched.Start()
			defer sched.Stop()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			fmt.Fprintf(cmd.OutOrStdout(), "watching %d scheduled sources\n", n)
			<-ctx.Done()
			return nil
		},
	}
}

// addProfileSchedules registers every profile source that carries a cron
// schedule, returning how many were registered.
func addProfileSchedules(e *env, sched *importer.Scheduler) (int, error) {
	n := 0
	for name, src := range e.profile.Sources {
		if src.Schedule == "" {
			continue
		}
		builder, err := builderFor(e, name)
		if err != nil {
			return 0, err
		}
		if err := sched.Add(importer.Schedule{
			Builder: builder,
			Loader:  importer.CSVLoader(src.Path),
			Cron:    src.Schedule,
		}); err != nil {
			return 0, err
		}
		n++
	}
	return n, nil
}
