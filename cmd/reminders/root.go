package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Nixie-Tech-LLC/minbar/internal/app"
	"github.com/Nixie-Tech-LLC/minbar/internal/config"
	"github.com/Nixie-Tech-LLC/minbar/internal/notify"
)

// flags shared by every command; MINBAR_<FLAG> in the environment also sets them
type options struct {
	v         *viper.Viper
	cfgFile   string
	daysAhead int
	mosqueIDs []int
}

func (o *options) request() notify.Request {
	return notify.Request{
		DryRun: o.v.GetBool("dry-run"),
		Pace:   !o.v.GetBool("no-pace"),
		Extra:  o.v.GetString("note"),
	}
}

func newOptions() *options {
	o := &options{v: viper.New()}
	o.v.SetEnvPrefix("minbar")
	o.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	o.v.AutomaticEnv()
	return o
}

func newRootCmd() *cobra.Command {
	o := newOptions()

	root := &cobra.Command{
		Use:           "reminders",
		Short:         "Send speaking-roster reminders",
		Long:          `Sends the scheduled talk reminders to callers and mosques through the messaging bridge.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&o.cfgFile, "config", "", "config file (env and .env are read regardless)")
	pf.Bool("dry-run", false, "show what would be sent without sending")
	pf.Bool("no-pace", false, "send back to back instead of waiting between recipients")
	pf.String("note", "", "extra note appended to every message")
	cobra.CheckErr(o.v.BindPFlags(pf))

	root.AddCommand(
		sendCmd(o),
		weekCmd(o),
		rosterCmd(o),
		weeklyCmd(o),
	)
	return root
}

func sendCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Remind every caller speaking on one day (today by default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(ctx context.Context, svc *notify.Service) (notify.Report, error) {
				return svc.RemindDay(ctx, o.daysAhead, o.request())
			})
		},
	}
	cmd.Flags().IntVar(&o.daysAhead, "days-ahead", 0, "remind for today plus this many days (0-6)")
	return cmd
}

func weekCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Remind every caller of their talk in the coming week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(ctx context.Context, svc *notify.Service) (notify.Report, error) {
				return svc.RemindWeek(ctx, o.request())
			})
		},
	}
}

func rosterCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Send each mosque the list of speakers for one day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(ctx context.Context, svc *notify.Service) (notify.Report, error) {
				return svc.NotifyMosques(ctx, o.daysAhead, o.mosqueIDs, o.request())
			})
		},
	}
	cmd.Flags().IntVar(&o.daysAhead, "days-ahead", 0, "roster for today plus this many days (0-6)")
	cmd.Flags().IntSliceVar(&o.mosqueIDs, "mosque", nil, "only these mosque ids (repeatable)")
	return cmd
}

func weeklyCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weekly",
		Short: "Send each mosque its whole weekly roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(ctx context.Context, svc *notify.Service) (notify.Report, error) {
				return svc.MosqueWeek(ctx, o.mosqueIDs, o.request())
			})
		},
	}
	cmd.Flags().IntSliceVar(&o.mosqueIDs, "mosque", nil, "only these mosque ids (repeatable)")
	return cmd
}

type flow func(ctx context.Context, svc *notify.Service) (notify.Report, error)

func (o *options) run(cmd *cobra.Command, f flow) error {
	cfg, err := config.Load(o.cfgFile)
	if err != nil {
		return err
	}
	config.SetupLogging(cfg)

	services, err := app.New(cfg, "minbar-reminders")
	if err != nil {
		return err
	}
	defer services.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rep, err := f(ctx, services.Notify)
	if errors.Is(err, notify.ErrNoSchedules) {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing scheduled, no messages to send.")
		return nil
	}
	if err != nil {
		log.Error().Err(err).Msg("reminder run failed")
		return err
	}
	printReport(cmd.OutOrStdout(), rep)
	if rep.Failed > 0 {
		return fmt.Errorf("%d of %d messages failed", rep.Failed, rep.Sent+rep.Failed+rep.Skipped)
	}
	return nil
}

func printReport(w io.Writer, rep notify.Report) {
	if rep.DryRun {
		fmt.Fprintf(w, "DRY RUN %s %s: %d message(s) would be sent\n", rep.Flow, rep.Date, len(rep.Previews))
		for _, p := range rep.Previews {
			phone := p.Phone
			if phone == "" {
				phone = "no phone on record"
			}
			fmt.Fprintf(w, "\n--- %s (%s)\n%s\n", p.Recipient, phone, p.Message)
		}
		return
	}
	fmt.Fprintf(w, "%s %s: %d sent, %d failed, %d skipped\n", rep.Flow, rep.Date, rep.Sent, rep.Failed, rep.Skipped)
	for _, d := range rep.Details {
		mark := "ok"
		switch {
		case d.Skipped:
			mark = "skip"
		case !d.Success:
			mark = "FAIL"
		}
		fmt.Fprintf(w, "  [%s] %s %s: %s\n", mark, d.Recipient, d.Phone, d.Detail)
	}
}
