package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"pru/pkg/config"
	"pru/pkg/errors"
	"pru/pkg/fetch"
	"pru/pkg/jsonfetch"
	"pru/pkg/logger"
	"pru/pkg/metadata"
	"pru/pkg/ratelimit"
	"pru/pkg/remote"
	"pru/pkg/storage"
	"pru/pkg/ui"
	"pru/pkg/ui/tui"
)

const dateLayout = "2006-01-02"

type fetchOptions struct {
	cameras     []string
	date        string
	minDate     string
	maxDate     string
	list        bool
	num         int
	page        int
	filterNum   int
	filter      []string
	instruments bool
	output      string
	onlyNew     bool
	useTUI      bool
	notify      bool
}

func newFetchCmd(root *rootOptions) *cobra.Command {
	o := &fetchOptions{}

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Query the raw image catalog and download matching images",
		Long: `Query the mission's raw image catalog and download every matching image
into the output directory, each with a JSON metadata file next to it.

Without --page every result page is fetched concurrently.`,
		Example: `  # List the available camera codes
  pru fetch --instruments

  # List today's images from camera A without downloading
  pru fetch -c A -d 2025-12-05 -l

  # Download new images from both cameras received since December 1st
  pru fetch -c A,B -m 2025-12-01 -n -o ./psyche

  # Only the second page of 50 results, ids containing "_0004"
  pru fetch -N 50 -p 2 -F _0004`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, root, o)
		},
	}

	f := cmd.Flags()
	f.StringSliceVarP(&o.cameras, "camera", "c", nil, "camera codes to query (default: all)")
	f.StringVarP(&o.date, "date", "d", "", "only images received on this day (YYYY-MM-DD)")
	f.StringVarP(&o.minDate, "mindate", "m", "", "earliest date received (YYYY-MM-DD)")
	f.StringVarP(&o.maxDate, "maxdate", "M", "", "latest date received (YYYY-MM-DD)")
	f.BoolVarP(&o.list, "list", "l", false, "list matching images without downloading")
	f.IntVarP(&o.num, "num", "N", 0, "results per page (default from config)")
	f.IntVarP(&o.page, "page", "p", 0, "fetch only this results page, starting at 1")
	f.IntVarP(&o.filterNum, "filter-num", "f", 0, "only images taken with this numeric filter")
	f.StringSliceVarP(&o.filter, "filter", "F", nil, "only image ids containing one of these strings")
	f.BoolVarP(&o.instruments, "instruments", "I", false, "print the camera codes and exit")
	f.StringVarP(&o.output, "output", "o", "", "output directory (default from config)")
	f.BoolVarP(&o.onlyNew, "new", "n", false, "skip images already in the output directory")
	f.BoolVar(&o.useTUI, "tui", false, "show a full-screen progress view")
	f.BoolVar(&o.notify, "notify", false, "send a desktop notification when done")

	cmd.MarkFlagsMutuallyExclusive("date", "mindate")
	cmd.MarkFlagsMutuallyExclusive("date", "maxdate")

	return cmd
}

// configFlags collects the values config.MergeCommandLineFlags understands.
func (o *fetchOptions) configFlags(root *rootOptions) map[string]interface{} {
	return map[string]interface{}{
		"output":    o.output,
		"num":       o.num,
		"mindate":   o.minDate,
		"maxdate":   o.maxDate,
		"notify":    o.notify,
		"log-level": root.logLevel(),
		"no-color":  root.noColor,
	}
}

// query builds the catalog query from flags and the merged configuration.
func (o *fetchOptions) query(cmd *cobra.Command, cfg *config.Config) (remote.Query, error) {
	q := remote.Query{
		Instruments: o.cameras,
		NumPerPage:  cfg.Catalog.PerPage,
		MinDate:     cfg.Catalog.MinDate,
		MaxDate:     cfg.Catalog.MaxDate,
		ListOnly:    o.list,
		Search:      o.filter,
		OnlyNew:     o.onlyNew,
		Filter:      o.filter,
		OutputPath:  cfg.Output.Directory,
	}

	if o.date != "" {
		day, err := time.Parse(dateLayout, o.date)
		if err != nil {
			return q, fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", o.date)
		}
		q.MinDate = day.Format(dateLayout)
		q.MaxDate = day.AddDate(0, 0, 1).Format(dateLayout)
	}

	if cmd.Flags().Changed("page") {
		if o.page < 1 {
			return q, fmt.Errorf("invalid --page %d: pages start at 1", o.page)
		}
		page := o.page - 1
		q.Page = &page
	}

	if cmd.Flags().Changed("filter-num") {
		if o.filterNum < 0 || int64(o.filterNum) > math.MaxUint32 {
			return q, fmt.Errorf("invalid --filter-num %d: must be between 0 and %d", o.filterNum, uint32(math.MaxUint32))
		}
		num := o.filterNum
		q.FilterNum = &num
	}

	return q, nil
}

func runFetch(cmd *cobra.Command, root *rootOptions, o *fetchOptions) error {
	cfg, err := config.Load(root.configFile, o.configFlags(root))
	if err != nil {
		return err
	}
	if err := logger.Initialize(&cfg.Logging); err != nil {
		return err
	}
	log := logger.GetLogger()
	out := cmd.OutOrStdout()

	limiter := ratelimit.NewPerHost(ratelimit.Config{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
	})
	userAgent := jsonfetch.WithHeader("User-Agent", "pru/"+version)
	catalog := jsonfetch.NewClient(cfg.Catalog.RequestTimeout, log, jsonfetch.WithLimiter(limiter), userAgent)

	backend, err := newMission(cfg, catalog)
	if err != nil {
		return err
	}

	if o.instruments {
		return ui.WriteInstruments(out, backend.Name(), backend.InstrumentMap())
	}

	q, err := o.query(cmd, cfg)
	if err != nil {
		return err
	}

	store, err := storage.NewManager(cfg.Output.Directory)
	if err != nil {
		return err
	}
	images := jsonfetch.NewClient(cfg.Download.Timeout, log, jsonfetch.WithLimiter(limiter), userAgent)

	driver := fetch.NewDriver(backend, images, store, fetch.Options{
		Workers:       cfg.Download.ConcurrentDownloads,
		WriteMetadata: cfg.Output.WriteMetadata,
		ListOut:       out,
	}, log)

	log.InfoWithFields("Starting fetch", map[string]interface{}{
		"mission": backend.Name(),
		"output":  cfg.Output.Directory,
		"list":    q.ListOnly,
		"new":     q.OnlyNew,
	})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	err = o.perform(ctx, driver, q, backend.Name(), out)
	return finishFetch(err, cfg, log)
}

// perform picks a progress renderer for the run. Progress output is only
// drawn on a terminal.
func (o *fetchOptions) perform(ctx context.Context, driver *fetch.Driver, q remote.Query, mission string, out io.Writer) error {
	run := func(ctx context.Context, onTotal func(int), onProgress func(metadata.Metadata)) error {
		return driver.PerformFetch(ctx, q, onTotal, onProgress)
	}

	switch {
	case q.ListOnly || !ui.IsTerminal(out):
		return run(ctx, nil, nil)
	case o.useTUI:
		return tui.NewTUI(mission, tea.WithAltScreen(), tea.WithOutput(out)).Run(ctx, run)
	default:
		progress := ui.NewProgressDisplay(out, "Downloading")
		err := run(ctx, progress.SetTotal, progress.Increment)
		if err == nil || stderrors.Is(err, errors.ErrSkippingFile) {
			progress.Complete()
		}
		return err
	}
}

func finishFetch(err error, cfg *config.Config, log logger.Logger) error {
	var notifier *ui.Notifier
	if cfg.Notifications.Enabled {
		notifier = ui.NewNotifier()
	}

	switch {
	case err == nil:
		log.Info("Fetch completed")
		if notifier != nil {
			notifier.SendSuccess("pru", "Fetch completed")
		}
		return nil

	case stderrors.Is(err, errors.ErrSkippingFile):
		log.Info("Not downloading images. Done")
		ui.PrintWarning("No new images to download")
		if notifier != nil {
			notifier.SendSuccess("pru", "No new images")
		}
		return nil

	case errors.IsType(err, errors.ErrorTypeInvalidInstrument):
		log.WithError(err).Error("Invalid camera instrument(s) specified")
		return err

	default:
		log.WithError(err).Error("Fetch failed")
		if notifier != nil {
			notifier.SendError("pru", err.Error())
		}
		return err
	}
}
