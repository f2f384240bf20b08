package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tomomira/youtube-video-analyzer/internal/app"
	"github.com/tomomira/youtube-video-analyzer/internal/config"
	"github.com/tomomira/youtube-video-analyzer/internal/model"
	"github.com/tomomira/youtube-video-analyzer/internal/search"
)

// criteriaFlags are the search criteria accepted by search and preset save
type criteriaFlags struct {
	min       int64
	max       int64
	videoType string
	limit     int
	order     string
	after     string
	before    string
	region    string
	lang      string
}

func (f *criteriaFlags) register(fs *pflag.FlagSet) {
	fs.Int64Var(&f.min, "min", 0, "Minimum view count")
	fs.Int64Var(&f.max, "max", 0, "Maximum view count")
	fs.StringVarP(&f.videoType, "type", "t", string(model.VideoTypeAll), "Video type (all, short, normal)")
	fs.IntVarP(&f.limit, "limit", "n", model.DefaultMaxResults, fmt.Sprintf("Maximum number of results (%d-%d)", model.MinMaxResults, model.MaxMaxResults))
	fs.StringVarP(&f.order, "order", "o", model.DefaultOrder, "Order of results ("+strings.Join(model.ValidOrders, ", ")+")")
	fs.StringVar(&f.after, "after", "", "Only videos published on or after this date (YYYY-MM-DD)")
	fs.StringVar(&f.before, "before", "", "Only videos published before this date (YYYY-MM-DD)")
	fs.StringVar(&f.region, "region", "", "Region code (default from YOUTUBE_REGION)")
	fs.StringVar(&f.lang, "lang", "", "Relevance language (default from YOUTUBE_LANGUAGE)")
}

// apply overlays the flags that were set on base. Unset flags keep base values,
// so a preset can be loaded and selectively overridden.
func (f *criteriaFlags) apply(fs *pflag.FlagSet, base *model.SearchCriteria) error {
	if fs.Changed("min") {
		base.MinViewCount = model.Int64Ptr(f.min)
	}
	if fs.Changed("max") {
		base.MaxViewCount = model.Int64Ptr(f.max)
	}
	if fs.Changed("type") {
		t, err := model.ParseVideoType(f.videoType)
		if err != nil {
			return err
		}
		base.VideoType = t
	}
	if fs.Changed("limit") {
		base.MaxResults = f.limit
	}
	if fs.Changed("order") {
		base.Order = f.order
	}
	if fs.Changed("after") {
		t, err := model.ParseDate("published_after", f.after)
		if err != nil {
			return err
		}
		base.PublishedAfter = t
	}
	if fs.Changed("before") {
		t, err := model.ParseDate("published_before", f.before)
		if err != nil {
			return err
		}
		base.PublishedBefore = t
	}
	if f.region != "" {
		base.RegionCode = strings.ToUpper(f.region)
	}
	if f.lang != "" {
		base.Language = f.lang
	}
	return nil
}

// defaultCriteria returns criteria for keyword with the configured region and language
func defaultCriteria(cfg *config.YouTubeConfig, keyword string) *model.SearchCriteria {
	c := model.NewSearchCriteria(keyword)
	if cfg.Region != "" {
		c.RegionCode = cfg.Region
	}
	if cfg.Language != "" {
		c.Language = cfg.Language
	}
	return c
}

type searchOptions struct {
	criteria    criteriaFlags
	preset      string
	savePreset  string
	sortKey     string
	ascending   bool
	exportXLSX  string
	exportSheet string
	worksheet   string
	upload      bool
}

func newSearchCmd(rt *runtime) *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search [keyword]",
		Short: "Search YouTube videos",
		Long: `Search YouTube videos, filter them by view count and type, and
optionally export the results.

Examples:
  ytanalyzer search "golang tutorial"
  ytanalyzer search "music" --min 100000 --type normal --limit 200 --sort views
  ytanalyzer search --preset daily --limit 10
  ytanalyzer search "cooking" --export-xlsx cooking.xlsx --upload
  ytanalyzer search "cooking" --export-sheet "Cooking Research" --worksheet March`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			criteria, err := opts.buildCriteria(cmd, rt, args)
			if err != nil {
				return err
			}
			if err := criteria.Validate(); err != nil {
				return err
			}

			a, err := rt.newApp(ctx)
			if err != nil {
				return err
			}

			renderMeta(out, "Searching for %q...", criteria.Keyword)
			videos, err := a.Search(ctx, criteria)
			if err != nil {
				return err
			}

			if opts.sortKey != "" {
				sorted, ok := search.SortBy(videos, opts.sortKey, !opts.ascending)
				if !ok {
					return fmt.Errorf("unknown sort key %q", opts.sortKey)
				}
				videos = sorted
			}
			renderVideos(out, "Results for: "+criteria.Keyword, videos)

			if opts.savePreset != "" {
				if _, err := a.Presets().SavePreset(ctx, opts.savePreset, criteria); err != nil {
					return err
				}
				renderSuccess(out, "Preset saved: %s", opts.savePreset)
			}

			return opts.export(cmd, a, videos)
		},
	}

	opts.criteria.register(cmd.Flags())
	cmd.Flags().StringVarP(&opts.preset, "preset", "p", "", "Start from a saved preset; other flags override it")
	cmd.Flags().StringVar(&opts.savePreset, "save-preset", "", "Save the criteria as a preset with this name")
	cmd.Flags().StringVarP(&opts.sortKey, "sort", "s", "", "Sort results by views, likes, published or duration")
	cmd.Flags().BoolVar(&opts.ascending, "asc", false, "Sort ascending instead of descending")
	cmd.Flags().StringVar(&opts.exportXLSX, "export-xlsx", "", "Write the results to an Excel workbook")
	cmd.Flags().StringVar(&opts.exportSheet, "export-sheet", "", "Write the results to the named Google spreadsheet")
	cmd.Flags().StringVar(&opts.worksheet, "worksheet", "", "Worksheet name for --export-sheet")
	cmd.Flags().BoolVar(&opts.upload, "upload", false, "Upload the workbook to EXPORT_GCS_BUCKET")
	return cmd
}

func (o *searchOptions) buildCriteria(cmd *cobra.Command, rt *runtime, args []string) (*model.SearchCriteria, error) {
	var criteria *model.SearchCriteria

	if o.preset != "" {
		preset, err := rt.store.LoadPreset(cmd.Context(), o.preset)
		if err != nil {
			return nil, err
		}
		if preset == nil {
			return nil, fmt.Errorf("preset not found: %s", o.preset)
		}
		criteria, err = preset.Criteria()
		if err != nil {
			return nil, fmt.Errorf("failed to restore preset %s: %w", o.preset, err)
		}
	} else {
		criteria = defaultCriteria(&rt.cfg.YouTube, "")
	}

	if len(args) == 1 {
		criteria.Keyword = args[0]
	}
	if err := o.criteria.apply(cmd.Flags(), criteria); err != nil {
		return nil, err
	}
	return criteria, nil
}

func (o *searchOptions) export(cmd *cobra.Command, a *app.App, videos []*model.VideoInfo) error {
	out := cmd.OutOrStdout()
	if len(videos) == 0 && (o.exportXLSX != "" || o.exportSheet != "") {
		renderMeta(out, "Nothing to export.")
		return nil
	}

	if o.exportXLSX != "" {
		result, err := a.Export(cmd.Context(), videos, app.ExportRequest{
			Format: app.FormatXLSX,
			Path:   o.exportXLSX,
			Upload: o.upload,
		})
		if err != nil {
			return err
		}
		renderSuccess(out, "Exported %d videos to %s", result.Count, result.Location)
		if result.UploadURI != "" {
			renderSuccess(out, "Uploaded to %s", result.UploadURI)
		}
	}

	if o.exportSheet != "" {
		result, err := a.Export(cmd.Context(), videos, app.ExportRequest{
			Format:          app.FormatSheets,
			SpreadsheetName: o.exportSheet,
			Worksheet:       o.worksheet,
		})
		if err != nil {
			return err
		}
		renderSuccess(out, "Exported %d videos to %s", result.Count, result.Location)
	}
	return nil
}
