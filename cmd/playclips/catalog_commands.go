package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/3Titanes/playclips-sample/internal/assets"
	"github.com/3Titanes/playclips-sample/internal/catalog"
	"github.com/3Titanes/playclips-sample/internal/constants"
	"github.com/3Titanes/playclips-sample/internal/util"
	"github.com/spf13/cobra"
)

func newInfluencersCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "influencers",
		Short: "List the influencers of the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := ctx.loadCatalog(cmd)
			if err != nil {
				return err
			}
			views, err := container.Store.Influencers()
			if err != nil {
				return err
			}

			baseURL := container.Store.BaseURL()
			rows := make([][]string, 0, len(views))
			for _, v := range views {
				rows = append(rows, []string{
					v.ID(),
					v.Name(),
					strconv.Itoa(len(v.Videos())),
					strconv.Itoa(len(v.Tags())),
					assets.ThumbnailURL(baseURL, v.Thumbnail()),
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name", "Clips", "Tags", "Thumbnail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
}

func newTagsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tags <influencer>",
		Short: "List the tags of an influencer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, view, err := ctx.influencer(cmd, args[0])
			if err != nil {
				return err
			}

			counts := view.TagCounts()
			tags := view.Tags()
			rows := make([][]string, 0, len(tags))
			for _, tag := range tags {
				rows = append(rows, []string{tag, strconv.Itoa(counts[tag])})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Tag", "Clips"},
				rows,
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}
}

func newVideosCommand(ctx *commandContext) *cobra.Command {
	var tag string

	cmd := &cobra.Command{
		Use:   "videos <influencer>",
		Short: "List the clips of an influencer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, view, err := ctx.influencer(cmd, args[0])
			if err != nil {
				return err
			}

			videos := view.Videos()
			if cmd.Flags().Changed("tag") {
				videos = view.VideosForTag(tag)
			}

			baseURL := container.Store.BaseURL()
			quality := container.Config.Catalog.Quality
			rows := make([][]string, 0, len(videos))
			for _, v := range videos {
				rows = append(rows, []string{
					v.ID,
					strconv.FormatFloat(v.Weight, 'g', -1, 64),
					util.TruncateString(strings.Join(v.Tags, ", "), constants.StringLimits.TagList),
					assets.VideoURL(baseURL, v.Location, quality),
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Weight", "Tags", "URL"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&tag, "tag", "t", "", "Only list clips carrying this tag")
	return cmd
}

func newPlayCommand(ctx *commandContext) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "play <influencer> <tag>",
		Short: "Pick weighted random clips for a tag and print their URLs",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return fmt.Errorf("--count must be positive, got %d", count)
			}
			container, view, err := ctx.influencer(cmd, args[0])
			if err != nil {
				return err
			}
			tag := args[1]

			out := cmd.OutOrStdout()
			baseURL := container.Store.BaseURL()
			quality := container.Config.Catalog.Quality
			for i := 0; i < count; i++ {
				video, ok := view.ChooseVideoForTag(tag)
				if !ok {
					fmt.Fprintf(out, "No clips tagged %q for %s\n", tag, view.Name())
					return nil
				}
				fmt.Fprintf(out, "%s\t%s\n", video.ID, assets.VideoURL(baseURL, video.Location, quality))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of clips to pick")
	return cmd
}

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "verify [influencer]",
		Short: "Check that every clip URL of the catalog is reachable",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := ctx.loadCatalog(cmd)
			if err != nil {
				return err
			}

			var views []*catalog.Influencer
			if len(args) == 1 {
				view, err := container.Store.GetInfluencer(args[0])
				if err != nil {
					return err
				}
				views = []*catalog.Influencer{view}
			} else if views, err = container.Store.Influencers(); err != nil {
				return err
			}

			targets := assets.Targets(container.Store.BaseURL(), container.Config.Catalog.Quality, views...)
			results := container.Checker.Check(cmd.Context(), targets)

			rows := make([][]string, 0)
			for _, r := range results {
				if r.OK() {
					continue
				}
				rows = append(rows, []string{r.InfluencerID, r.VideoID, r.URL, r.Problem()})
			}

			out := cmd.OutOrStdout()
			if len(rows) > 0 {
				fmt.Fprintln(out, renderTable(
					[]string{"Influencer", "Clip", "URL", "Problem"},
					rows,
					nil,
				))
			}
			fmt.Fprintf(out, "Checked %d clips, %d failed\n", len(results), len(rows))
			if len(rows) > 0 {
				return fmt.Errorf("%d clips failed verification", len(rows))
			}
			return nil
		},
	}
}
