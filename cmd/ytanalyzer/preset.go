package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPresetCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Manage saved search presets",
	}

	cmd.AddCommand(
		newPresetSaveCmd(rt),
		newPresetShowCmd(rt),
		&cobra.Command{
			Use:   "list",
			Short: "List presets, most recently updated first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				presets, err := rt.store.ListPresets(cmd.Context())
				if err != nil {
					return err
				}
				renderPresets(cmd.OutOrStdout(), presets)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <name>",
			Short: "Delete a preset",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				deleted, err := rt.store.DeletePreset(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !deleted {
					return fmt.Errorf("preset not found: %s", args[0])
				}
				renderSuccess(cmd.OutOrStdout(), "Preset deleted: %s", args[0])
				return nil
			},
		},
	)
	return cmd
}

func newPresetSaveCmd(rt *runtime) *cobra.Command {
	flags := &criteriaFlags{}

	cmd := &cobra.Command{
		Use:   "save <name> <keyword>",
		Short: "Save search criteria under a name, replacing any preset with that name",
		Example: `  ytanalyzer preset save daily "tech news" --order date --limit 20
  ytanalyzer preset save shorts "cat" --type short --min 100000`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria := defaultCriteria(&rt.cfg.YouTube, args[1])
			if err := flags.apply(cmd.Flags(), criteria); err != nil {
				return err
			}

			preset, err := rt.store.SavePreset(cmd.Context(), args[0], criteria)
			if err != nil {
				return err
			}
			renderSuccess(cmd.OutOrStdout(), "Preset saved: %s (%s)", preset.Name, describeCriteria(preset.CriteriaColumns))
			return nil
		},
	}

	flags.register(cmd.Flags())
	return cmd
}

func newPresetShowCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:     "show <name>",
		Aliases: []string{"load"},
		Short:   "Show the criteria of a preset",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			preset, err := rt.store.LoadPreset(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if preset == nil {
				return fmt.Errorf("preset not found: %s", args[0])
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render(preset.Name))
			fmt.Fprintln(out, describeCriteria(preset.CriteriaColumns))
			renderMeta(out, "Run it with: ytanalyzer search --preset %q", preset.Name)
			return nil
		},
	}
}
