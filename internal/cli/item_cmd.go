package cli

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
)

func newItemCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Work with individual practice items",
	}
	cmd.AddCommand(
		newItemResolveCmd(app),
		newItemSpeakCmd(app),
	)
	return cmd
}

func newItemSpeakCmd(app *App) *cobra.Command {
	var dayArg, outDir string

	cmd := &cobra.Command{
		Use:   "speak <position>",
		Short: "Synthesize audio for one item's teach script",
		Long: `Resolve the item, derive its teach script, and synthesize one audio
clip per script step into the output directory. Clips are cached per step,
so re-running for the same item reuses already synthesized audio.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.TTS == nil {
				return fmt.Errorf("no speech service configured")
			}
			position, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid item position %q", args[0])
			}

			var dayArgs []string
			if dayArg != "" {
				dayArgs = []string{dayArg}
			}
			_, day, err := activePlanAndDay(cmd.Context(), app, dayArgs)
			if err != nil {
				return err
			}
			if position < 1 || position > len(day.Items) {
				return fmt.Errorf("item position %d out of range 1..%d", position, len(day.Items))
			}
			item := day.Items[position-1]

			resolved, err := app.Loader.LoadContent(cmd.Context(), item)
			if err != nil {
				return err
			}

			steps := scriptSteps(item, resolved)
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}

			for i, step := range steps {
				audio, err := app.TTS.Synthesize(cmd.Context(), step.ID, step.Text)
				if err != nil {
					return fmt.Errorf("synthesizing step %d: %w", i+1, err)
				}
				data, err := base64.StdEncoding.DecodeString(audio.AudioBase64)
				if err != nil {
					return fmt.Errorf("decoding step %d audio: %w", i+1, err)
				}
				name := filepath.Join(outDir, fmt.Sprintf("step-%02d%s", i+1, audioExt(audio.ContentType)))
				if err := os.WriteFile(name, data, 0o644); err != nil {
					return fmt.Errorf("writing step %d audio: %w", i+1, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dayArg, "day", "", "Day index (defaults to the current day)")
	cmd.Flags().StringVar(&outDir, "out", ".", "Directory for the audio files")
	return cmd
}

func audioExt(contentType string) string {
	switch contentType {
	case "audio/wav", "audio/x-wav":
		return ".wav"
	case "audio/ogg":
		return ".ogg"
	default:
		return ".mp3"
	}
}

func newItemResolveCmd(app *App) *cobra.Command {
	var dayArg string

	cmd := &cobra.Command{
		Use:   "resolve <position>",
		Short: "Resolve and print one item of the current day",
		Long: `Resolve the content for one item, by its position in the day's list.
Cached content is reused; a fresh fetch happens only on a cache miss, and an
unreachable generation service degrades to offline practice content.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			position, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid item position %q", args[0])
			}

			var dayArgs []string
			if dayArg != "" {
				dayArgs = []string{dayArg}
			}
			_, day, err := activePlanAndDay(cmd.Context(), app, dayArgs)
			if err != nil {
				return err
			}
			if position < 1 || position > len(day.Items) {
				return fmt.Errorf("item position %d out of range 1..%d", position, len(day.Items))
			}

			resolved, err := app.Loader.LoadContent(cmd.Context(), day.Items[position-1])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), app.Renderer.Render(resolved))
			return nil
		},
	}

	cmd.Flags().StringVar(&dayArg, "day", "", "Day index (defaults to the current day)")
	return cmd
}
