package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fastchannel/fastchannel-console/internal/media"
	"github.com/fastchannel/fastchannel-console/internal/timecode"
	"github.com/fastchannel/fastchannel-console/internal/trim"
	"github.com/fastchannel/fastchannel-console/internal/uploads"
)

var (
	trimDuration  string
	trimInTime    string
	trimOutTime   string
	trimReference string
)

var trimCmd = &cobra.Command{
	Use:   "trim",
	Short: "Work out a trimmed clip duration",
	Long: `Apply in and out points to a clip of the given duration using the
editor's ordering rules and print the resulting duration.

Missing values are prompted for.

Example:
  fastchannel-console trim --duration 05:02 --in 00:00:02 --out 00:05:00`,
	RunE: runTrim,
}

func init() {
	rootCmd.AddCommand(trimCmd)
	trimCmd.Flags().StringVar(&trimDuration, "duration", "", "Clip duration (MM:SS or HH:MM:SS)")
	trimCmd.Flags().StringVar(&trimInTime, "in", "", "In point in HH:MM:SS format")
	trimCmd.Flags().StringVar(&trimOutTime, "out", "", "Out point in HH:MM:SS format")
	trimCmd.Flags().StringVar(&trimReference, "reference", "", "Campaign reference duration to check the result against")
}

func runTrim(cmd *cobra.Command, _ []string) error {
	values := map[string]*string{
		"duration": &trimDuration,
		"in":       &trimInTime,
		"out":      &trimOutTime,
	}
	prompts := []struct {
		flag, message, def string
	}{
		{"duration", "Clip duration:", uploads.DefaultDuration},
		{"in", "In point:", "00:00:00"},
		{"out", "Out point:", ""},
	}
	for _, p := range prompts {
		if cmd.Flags().Changed(p.flag) {
			continue
		}
		def := p.def
		if p.flag == "out" {
			def = timecode.Format(timecode.ParseSeconds(trimDuration), true)
		}
		answer, err := DefaultPrompter.Input(p.message, def, timecode.Validate)
		if err != nil {
			return err
		}
		*values[p.flag] = answer
	}

	return RunTrimWithDependencies(trimDuration, trimInTime, trimOutTime, trimReference, os.Stdout)
}

// RunTrimWithDependencies applies in and out to a clip of the given duration
// and reports the result.
func RunTrimWithDependencies(duration, in, out, reference string, output OutputWriter) error {
	if err := timecode.Validate(duration); err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}

	editor := trim.NewEditor(media.Clip{Title: "clip", Duration: duration}, uploads.DefaultDuration)
	if in != "" {
		if err := editor.SetIn(in); err != nil {
			return fmt.Errorf("invalid in point: %w", err)
		}
	}
	if out != "" {
		if err := editor.SetOut(out); err != nil {
			return fmt.Errorf("invalid out point: %w", err)
		}
	}

	fmt.Fprintf(output, "Clip:    %s\n", timecode.Format(editor.Duration(), true))
	fmt.Fprintf(output, "In:      %s\n", editor.InText())
	fmt.Fprintf(output, "Out:     %s\n", editor.OutText())
	fmt.Fprintf(output, "Trimmed: %s\n", editor.Trimmed())
	fmt.Fprintf(output, "Result:  %s\n", editor.Result())

	if reference != "" {
		if _, err := editor.Confirm(media.NewGate(reference)); err != nil {
			return err
		}
		fmt.Fprintf(output, "Matches campaign reference %s\n", timecode.Normalize(reference))
	}
	return nil
}
