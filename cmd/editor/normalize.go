package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"plan-editor/internal/editor/models"
	"plan-editor/internal/editor/topology"

	"github.com/spf13/cobra"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize [file]",
	Short: "Split walls around openings and merge collinear walls in a plan file",
	Long: `Read a plan as JSON ({"scale": 1, "segments": [...]}) from file, or stdin when
file is "-" or omitted, run the wall topology passes and write the result as JSON.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNormalize,
}

func init() {
	normalizeCmd.Flags().Float64("scale", 0, "zoom used for the merge gap (overrides the plan's scale)")
	normalizeCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, args []string) error {
	in := cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	plan, err := normalizePlan(in, cmd.ErrOrStderr(), floatFlag(cmd, "scale"))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(plan)
}

// normalizePlan reports segment counts to progress.
func normalizePlan(r io.Reader, progress io.Writer, scale float64) (models.Plan, error) {
	var plan models.Plan
	if err := json.NewDecoder(r).Decode(&plan); err != nil {
		return models.Plan{}, fmt.Errorf("decode plan: %w", err)
	}
	if scale > 0 {
		plan.Scale = scale
	}
	for _, s := range plan.Segments {
		if !s.Kind.Valid() {
			return models.Plan{}, fmt.Errorf("segment %s: unknown kind %q", s.ID, s.Kind)
		}
	}

	c := models.NewCollection(plan.Segments...)
	if err := topology.Normalize(c, plan.Scale); err != nil {
		return models.Plan{}, err
	}

	fmt.Fprintf(progress, "normalize: %d segment(s) in, %d out\n", len(plan.Segments), c.Len())
	plan.Segments = c.All()
	return plan, nil
}

func floatFlag(cmd *cobra.Command, name string) float64 {
	v, _ := cmd.Flags().GetFloat64(name)
	return v
}
