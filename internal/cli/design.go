package cli

import (
	"log"

	"github.com/spf13/cobra"

	"metawards-uq/internal/csvio"
	"metawards-uq/internal/design"
	"metawards-uq/internal/jobfile"
)

func newDesignCmd() *cobra.Command {
	var (
		samples int
		seed    int64
	)
	cmd := &cobra.Command{
		Use:   "design <job> <out>",
		Short: "Generate a design matrix from a job file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := jobfile.Load(args[0])
			if err != nil {
				return err
			}

			var opts []design.Option
			if samples > 0 {
				opts = append(opts, design.WithSamples(samples))
			}
			if cmd.Flags().Changed("seed") {
				opts = append(opts, design.WithSeed(uint64(seed)))
			}
			m, err := design.Process(job, opts...)
			if err != nil {
				return err
			}
			if err := csvio.WriteMatrixFile(args[1], force, m.Header(), m.Data); err != nil {
				return err
			}
			log.Printf("wrote %s design with %d points and %d columns to %s", m.Method, m.Rows(), len(m.Columns), args[1])
			return nil
		},
	}
	cmd.Flags().IntVar(&samples, "samples", 0, "number of latin hypercube samples")
	cmd.Flags().Int64Var(&seed, "seed", 0, "latin hypercube seed")
	return cmd
}
