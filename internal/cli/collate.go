package cli

import (
	"fmt"
	"log"
	"strconv"

	"github.com/spf13/cobra"

	"metawards-uq/internal/service"
)

func newCollateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "collate <design> <disease> <data-dir> <lookup> <out-dir> <day>",
		Short: "Collate ward and local authority outputs of every run on one day",
		Args:  cobra.ExactArgs(6),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := strconv.Atoi(args[5])
			if err != nil {
				return fmt.Errorf("day %q: %w", args[5], err)
			}
			res, err := service.NewCollator().Collate(cmd.Context(), service.CollateRequest{
				DesignPath:  args[0],
				DiseasePath: args[1],
				DataDir:     args[2],
				LookupPath:  args[3],
				OutDir:      args[4],
				Day:         day,
				Force:       force,
			})
			if err != nil {
				return err
			}
			log.Printf("collated %d runs into %d files", res.Runs, len(res.Files))
			return nil
		},
	}
}
