package cli

import (
	"log"

	"github.com/spf13/cobra"

	"metawards-uq/internal/db"
	"metawards-uq/internal/service"
	"metawards-uq/internal/store"
)

func newScaleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scale <design> <scales> <out>",
		Short: "Rescale a [-1, 1] design onto parameter limits",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := service.ScaleDesign(args[0], args[1], args[2], force); err != nil {
				return err
			}
			log.Printf("wrote scaled design to %s", args[2])
			return nil
		},
	}
}

func newTransformCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transform <epidemiology> <out>",
		Short: "Convert incubation, infectious period and R0 into disease parameters",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := service.TransformEpidemiology(args[0], args[1], force); err != nil {
				return err
			}
			log.Printf("wrote disease table to %s", args[1])
			return nil
		},
	}
}

func newPrepareCmd() *cobra.Command {
	var (
		epidemiology bool
		cfgPath      string
	)
	cmd := &cobra.Command{
		Use:   "prepare <design> <scales> <disease>",
		Short: "Build the simulator disease table from a hypercube design",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			// the design table is only stored when a database is configured
			var st *store.Store
			if cfgPath != "" {
				cfg, err := loadConfig(cfgPath)
				if err != nil {
					return err
				}
				conn, err := db.Open(cfg.Database)
				if err != nil {
					return err
				}
				st = store.New(conn)
				if err := st.Migrate(); err != nil {
					return err
				}
			}

			res, err := service.NewPreparer(st).Prepare(cmd.Context(), service.PrepareRequest{
				DesignPath:   args[0],
				ScalesPath:   args[1],
				DiseasePath:  args[2],
				Force:        force,
				Epidemiology: epidemiology,
			})
			if err != nil {
				return err
			}
			if res.EpidemiologyPath != "" {
				log.Printf("wrote epidemiology table to %s", res.EpidemiologyPath)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&epidemiology, "epidemiology", "e", false, "also write the scaled epidemiology table")
	cmd.Flags().StringVar(&cfgPath, "config", "", "config file naming the database for the design table")
	return cmd
}
