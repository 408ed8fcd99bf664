package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"metawards-uq/internal/db"
	"metawards-uq/internal/router"
	"metawards-uq/internal/service"
)

func newServeCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the design HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}

			if err := db.InitDB(cfg); err != nil {
				return err
			}

			svcCtx := service.NewServiceContext(cfg, db.DB)
			r := router.SetupRouter(svcCtx)

			addr := fmt.Sprintf(":%d", cfg.Server.Port)
			log.Printf("listening on %s", addr)
			return r.Run(addr)
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "config/config.yaml", "config file")
	return cmd
}
