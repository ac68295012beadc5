package serve

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/operator-framework/subsetsum/internal/config"
	"github.com/operator-framework/subsetsum/internal/server"
)

func NewServeCommand() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serves the solver over HTTP",
		Long: `Serves the solver over HTTP:
  POST /v1/solve   {"numbers": [...], "target": 15, "tolerance": 0, "find_all": true, "algorithm": "auto"}
  GET  /v1/health
  GET  /metrics    Prometheus metrics
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			if cmd.Flags().Changed("listen") {
				cfg.Server.Listen = listen
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := log.FromContext(cmd.Context())
			if logger.GetLevel() > log.DebugLevel {
				gin.SetMode(gin.ReleaseMode)
			}
			s, err := server.New(cfg, logger)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return s.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "address to listen on (overrides server.listen)")
	return cmd
}
