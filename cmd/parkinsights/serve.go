package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/OrlandoBitencourt/parkinsights/internal/layout"
	"github.com/OrlandoBitencourt/parkinsights/internal/routes"
	"github.com/OrlandoBitencourt/parkinsights/internal/webapp"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr       string
		layoutFile string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host the built dashboard",
		Long: `Serve the dashboard build: assets under the public path and the entry
document for every client-side route.

Without --layout the default placement is used, relative to the current
directory:

  outputDir:  ../backend/static
  indexPath:  ../backend/templates/index.html
  publicPath: /static/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.loadLayout(layoutFile)
			if err != nil {
				return err
			}

			if a.settings.IsProduction {
				gin.SetMode(gin.ReleaseMode)
			}

			srv, err := webapp.New(l, routes.Default(), a.logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&layoutFile, "layout", "", "YAML file describing the build layout")

	return cmd
}

func (a *app) loadLayout(path string) (layout.Layout, error) {
	if path != "" {
		l, err := layout.Load(path, a.settings.IsProduction)
		if err != nil {
			return layout.Layout{}, err
		}
		a.logger.Debug("layout loaded", slog.String("file", path))
		return l, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return layout.Layout{}, err
	}
	return layout.Default(a.settings.IsProduction).Rooted(wd), nil
}
