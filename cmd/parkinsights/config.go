package main

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/OrlandoBitencourt/parkinsights"
)

type configView struct {
	parkinsights.Settings
	Timeout     string `json:"timeout"`
	ParkingURL  string `json:"parkingUrl"`
	InsightsURL string `json:"insightsUrl"`
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved backend settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.newClient()
			if err != nil {
				return err
			}

			s := client.Settings()
			base := strings.TrimSuffix(s.BaseURL, "/")
			return writeJSON(cmd.OutOrStdout(), configView{
				Settings:    s,
				Timeout:     client.Timeout().Round(time.Millisecond).String(),
				ParkingURL:  base + parkinsights.ParkingDataPath,
				InsightsURL: base + parkinsights.InsightsPath,
			}, false)
		},
	}
}
