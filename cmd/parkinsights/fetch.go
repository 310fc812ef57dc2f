package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/OrlandoBitencourt/parkinsights"
	"github.com/OrlandoBitencourt/parkinsights/internal/zonefilter"
)

func newParkingCmd(a *app) *cobra.Command {
	var (
		where string
		raw   bool
	)

	cmd := &cobra.Command{
		Use:   "parking",
		Short: "Fetch parking zones (GET /api/parking/)",
		Long: `Fetch the parking data payload from the backend.

With --where, zones are decoded and filtered by an expression over:
  zone_number, street, lat, lon, total_spots, available_spots,
  occupied_spots, occupancy, has_coords, has_counts, has_update

Examples:
  parkinsights parking
  parkinsights parking --where 'available_spots > 0'
  parkinsights parking --where 'street contains "Collins" && occupancy < 0.5'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter *zonefilter.Filter
			if where != "" {
				f, err := zonefilter.Compile(where)
				if err != nil {
					return err
				}
				filter = f
			}

			client, err := a.newClient()
			if err != nil {
				return err
			}
			defer a.reportMetrics(cmd.Context())

			resp, err := client.GetParkingData(cmd.Context())
			if err != nil {
				return a.requestFailed(cmd, "parking data", resp, err)
			}

			if filter == nil {
				return writeBody(cmd.OutOrStdout(), resp.Body, raw)
			}

			var payload parkinsights.ParkingPayload
			if err := resp.DecodeJSON(&payload); err != nil {
				return err
			}

			zones, err := filter.Apply(payload.Results)
			if err != nil {
				return err
			}
			a.logger.Debug("zones filtered",
				slog.String("where", filter.String()),
				slog.Int("total", len(payload.Results)),
				slog.Int("matched", len(zones)),
			)

			return writeJSON(cmd.OutOrStdout(), parkinsights.ParkingPayload{Results: zones}, raw)
		},
	}

	cmd.Flags().StringVarP(&where, "where", "w", "", "Filter expression over parking zones")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the body without indentation")

	return cmd
}

func newInsightsCmd(a *app) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Fetch insights (GET /api/insights/)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.newClient()
			if err != nil {
				return err
			}
			defer a.reportMetrics(cmd.Context())

			resp, err := client.GetInsights(cmd.Context())
			if err != nil {
				return a.requestFailed(cmd, "insights", resp, err)
			}

			return writeBody(cmd.OutOrStdout(), resp.Body, raw)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print the body without indentation")

	return cmd
}

// requestFailed echoes an error response body to stderr and wraps err.
func (a *app) requestFailed(cmd *cobra.Command, what string, resp *parkinsights.Response, err error) error {
	switch {
	case parkinsights.IsTimeout(err):
		a.logger.Error("request timed out", slog.String("what", what), slog.Duration("timeout", a.timeout))
	case parkinsights.IsHTTPError(err) && resp != nil && len(resp.Body) > 0:
		_ = writeBody(cmd.ErrOrStderr(), resp.Body, true)
	}
	return fmt.Errorf("failed to fetch %s: %w", what, err)
}

// writeBody prints body, indenting it when it is JSON and raw is false.
func writeBody(w io.Writer, body []byte, raw bool) error {
	if !raw && json.Valid(body) {
		var buf bytes.Buffer
		if err := json.Indent(&buf, body, "", "  "); err == nil {
			body = buf.Bytes()
		}
	}

	if _, err := w.Write(body); err != nil {
		return err
	}
	if len(body) == 0 || body[len(body)-1] != '\n' {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}

func writeJSON(w io.Writer, v any, raw bool) error {
	enc := json.NewEncoder(w)
	if !raw {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
