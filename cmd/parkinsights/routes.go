package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/OrlandoBitencourt/parkinsights/internal/routes"
)

func newRoutesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "routes [path|name]",
		Short: "List dashboard routes, or look one up by path or name",
		Example: `  parkinsights routes
  parkinsights routes /insights
  parkinsights routes Parking`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := routes.Default()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PATH\tNAME\tVIEW")

			if len(args) == 1 {
				r, err := lookupRoute(table, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", r.Path, r.Name, r.View)
				return w.Flush()
			}

			for _, r := range table.Routes() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", r.Path, r.Name, r.View)
			}
			return w.Flush()
		},
	}
}

// lookupRoute resolves arg as a path when it starts with "/" and as a route
// name otherwise.
func lookupRoute(table *routes.Table, arg string) (routes.Route, error) {
	if strings.HasPrefix(arg, "/") {
		if r, ok := table.Resolve(arg); ok {
			return r, nil
		}
		return routes.Route{}, fmt.Errorf("no route for path %q", arg)
	}
	if r, ok := table.ByName(arg); ok {
		return r, nil
	}
	return routes.Route{}, fmt.Errorf("no route named %q", arg)
}
