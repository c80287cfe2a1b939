package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/gnemet/dashgrid"
	"github.com/spf13/cobra"
)

var queryFlags struct {
	search   string
	filters  map[string]string
	sort     string
	group    string
	page     int
	pageSize int
	asJSON   bool
}

var queryCmd = &cobra.Command{
	Use:   "query <widget>",
	Short: "Run a query against a widget and print the view",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(nil)
		if err != nil {
			return err
		}
		h, err := a.widget(args[0])
		if err != nil {
			return fmt.Errorf("%w (available: %s)", err, strings.Join(a.names(), ", "))
		}
		w, err := a.catalog.Widget(args[0])
		if err != nil {
			return err
		}
		cols, err := a.catalog.Descriptors(w, cfg.Catalog.Lang)
		if err != nil {
			return err
		}

		params := url.Values{}
		if cmd.Flags().Changed("search") {
			params.Set("search", queryFlags.search)
		}
		for k, v := range queryFlags.filters {
			params.Set(k, v)
		}
		if queryFlags.sort != "" {
			params.Set("sort", queryFlags.sort)
		}
		if queryFlags.group != "" {
			params.Set("group", queryFlags.group)
		}
		if queryFlags.page > 0 {
			params.Set("page", strconv.Itoa(queryFlags.page))
		}
		if cmd.Flags().Changed("page-size") {
			params.Set("page_size", strconv.Itoa(queryFlags.pageSize))
		}

		q := dashgrid.ParseParams(params, cols, w.Defaults)
		result, err := h.Run(cmd.Context(), q)
		if err != nil {
			return err
		}

		if queryFlags.asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}
		return printTable(cmd.OutOrStdout(), result)
	},
}

func init() {
	f := queryCmd.Flags()
	f.StringVarP(&queryFlags.search, "search", "s", "", "free-text search across all columns")
	f.StringToStringVarP(&queryFlags.filters, "filter", "f", nil, "column filter, e.g. -f status=review")
	f.StringVar(&queryFlags.sort, "sort", "", "sort as field:asc|desc|none")
	f.StringVarP(&queryFlags.group, "group", "g", "", "group by field, or none")
	f.IntVarP(&queryFlags.page, "page", "p", 0, "1-indexed page")
	f.IntVar(&queryFlags.pageSize, "page-size", 0, "rows per page")
	f.BoolVar(&queryFlags.asJSON, "json", false, "print the raw view as JSON")
}

func printTable(out io.Writer, res *dashgrid.TableResult) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	headers := make([]string, len(res.Columns))
	for i, c := range res.Columns {
		headers[i] = strings.ToUpper(c.Label)
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	for _, row := range res.Rows {
		cells := make([]string, len(res.Columns))
		for i, c := range res.Columns {
			cells[i] = row.Cells[c.Key]
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, g := range res.Groups {
		fmt.Fprintf(out, "  %-16s %d\n", g.Label, g.Count)
	}
	fmt.Fprintf(out, "page %d/%d, %d of %d records matched\n", res.Page, res.TotalPages, res.TotalMatched, res.TotalSource)
	return nil
}
