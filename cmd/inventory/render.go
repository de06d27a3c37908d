package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"dtiestoque.org/internal/client"
	"dtiestoque.org/internal/inventory"
)

func renderTable(w io.Writer, rows []inventory.Equipment) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIPO\tMARCA\tMODELO\tPATRIMÔNIO\tSTATUS\tLOCAL")
	for _, eq := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			eq.ID, eq.Type, eq.Brand, eq.Model, orDash(eq.AssetTag), eq.Status.Label(), inventory.LocationName(eq.LocationID))
	}
	tw.Flush()
}

func renderDetails(w io.Writer, eq inventory.Equipment) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	date := "-"
	if eq.RegisteredOn != nil {
		date = eq.RegisteredOn.Format("02/01/2006")
	}
	fmt.Fprintf(tw, "ID:\t%d\n", eq.ID)
	fmt.Fprintf(tw, "Tipo:\t%s\n", eq.Type)
	fmt.Fprintf(tw, "Marca:\t%s\n", eq.Brand)
	fmt.Fprintf(tw, "Modelo:\t%s\n", eq.Model)
	fmt.Fprintf(tw, "Patrimônio:\t%s\n", orDash(eq.AssetTag))
	fmt.Fprintf(tw, "Número de série:\t%s\n", orDash(eq.SerialNumber))
	fmt.Fprintf(tw, "Status:\t%s\n", eq.Status.Label())
	fmt.Fprintf(tw, "Local:\t%s\n", inventory.LocationName(eq.LocationID))
	fmt.Fprintf(tw, "Data de cadastro:\t%s\n", date)
	fmt.Fprintf(tw, "Observação:\t%s\n", orDash(eq.Note))
	tw.Flush()
}

func renderDashboard(w io.Writer, d client.Dashboard) {
	fmt.Fprintf(w, "Total: %d   Em estoque: %d   Para descarte: %d\n\n", d.Counts.Total, d.Counts.InStock, d.Counts.Discard)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORIA\tQTD")
	for _, c := range d.Categories {
		fmt.Fprintf(tw, "%s\t%d\n", c.Category, c.Count)
	}
	fmt.Fprintln(tw, "\t")
	fmt.Fprintln(tw, "STATUS\tQTD")
	for _, s := range d.Statuses {
		fmt.Fprintf(tw, "%s\t%d\n", s.Status.Label(), s.Count)
	}
	tw.Flush()
}

func orDash(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return "-"
	}
	return *s
}
