package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/claude/rpfocus/internal/models"
	"github.com/claude/rpfocus/internal/program"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	week := flag.Int("week", 0, "program week to print (0 prints every week)")
	mode := flag.String("mode", string(models.ModeMaintenance), "training mode: maintenance or bulking")
	asJSON := flag.Bool("json", false, "print JSON instead of tables")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("rpfocus-plan", Version)
		return
	}

	weeks := []int{*week}
	if *week == 0 {
		weeks = weeks[:0]
		for w := 1; w <= program.Weeks; w++ {
			weeks = append(weeks, w)
		}
	}

	plans := make([]program.WeekPlan, 0, len(weeks))
	for _, w := range weeks {
		p, err := program.PlanWeek(w, models.TrainingMode(*mode))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		plans = append(plans, p)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(plans); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}
	for i, p := range plans {
		if i > 0 {
			fmt.Println()
		}
		printWeek(os.Stdout, p)
	}
}

func printWeek(out io.Writer, p program.WeekPlan) {
	fmt.Fprintf(out, "Week %d (%s) %s, RIR %s\n", p.Week, p.Mode, p.Guidance.Phase, p.Guidance.RIR)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, d := range p.Days {
		title := fmt.Sprintf("Day %d  %s  %s", d.Day+1, d.Workout, d.Name)
		if d.Deload {
			title += "  [deload]"
		}
		fmt.Fprintf(tw, "%s\t\t%d sets\n", title, d.TotalSets())
		for _, ex := range d.Exercises {
			fmt.Fprintf(tw, "  %s\t%s\t%d\n", ex.Name, ex.Muscle.Label(), ex.Sets)
		}
	}
	tw.Flush()

	fmt.Fprintln(out, "Volume:")
	tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, v := range p.Volume {
		fmt.Fprintf(tw, "  %s\t%d\t%s\t%s\n", v.Label, v.Sets, v.Zone, strings.Repeat("#", int(v.Fill*20+0.5)))
	}
	tw.Flush()
}
