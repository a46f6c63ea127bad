package main

import (
	"flag"
	"fmt"
	"os"

	v1 "github.com/nicopkrauss/talenttracker/client/v1"
)

// A terminal rendition of the check-in/break/check-out action bar: show the
// shift's current state, or apply its next permitted action.
func main() {
	baseURL := flag.String("url", "http://localhost:8080", "timecard API base URL")
	shiftID := flag.String("shift", "", "shift id (uuid)")
	action := flag.String("action", "", "transition to apply; empty just prints the summary")
	flag.Parse()

	if *shiftID == "" {
		fmt.Fprintln(os.Stderr, "usage: actionbar -shift <uuid> [-action check_in|start_break|end_break|check_out]")
		os.Exit(1)
	}

	client := v1.NewTimecardClient(*baseURL, os.Getenv("TT_TOKEN"))

	var (
		summary *v1.SummaryDTO
		err     error
	)
	if *action != "" {
		summary, err = client.Shifts.Transition(*shiftID, *action)
	} else {
		summary, err = client.Shifts.Summary(*shiftID)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s  %.2fh", summary.Resolution.StatusLabel, summary.Derived.ShiftHours)
	if summary.Derived.Overtime {
		fmt.Print("  OVERTIME")
	}
	fmt.Println()

	if summary.Resolution.ShowControl && summary.Resolution.NextAction != "complete" {
		fmt.Printf("next: %s", summary.Resolution.NextAction)
		if summary.Resolution.NextAction == "end_break" && !summary.Resolution.CanEndBreak {
			fmt.Printf(" (disabled, %.0f min into break)", summary.Derived.BreakElapsedMinutes)
		}
		fmt.Println()
	}
}
