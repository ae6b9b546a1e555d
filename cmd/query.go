package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jwhandley/railisochrone/geojson"
	"github.com/jwhandley/railisochrone/persist"
)

var queryCmd = &cobra.Command{
	Use:   "query <network-file> <lat> <lon>",
	Short: "Queries a saved network for earliest arrival times from (lat, lon)",
	Args:  cobra.ExactArgs(3),
	RunE:  runQuery,
}

var (
	queryDate string
	queryTime string
)

func init() {
	queryCmd.Flags().StringVarP(&queryDate, "date", "d", "", "Departure date, YYYY-MM-DD (default: today)")
	queryCmd.Flags().StringVarP(&queryTime, "time", "t", "", "Departure time, HH:MM (default: now)")
}

func runQuery(cmd *cobra.Command, args []string) error {
	start := time.Now()

	var lat, lon float64
	if _, err := fmt.Sscanf(args[1], "%f", &lat); err != nil {
		return fmt.Errorf("invalid lat %q: %w", args[1], err)
	}
	if _, err := fmt.Sscanf(args[2], "%f", &lon); err != nil {
		return fmt.Errorf("invalid lon %q: %w", args[2], err)
	}

	date, timeOfDay, err := parseQueryMoment(queryDate, queryTime)
	if err != nil {
		return err
	}

	n, err := persist.Load(args[0])
	if err != nil {
		return fmt.Errorf("loading network: %w", err)
	}

	arrivals := n.QueryLatLon(lat, lon, date, timeOfDay)

	fc := geojson.FromArrivalTimes(arrivals)
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(fc); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "%d stops reached (%s)\n", len(arrivals), time.Since(start))
	return nil
}

func parseQueryMoment(dateStr, timeStr string) (time.Time, time.Duration, error) {
	now := time.Now().UTC()

	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if dateStr != "" {
		d, err := time.ParseInLocation("2006-01-02", dateStr, time.UTC)
		if err != nil {
			return time.Time{}, 0, fmt.Errorf("invalid date %q: %w", dateStr, err)
		}
		date = d
	}

	timeOfDay := time.Duration(now.Hour())*time.Hour + time.Duration(now.Minute())*time.Minute
	if timeStr != "" {
		t, err := time.ParseInLocation("15:04", timeStr, time.UTC)
		if err != nil {
			return time.Time{}, 0, fmt.Errorf("invalid time %q: %w", timeStr, err)
		}
		timeOfDay = time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute
	}

	return date, timeOfDay, nil
}
