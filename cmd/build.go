package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	csvadapter "github.com/jwhandley/railisochrone/adapter/csv"
	"github.com/jwhandley/railisochrone/buildstore"
	"github.com/jwhandley/railisochrone/network"
	"github.com/jwhandley/railisochrone/persist"
)

var buildCmd = &cobra.Command{
	Use:   "build <csv-dir> <out-file>",
	Short: "Builds a network from a CSV timetable directory and saves it",
	Args:  cobra.ExactArgs(2),
	RunE:  runBuild,
}

var buildStoreDB string

func init() {
	buildCmd.Flags().StringVarP(&buildStoreDB, "store", "s", "", "SQLite build history database (optional)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	start := time.Now()
	dir, out := args[0], args[1]

	a := csvadapter.New(dir)

	n, err := network.Build(a)
	if err != nil {
		return fmt.Errorf("building network: %w", err)
	}

	if err := persist.Save(n, out); err != nil {
		return fmt.Errorf("saving network: %w", err)
	}

	fmt.Printf("built %d stops, %d connections -> %s (%s)\n", len(n.Stops), len(n.Connections), out, time.Since(start))

	if buildStoreDB == "" {
		return nil
	}

	sum, err := fileSHA256(out)
	if err != nil {
		return fmt.Errorf("hashing output: %w", err)
	}

	store, err := buildstore.NewSQLiteStore(buildStoreDB)
	if err != nil {
		return fmt.Errorf("opening build store: %w", err)
	}
	defer store.Close()

	err = store.RecordBuild(buildstore.BuildRecord{
		Source:          dir,
		BlobPath:        out,
		BlobSHA256:      sum,
		BuiltAt:         time.Now(),
		StopCount:       len(n.Stops),
		ConnectionCount: len(n.Connections),
	})
	if err != nil {
		return fmt.Errorf("recording build: %w", err)
	}

	return nil
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
