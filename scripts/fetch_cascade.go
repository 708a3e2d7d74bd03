package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// fetch_cascade.go - Downloads the pigo facefinder cascade the local
// extractor needs (CASCADE_PATH, default cascade/facefinder).
//
// Usage:
//   go run scripts/fetch_cascade.go [dest]
//
// Example:
//   go run scripts/fetch_cascade.go cascade/facefinder

const cascadeURL = "https://raw.githubusercontent.com/esimov/pigo/master/cascade/facefinder"

func main() {
	dest := "cascade/facefinder"
	if len(os.Args) > 1 {
		dest = os.Args[1]
	}

	if err := fetch(cascadeURL, dest); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("cascade written to %s\n", dest)
}

func fetch(url, dest string) error {
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("download cascade: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download cascade: status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create cascade dir: %w", err)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create cascade file: %w", err)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("write cascade file: %w", err)
	}

	return nil
}
