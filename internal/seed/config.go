// Package seed drives a running pennant server over HTTP with generated
// fans: each one fills in and submits both leagues and an award sheet,
// then the public lists are checked against what was sent.
package seed

import "time"

// Config holds configuration for a seeding run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Fans       int           // Number of fans to generate
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	Seed       int64         // Seed for the shuffles; 0 picks one from the clock
	OutputFile string        // Where to write the generated fans; empty skips
	Verbose    bool
}

// Fan is one generated user and everything they will submit.
type Fan struct {
	Owner     string                       `json:"owner"`
	Standings map[string][]string          `json:"standings"`
	Titles    map[string]map[string]string `json:"titles"`
}

// Stats holds run statistics.
type Stats struct {
	FansGenerated   int
	SessionsOpened  int64
	MovesApplied    int64
	MovesRejected   int64
	Submitted       int64
	SubmitFailed    int64
	TitleSheetsSent int64
	Verified        int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
