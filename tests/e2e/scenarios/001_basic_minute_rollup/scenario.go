package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"time"

	"burnout-chart/internal/app"
	"burnout-chart/internal/models"
	"burnout-chart/internal/shared/configs"
	"burnout-chart/internal/shared/filestorages"
	"burnout-chart/internal/stores"
)

// ### Start - fixed configs (no change)
// These values define deterministic test data generation and must match expected results.
// DO NOT MODIFY: Changing these will break the test's deterministic behavior.
const (
	totalEntries = 64000 // Total number of log lines to generate
)

var (
	minutes  = []string{"18:03", "18:04", "18:05", "18:06"}
	paths    = []string{"/", "/about", "/careers", "/contact"}
	statuses = []string{"200", "304", "404", "500"}
)

// ### End - fixed configs

type entry struct {
	bucket int
	round  int
}

type minuteTally struct {
	req, succ, fail, succDura int64
}

// main runs the e2e scenario: 001_basic_minute_rollup
//
// This scenario writes a deterministic IIS log of 64,000 lines spread over four
// minutes, four paths and four status codes, then drives the parse and preview
// commands in-process.
//
// What it tests:
//   - W3C header resolution and per-line extraction at volume
//   - Dual keying: arrivals on the request second, outcomes on the response second
//   - Parallel ingestion produces the same series as sequential ingestion
//   - Minute rollup of the saved series
//
// Expected results:
//   - The sequential and parallel series files hold identical data points
//   - Every minute bucket matches a tally computed here independently of the app
//     (arrivals that start before 18:03:00 land in an 18:02 bucket)
func main() {
	// these configs can be changed to run the scenario
	dateUTC := getEnv("DATE_UTC", "2025-12-28")                 // Date of the generated log lines (UTC)
	workers := getEnvInt("WORKERS", 4)                          // Workers of the parallel parse
	partitionLines := getEnvInt("PARTITION_LINES", 997)         // Lines per chunk of the parallel parse
	workDir := getEnv("WORK_DIR", ".tmp/e2e-001")               // Directory for the log and series files
	wantCleanWorkDir := getEnvBool("WANT_CLEAN_WORK_DIR", true) // If true, remove the directory before running

	if wantCleanWorkDir {
		fmt.Printf("Cleaning work directory: %s\n", workDir)
		if err := os.RemoveAll(workDir); err != nil {
			fmt.Fprintf(os.Stderr, "WARNING: Failed to clean work directory: %v\n", err)
		}
	}
	if err := os.MkdirAll(workDir, 0755); err != nil {
		fail("Failed to create work directory: %v", err)
	}

	fmt.Println("Starting e2e scenario: 001_basic_minute_rollup")
	fmt.Printf("DATE_UTC: %s\n", dateUTC)
	fmt.Printf("WORKERS: %d\n", workers)
	fmt.Printf("PARTITION_LINES: %d\n", partitionLines)
	fmt.Printf("WORK_DIR: %s\n", workDir)
	fmt.Printf("TOTAL_ENTRIES: %d\n", totalEntries)
	fmt.Println()

	date, err := time.Parse("2006-01-02", dateUTC)
	if err != nil {
		fail("Invalid DATE_UTC: %v", err)
	}

	logPath := filepath.Join(workDir, "u_ex"+date.Format("060102")+".log")
	expected, err := writeLog(logPath, dateUTC)
	if err != nil {
		fail("Failed to write log: %v", err)
	}
	fmt.Printf("Generated %s\n\n", logPath)

	ctx := context.Background()
	sequentialPath := filepath.Join(workDir, "sequential.json")
	parallelPath := filepath.Join(workDir, "parallel.json")

	sequential := newApp(1, partitionLines)
	if _, err := sequential.Parse(ctx, app.ParseRequest{LogPath: logPath, OutputPath: sequentialPath}); err != nil {
		fail("Sequential parse failed: %v", err)
	}

	parallel := newApp(workers, partitionLines)
	parsed, err := parallel.Parse(ctx, app.ParseRequest{LogPath: logPath, OutputPath: parallelPath})
	if err != nil {
		fail("Parallel parse failed: %v", err)
	}
	if parsed.RecordCount != totalEntries || parsed.MalformedCount != 0 {
		fail("Parsed %d records with %d malformed, want %d and 0", parsed.RecordCount, parsed.MalformedCount, totalEntries)
	}

	sequentialSeries := loadSeries(ctx, sequentialPath)
	parallelSeries := loadSeries(ctx, parallelPath)
	if !reflect.DeepEqual(sequentialSeries, parallelSeries) {
		fail("Parallel series differs from sequential series")
	}
	fmt.Printf("Sequential and parallel series match (%d seconds)\n\n", len(parallelSeries))

	preview, err := parallel.Preview(ctx, app.PreviewRequest{SeriesPath: parallelPath, Unit: "m"})
	if err != nil {
		fail("Preview failed: %v", err)
	}

	mismatches := 0
	for _, b := range preview.Buckets {
		want := expected[b.Key]
		got := minuteTally{req: b.Point.ReqCount, succ: b.Point.SuccCount, fail: b.Point.FailCount, succDura: b.Point.TotalSuccDura}
		if got != want {
			mismatches++
			fmt.Fprintf(os.Stderr, "MISMATCH %s: got %+v, want %+v\n", b.Key, got, want)
		}
	}
	if len(preview.Buckets) != len(expected) {
		fail("Got %d minute buckets, want %d", len(preview.Buckets), len(expected))
	}
	if mismatches > 0 {
		fail("%d minute buckets differ from the expected tally", mismatches)
	}

	fmt.Println()
	fmt.Println("=== Statistics ===")
	fmt.Printf("Lines read: %d\n", parsed.LineCount)
	fmt.Printf("Records: %d\n", parsed.RecordCount)
	fmt.Printf("Second buckets: %d\n", parsed.BucketCount)
	fmt.Printf("Minute buckets: %d\n", len(preview.Buckets))
	fmt.Println("Scenario completed successfully")
}

func newApp(workers, partitionLines int) *app.App {
	cfg, err := configs.LoadConfig("")
	if err != nil {
		fail("Failed to load config: %v", err)
	}
	cfg.Log.Level = getEnv("LOG_LEVEL", "warn")
	cfg.Ingestion.Workers = workers
	cfg.Ingestion.PartitionLines = partitionLines
	cfg.Ingestion.TimeZone = "UTC"

	application, err := app.New(cfg, os.Stdout)
	if err != nil {
		fail("Failed to initialize app: %v", err)
	}
	return application
}

func loadSeries(ctx context.Context, path string) []*models.DataPoint {
	fileStorage, key, err := filestorages.ForPath(path)
	if err != nil {
		fail("Failed to open %s: %v", path, err)
	}
	series, err := stores.NewSeriesStore(fileStorage).Load(ctx, key)
	if err != nil {
		fail("Failed to load %s: %v", path, err)
	}
	return series
}

// writeLog writes every generated entry as a W3C line and returns the per-minute
// tally the app is expected to report.
func writeLog(path, dateUTC string) (map[string]minuteTally, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	fmt.Fprintf(w, "#Software: Microsoft Internet Information Services 10.0\n")
	fmt.Fprintf(w, "#Version: 1.0\n")
	fmt.Fprintf(w, "#Date: %s 00:00:00\n", dateUTC)
	fmt.Fprintf(w, "#Fields: date time s-ip cs-method cs-uri-stem cs-uri-query s-port cs-username c-ip cs(User-Agent) cs(Referer) sc-status sc-substatus sc-win32-status time-taken\n")

	tally := make(map[string]minuteTally)
	for _, e := range generateAllEntries() {
		minuteIndex := e.bucket / 16
		combo := e.bucket % 16
		path := paths[combo/4]
		status := statuses[combo%4]
		seconds := e.round % 60
		timeTaken := (e.bucket*17 + e.round) % 1000

		fmt.Fprintf(w, "%s %s:%02d 10.0.0.1 GET %s - 443 - 10.0.0.2 e2e/1.0 - %s 0 0 %d\n",
			dateUTC, minutes[minuteIndex], seconds, path, status, timeTaken)

		response, err := time.Parse("2006-01-02 15:04:05", fmt.Sprintf("%s %s:%02d", dateUTC, minutes[minuteIndex], seconds))
		if err != nil {
			return nil, err
		}
		request := response.Add(-time.Duration(timeTaken) * time.Millisecond).Truncate(time.Second)

		reqKey := request.Truncate(time.Minute).Format(models.BucketKeyLayout)
		t := tally[reqKey]
		t.req++
		tally[reqKey] = t

		respKey := response.Truncate(time.Minute).Format(models.BucketKeyLayout)
		t = tally[respKey]
		if status[0] == '2' || status[0] == '3' {
			t.succ++
			t.succDura += int64(timeTaken)
		} else {
			t.fail++
		}
		tally[respKey] = t
	}
	return tally, w.Flush()
}

func generateAllEntries() []entry {
	entries := make([]entry, 0, totalEntries)
	bucket := 0
	round := 0

	for count := 0; count < totalEntries; count++ {
		entries = append(entries, entry{bucket: bucket, round: round})

		bucket++
		if bucket >= 64 {
			bucket = 0
			round++
		}
	}

	return entries
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "ERROR: "+format+"\n", args...)
	os.Exit(1)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
