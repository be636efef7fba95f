// Command lemur-cli inspects and transforms CSV files with the engine:
// print a file's head or summary statistics, sort by columns, and write the
// result back out as CSV.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/lemur-data/lemur"
)

func customUsage() {
	fmt.Fprintf(os.Stderr, "Lemur columnar engine CLI\n\n")
	fmt.Fprintf(os.Stderr, "Usage: lemur-cli --input FILE [options]\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	fmt.Fprintf(os.Stderr, "  --input FILE\n\t\tCSV file to read (required)\n")
	fmt.Fprintf(os.Stderr, "  --infer\n\t\tInfer column types instead of loading everything as strings\n")
	fmt.Fprintf(os.Stderr, "  --head N\n\t\tKeep only the first N rows\n")
	fmt.Fprintf(os.Stderr, "  --sort COLS\n\t\tComma-separated columns to sort by\n")
	fmt.Fprintf(os.Stderr, "  --desc\n\t\tSort descending instead of ascending\n")
	fmt.Fprintf(os.Stderr, "  --describe\n\t\tPrint summary statistics instead of rows\n")
	fmt.Fprintf(os.Stderr, "  --output FILE\n\t\tWrite the result as CSV to FILE instead of stdout\n")
	fmt.Fprintf(os.Stderr, "  --config FILE\n\t\tLoad engine configuration from a YAML or JSON file\n")
	fmt.Fprintf(os.Stderr, "  -h, --help\n\t\tShow this help message and exit\n")
}

func main() {
	inputFlag := flag.String("input", "", "CSV file to read")
	inferFlag := flag.Bool("infer", false, "Infer column types")
	headFlag := flag.Int("head", 0, "Keep only the first N rows")
	sortFlag := flag.String("sort", "", "Comma-separated columns to sort by")
	descFlag := flag.Bool("desc", false, "Sort descending")
	describeFlag := flag.Bool("describe", false, "Print summary statistics")
	outputFlag := flag.String("output", "", "Write result as CSV to file")
	configFlag := flag.String("config", "", "Engine configuration file")

	flag.Usage = customUsage
	flag.Parse()

	if *inputFlag == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg := lemur.GlobalConfig()
	if *configFlag != "" {
		loaded, err := lemur.LoadConfigFromFile(*configFlag)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
		cfg = loaded
	}
	cfg = lemur.ConfigFromEnv(cfg)
	if err := lemur.SetGlobalConfig(cfg); err != nil {
		log.Fatalf("applying config: %v", err)
	}

	f, err := os.Open(*inputFlag)
	if err != nil {
		log.Fatalf("opening %s: %v", *inputFlag, err)
	}
	opts := lemur.CSVOptions{InferTypes: *inferFlag || lemur.GlobalConfig().CSVInferTypes}
	df, err := lemur.ReadCSVWithOptions(f, opts)
	f.Close()
	if err != nil {
		log.Fatalf("reading %s: %v", *inputFlag, err)
	}

	if *sortFlag != "" {
		columns := strings.Split(*sortFlag, ",")
		for i := range columns {
			columns[i] = strings.TrimSpace(columns[i])
		}
		df, err = df.SortByColumns(columns, !*descFlag)
		if err != nil {
			log.Fatalf("sorting: %v", err)
		}
	}

	if *headFlag > 0 {
		df, err = df.Head(*headFlag)
		if err != nil {
			log.Fatalf("taking head: %v", err)
		}
	}

	if *describeFlag {
		df, err = df.Describe()
		if err != nil {
			log.Fatalf("describing: %v", err)
		}
	}

	if *outputFlag != "" {
		if err := lemur.WriteCSVFile(*outputFlag, df); err != nil {
			log.Fatalf("writing %s: %v", *outputFlag, err)
		}
		return
	}
	if err := lemur.WriteCSV(os.Stdout, df); err != nil {
		log.Fatalf("writing output: %v", err)
	}
}
