// Package main provides a CLI for checking and exercising formkit configs.
// It is useful for CI gating and for trying forms against sample data.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

func main() {
	lintCmd := flag.NewFlagSet("lint", flag.ExitOnError)
	lintFile := lintCmd.String("file", "", "Config file to lint (or use stdin)")
	lintStrict := lintCmd.Bool("strict", false, "Treat warnings as errors")
	lintVerbose := lintCmd.Bool("verbose", false, "Enable debug logging")

	normCmd := flag.NewFlagSet("normalize", flag.ExitOnError)
	normFile := normCmd.String("file", "", "Config file to normalize (or use stdin)")
	normIDs := normCmd.Bool("ids", false, "Generate missing ids")
	normNoLabels := normCmd.Bool("no-labels", false, "Do not generate labels from names")
	normPageSize := normCmd.Int("page-size", 10, "Default page size for paginated tables")
	normVerbose := normCmd.Bool("verbose", false, "Enable debug logging")

	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	validateFile := validateCmd.String("file", "", "Form config file")
	validateData := validateCmd.String("data", "", "Form data file (or use stdin)")
	validateFlags := validateCmd.String("features", "", "Comma-separated feature flags that are on")
	validateVerbose := validateCmd.Bool("verbose", false, "Enable debug logging")

	computeCmd := flag.NewFlagSet("compute", flag.ExitOnError)
	computeFile := computeCmd.String("file", "", "Form config file")
	computeData := computeCmd.String("data", "", "Form data file (or use stdin)")
	computeVerbose := computeCmd.Bool("verbose", false, "Enable debug logging")

	translateCmd := flag.NewFlagSet("translate", flag.ExitOnError)
	translateFile := translateCmd.String("file", "", "Config file (or use stdin)")
	translateMessages := translateCmd.String("messages", "", "Message catalog (YAML or JSON)")
	translateLocale := translateCmd.String("locale", "en", "Locale of the message catalog")
	translateVerbose := translateCmd.Bool("verbose", false, "Enable debug logging")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "lint":
		lintCmd.Parse(os.Args[2:])
		err = withLogger(*lintVerbose, func(c *cli) error {
			return c.lint(*lintFile, *lintStrict)
		})

	case "normalize":
		normCmd.Parse(os.Args[2:])
		err = withLogger(*normVerbose, func(c *cli) error {
			return c.normalize(*normFile, normalizeFlags{
				generateIDs: *normIDs,
				noLabels:    *normNoLabels,
				pageSize:    *normPageSize,
			})
		})

	case "validate":
		validateCmd.Parse(os.Args[2:])
		err = withLogger(*validateVerbose, func(c *cli) error {
			return c.validate(*validateFile, *validateData, splitFlags(*validateFlags))
		})

	case "compute":
		computeCmd.Parse(os.Args[2:])
		err = withLogger(*computeVerbose, func(c *cli) error {
			return c.compute(*computeFile, *computeData)
		})

	case "translate":
		translateCmd.Parse(os.Args[2:])
		err = withLogger(*translateVerbose, func(c *cli) error {
			return c.translate(*translateFile, *translateMessages, *translateLocale)
		})

	default:
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		if err != errFailed {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("formkit - config-driven tables and forms")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  formkit lint [-strict] [-file config.json]")
	fmt.Println("  formkit normalize [-ids] [-no-labels] [-page-size N] [-file config.json]")
	fmt.Println("  formkit validate -file form.json [-data data.json] [-features a,b]")
	fmt.Println("  formkit compute -file form.json [-data data.json]")
	fmt.Println("  formkit translate -messages es.yaml [-locale es] [-file config.json]")
	fmt.Println()
	fmt.Println("Config files may be JSON, YAML or CUE. Every command accepts -verbose.")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  formkit lint -strict -file order.yaml")
	fmt.Println("  cat order.json | formkit normalize -ids")
	fmt.Println("  formkit validate -file order.cue -data submission.json -features pricing")
}

func splitFlags(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
