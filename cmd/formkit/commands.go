package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/dlovans/formkit/pkg/formkit"
	"github.com/dlovans/formkit/pkg/i18n"
	"github.com/dlovans/formkit/pkg/lint"
	"github.com/dlovans/formkit/pkg/loader"
)

// errFailed reports a failed check whose details were already printed.
var errFailed = errors.New("check failed")

type cli struct {
	stdin  io.Reader
	stdout io.Writer
	logger *zap.Logger
	color  bool
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

func withLogger(verbose bool, fn func(*cli) error) error {
	logger, err := newLogger(verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	fd := os.Stdout.Fd()
	return fn(&cli{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		logger: logger,
		color:  isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
	})
}

// readDocument decodes path, or stdin when path is empty.
func (c *cli) readDocument(path string) (map[string]any, error) {
	if path != "" {
		return loader.Load(path)
	}
	data, err := io.ReadAll(c.stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	format := loader.Sniff(data)
	c.logger.Debug("decoding stdin", zap.String("format", string(format)), zap.Int("bytes", len(data)))
	return loader.Decode(data, format)
}

func (c *cli) readForm(path string) (*formkit.FormConfig, error) {
	if path == "" {
		return nil, errors.New("-file is required")
	}
	raw, err := loader.Load(path)
	if err != nil {
		return nil, err
	}
	opts := formkit.DefaultNormalizeOptions()
	opts.Logger = c.logger
	cfg, err := formkit.ParseConfig(raw, opts)
	if err != nil {
		return nil, err
	}
	if cfg.Kind != formkit.KindForm {
		return nil, fmt.Errorf("%s is a %s config, want a form", path, cfg.Kind)
	}
	return cfg.Form, nil
}

func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *cli) lint(path string, strict bool) error {
	raw, err := c.readDocument(path)
	if err != nil {
		return err
	}

	result := lint.ValidateConfig(raw, &lint.Options{Strict: strict})
	c.logger.Debug("lint finished",
		zap.Int("errors", len(result.Errors)),
		zap.Int("warnings", len(result.Warnings)))

	if len(result.Errors) == 0 && len(result.Warnings) == 0 {
		fmt.Fprintln(c.stdout, c.paint(green, "✓ No issues found"))
		return nil
	}

	for _, line := range strings.Split(strings.TrimRight(lint.FormatResult(result), "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "✗"):
			line = c.paint(red, line)
		case strings.HasPrefix(line, "⚠"):
			line = c.paint(yellow, line)
		}
		fmt.Fprintln(c.stdout, line)
	}

	if !result.Valid {
		return errFailed
	}
	return nil
}

type normalizeFlags struct {
	generateIDs bool
	noLabels    bool
	pageSize    int
}

func (c *cli) normalize(path string, flags normalizeFlags) error {
	raw, err := c.readDocument(path)
	if err != nil {
		return err
	}

	opts := formkit.DefaultNormalizeOptions()
	opts.GenerateIDs = flags.generateIDs
	opts.GenerateLabels = lo.ToPtr(!flags.noLabels)
	opts.DefaultPageSize = flags.pageSize
	opts.Logger = c.logger

	cfg, err := formkit.ParseConfig(raw, opts)
	if err != nil {
		return err
	}
	if cfg.Kind == formkit.KindTable {
		return c.printJSON(cfg.Table)
	}
	return c.printJSON(cfg.Form)
}

func (c *cli) validate(path, dataPath string, features []string) error {
	form, err := c.readForm(path)
	if err != nil {
		return err
	}
	data, err := c.readDocument(dataPath)
	if err != nil {
		return err
	}

	flags := formkit.FeatureFlags{}
	for _, f := range features {
		flags[f] = true
	}

	engine := formkit.NewEngine(formkit.WithLogger(c.logger))
	result := engine.ValidateFormConfig(data, form, flags)
	if err := c.printJSON(result); err != nil {
		return err
	}
	if !result.Valid {
		return errFailed
	}
	return nil
}

func (c *cli) compute(path, dataPath string) error {
	form, err := c.readForm(path)
	if err != nil {
		return err
	}
	data, err := c.readDocument(dataPath)
	if err != nil {
		return err
	}

	engine := formkit.NewEngine(formkit.WithLogger(c.logger))
	return c.printJSON(engine.ComputeAll(form.Fields(), data))
}

func (c *cli) translate(path, messagesPath, locale string) error {
	catalog := i18n.NewCatalog(locale, "")
	if messagesPath != "" {
		data, err := os.ReadFile(messagesPath)
		if err != nil {
			return fmt.Errorf("read messages: %w", err)
		}
		if err := catalog.LoadYAML(locale, data); err != nil {
			return err
		}
	}

	raw, err := c.readDocument(path)
	if err != nil {
		return err
	}
	return c.printJSON(i18n.TranslateConfig(raw, catalog))
}

const (
	red    = "31"
	green  = "32"
	yellow = "33"
)

func (c *cli) paint(code, s string) string {
	if !c.color {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}
