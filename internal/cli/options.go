package cli

import (
	"fmt"
	"strings"

	"github.com/aretw0/inkwell"
	"github.com/aretw0/inkwell/internal/logging"
	"github.com/aretw0/inkwell/pkg/contextsource"
	"github.com/aretw0/inkwell/pkg/domain"
)

const (
	// DefaultContextFile is used when no context flag is given and the file exists.
	DefaultContextFile  = "context.toml"
	DefaultTemplateRoot = "src"
	DefaultTemplateGlob = "**/*.tera"

	// DisabledGlob turns off on-disk template inclusion.
	DisabledGlob = "false"
)

// Options contains the configuration shared by every command.
type Options struct {
	JSON string
	TOML string
	YAML string
	HCL  string

	Watch        bool
	TemplateRoot string
	TemplateGlob string
	ContextKey   string
	LogLevel     string
	MetricsFile  string
}

// DefaultOptions returns the options used when no flag is set.
func DefaultOptions() Options {
	return Options{
		TemplateRoot: DefaultTemplateRoot,
		TemplateGlob: DefaultTemplateGlob,
		ContextKey:   inkwell.DefaultContextKey,
		LogLevel:     "info",
	}
}

type contextFlag struct {
	path   string
	format contextsource.Format
}

func (o Options) contextFlags() []contextFlag {
	return []contextFlag{
		{o.JSON, contextsource.FormatJSON},
		{o.TOML, contextsource.FormatTOML},
		{o.YAML, contextsource.FormatYAML},
		{o.HCL, contextsource.FormatHCL},
	}
}

// Validate checks the options without touching the file system.
func (o Options) Validate() error {
	var set []string
	for _, f := range o.contextFlags() {
		if f.path != "" {
			set = append(set, "--"+string(f.format))
		}
	}
	if len(set) > 1 {
		return domain.NewError(domain.KindConfiguration, "validate options", "",
			fmt.Errorf("context flags %s are mutually exclusive", strings.Join(set, ", ")))
	}
	if o.ContextKey == "" {
		return domain.NewError(domain.KindConfiguration, "validate options", "",
			fmt.Errorf("--context-key must not be empty"))
	}
	if _, err := logging.ParseLevel(o.LogLevel); err != nil {
		return domain.NewError(domain.KindConfiguration, "validate options", "", err)
	}
	return nil
}

// ContextFile returns the context file selected by a flag, if any.
func (o Options) ContextFile() (string, contextsource.Format, bool) {
	for _, f := range o.contextFlags() {
		if f.path != "" {
			return f.path, f.format, true
		}
	}
	return "", "", false
}

// TemplatesEnabled reports whether on-disk templates should be included.
func (o Options) TemplatesEnabled() bool {
	return o.TemplateGlob != "" && o.TemplateGlob != DisabledGlob
}
