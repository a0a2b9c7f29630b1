package config

import (
	"strings"

	"git.home.luguber.info/inful/docsplit/internal/foundation/errors"
	"git.home.luguber.info/inful/docsplit/internal/workspace"
)

// Validate checks the configuration for values the splitter cannot work
// with. An empty log level or format is accepted and means the default.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Input) == "" {
		return invalid("input", c.Input, "input folder is required")
	}
	if out := c.ResolveOutput(); workspace.Contains(out, c.Input) {
		return invalid("output", out, "output folder must not be the input folder or contain it")
	}

	for _, ext := range []struct{ field, value string }{
		{"source_ext", c.SourceExt},
		{"media_ext", c.MediaExt},
	} {
		if !strings.HasPrefix(ext.value, ".") || len(ext.value) < 2 {
			return invalid(ext.field, ext.value, "extension must start with a dot")
		}
	}

	// "/" publishes pages as directory URLs.
	if c.PageExt != "/" && (!strings.HasPrefix(c.PageExt, ".") || len(c.PageExt) < 2) {
		return invalid("page_ext", c.PageExt, "page extension must start with a dot or be \"/\"")
	}
	if strings.EqualFold(c.SourceExt, c.PageExt) {
		return invalid("page_ext", c.PageExt, "page extension must differ from the source extension")
	}

	if c.MediaDir == "" || strings.ContainsAny(c.MediaDir, `/\`) || c.MediaDir == "." || c.MediaDir == ".." {
		return invalid("media_dir", c.MediaDir, "media folder must be a single path segment")
	}

	if c.Concurrency < 0 {
		return invalid("concurrency", c.Concurrency, "concurrency cannot be negative")
	}
	if c.Watch.Debounce < 0 || c.Watch.Every < 0 {
		return invalid("watch", c.Watch, "watch durations cannot be negative")
	}

	for i, rule := range c.Artifacts {
		if rule.Contains == "" && rule.Equals == "" {
			return errors.ValidationError("artifact rule needs contains or equals").
				WithContext("index", i).
				WithContext("name", rule.Name).
				Build()
		}
	}

	if _, err := logLevelNormalizer.NormalizeWithError(c.Logging.Level); err != nil {
		return invalid("logging.level", c.Logging.Level, err.Error())
	}
	if _, err := logFormatNormalizer.NormalizeWithError(c.Logging.Format); err != nil {
		return invalid("logging.format", c.Logging.Format, err.Error())
	}
	return nil
}

func invalid(field string, value any, message string) error {
	return errors.ValidationError(message).
		WithContext("field", field).
		WithContext("value", value).
		Build()
}
