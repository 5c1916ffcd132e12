package download

import (
	"os"
	"slices"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/cperrin88/assetfetch/pkg/backend"
	"github.com/cperrin88/assetfetch/pkg/errors"
)

// NamingStrategy is the rule for deriving a local file name from an asset.
type NamingStrategy string

const (
	// NamingByFileName saves the asset under the file name in its href.
	// Two assets with the same file name in different remote paths collide.
	NamingByFileName NamingStrategy = "filename"

	// NamingByKey saves the asset under its key plus the href's extension.
	NamingByKey NamingStrategy = "key"
)

// ErrorPolicy is the batch-wide rule for what happens to an owner's asset
// entry when that asset's download fails.
type ErrorPolicy string

const (
	// ErrorPolicyFail collects all failures and raises them together once
	// the batch has settled.
	ErrorPolicyFail ErrorPolicy = "fail"

	// ErrorPolicyWarnAndKeep warns and leaves the asset pointing at its
	// original remote location.
	ErrorPolicyWarnAndKeep ErrorPolicy = "warn-keep"

	// ErrorPolicyWarnAndDelete warns and removes the asset from its owner.
	ErrorPolicyWarnAndDelete ErrorPolicy = "warn-delete"
)

// DefaultMaxConcurrent bounds simultaneous transfers when the config doesn't
// say otherwise.
const DefaultMaxConcurrent = 5

// Config is the immutable per-batch download configuration. Validate once
// before use; derive copies with Copy instead of mutating during a run.
type Config struct {
	// Include restricts the download to these asset keys. Mutually exclusive
	// with Exclude.
	Include []string `yaml:"include,omitempty"`

	// Exclude drops these asset keys from the download. Mutually exclusive
	// with Include.
	Exclude []string `yaml:"exclude,omitempty"`

	// Naming picks the local file name strategy.
	Naming NamingStrategy `yaml:"naming,omitempty" validate:"omitempty,oneof=filename key"`

	// Overwrite re-fetches assets whose destination already exists. When
	// false an existing destination is skipped without a network call.
	Overwrite bool `yaml:"overwrite"`

	// MakeDirectory creates missing destination directories. When false a
	// missing directory is a hard error.
	MakeDirectory bool `yaml:"make_directory"`

	// CleanOnError deletes partially written files after a failure.
	CleanOnError bool `yaml:"clean_on_error"`

	// MaxConcurrent bounds the number of simultaneous transfers.
	MaxConcurrent int `yaml:"max_concurrent,omitempty" validate:"min=1"`

	// ErrorPolicy decides what happens to an asset entry whose download
	// failed.
	ErrorPolicy ErrorPolicy `yaml:"error_policy,omitempty" validate:"omitempty,oneof=fail warn-keep warn-delete"`

	// FailFast cancels every in-flight download on the first failure.
	// Mutually exclusive with the warn policies.
	FailFast bool `yaml:"fail_fast"`

	// Alternates lists alternate names to prefer over an asset's declared
	// href, in preference order.
	Alternates []string `yaml:"alternates,omitempty"`

	// StrictLinks makes an unresolvable owner link an error instead of
	// dropping it.
	StrictLinks bool `yaml:"strict_links"`

	// OwnerFileName, when set, writes the rewritten owner document under
	// this name in the destination root after a successful batch.
	OwnerFileName string `yaml:"owner_file_name,omitempty"`

	// Backends carries the per-backend tuning.
	Backends backend.Options `yaml:"backends,omitempty"`
}

// DefaultConfig returns a config with sane defaults applied.
func DefaultConfig() Config {
	return Config{
		Naming:        NamingByFileName,
		MakeDirectory: true,
		CleanOnError:  true,
		MaxConcurrent: DefaultMaxConcurrent,
		ErrorPolicy:   ErrorPolicyFail,
		Backends:      backend.DefaultOptions(),
	}
}

var configValidator = validator.New()

// Validate checks the config. It is called before any I/O of a batch starts.
func (c Config) Validate() error {
	if len(c.Include) > 0 && len(c.Exclude) > 0 {
		return errors.Wrapf(errors.ErrIncludeAndExclude, "include=%v exclude=%v", c.Include, c.Exclude)
	}
	if c.FailFast && c.warns() {
		return errors.Wrapf(errors.ErrFailFastWithWarn, "error_policy=%s", c.ErrorPolicy)
	}
	if err := configValidator.Struct(c); err != nil {
		return errors.Wrap(errors.ErrConfigValidation, err.Error())
	}
	return nil
}

// warns reports whether failures are downgraded to warnings.
func (c Config) warns() bool {
	return c.ErrorPolicy == ErrorPolicyWarnAndKeep || c.ErrorPolicy == ErrorPolicyWarnAndDelete
}

// Copy returns a deep copy of the config so per-sub-batch derivations never
// share mutable state.
func (c Config) Copy() Config {
	out := c
	out.Include = slices.Clone(c.Include)
	out.Exclude = slices.Clone(c.Exclude)
	out.Alternates = slices.Clone(c.Alternates)
	out.Backends = c.Backends.Copy()
	return out
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.ErrEmptyConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "failed to read config %s", path)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrConfigParse, err.Error())
	}
	return cfg, nil
}
