package errors

import "fmt"

// Common error types.
var (
	// Config errors.
	ErrEmptyConfigPath   = fmt.Errorf("config file path cannot be empty")
	ErrConfigParse       = fmt.Errorf("failed to parse config")
	ErrConfigValidation  = fmt.Errorf("invalid configuration")
	ErrIncludeAndExclude = fmt.Errorf("include and exclude are mutually exclusive")
	ErrFailFastWithWarn  = fmt.Errorf("fail-fast cannot be combined with a warn error policy")

	// Manifest errors.
	ErrManifestParse   = fmt.Errorf("failed to parse manifest document")
	ErrManifestVersion = fmt.Errorf("unsupported manifest version")
	ErrNoBaseHref      = fmt.Errorf("owner has no base href to resolve relative hrefs against")
	ErrInvalidLink     = fmt.Errorf("cannot make link href absolute")

	// Download errors.
	ErrDownloadFailed   = fmt.Errorf("download failed")
	ErrInvalidPath      = fmt.Errorf("invalid path")
	ErrDirectoryMissing = fmt.Errorf("output directory does not exist")
	ErrInvalidAlternate = fmt.Errorf("invalid alternate definition (missing href)")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
