package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/opd-ai/airgapsync"
	"github.com/opd-ai/airgapsync/chunk"
	"github.com/opd-ai/airgapsync/codec"
	"github.com/opd-ai/airgapsync/crypto"
	"github.com/opd-ai/airgapsync/file"
	"github.com/opd-ai/airgapsync/limits"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v2"
)

// Transports and input methods.
const (
	TransportQR  = "qr"
	TransportUSB = "usb"

	InputPaste = "paste"
	InputImage = "image"
)

var (
	// ErrTransportUnsupported is returned for transports that are recognised
	// but not implemented.
	ErrTransportUnsupported = errors.New("transport not supported")
	// ErrInvalidConfig indicates a setting with an unknown or out-of-range value.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config holds the settings of one invocation. Values come from built-in
// defaults, then the YAML file named by --config, then flags set explicitly
// on the command line or through their environment variables.
type Config struct {
	LogLevel    string `yaml:"log_level"`
	PasswordEnv string `yaml:"password_env"`

	Via       string `yaml:"via"`
	ChunkSize int    `yaml:"chunk_size"`
	ECLevel   string `yaml:"ec_level"`
	Codec     string `yaml:"codec"`
	Cipher    string `yaml:"cipher"`
	PNGDir    string `yaml:"png_dir"`
	NoQR      bool   `yaml:"no_qr"`

	Input       string `yaml:"input"`
	Output      string `yaml:"output"`
	ConfirmEach bool   `yaml:"confirm_each"`
}

// DefaultConfig returns the settings used when neither a file nor a flag
// says otherwise.
func DefaultConfig() Config {
	return Config{
		LogLevel:  LogLevelFlag.Value,
		Via:       TransportQR,
		ChunkSize: limits.DefaultChunkSize,
		ECLevel:   chunk.DefaultLevel.String(),
		Codec:     codec.GzipName,
		Cipher:    crypto.SuiteAESGCM.String(),
		Input:     InputPaste,
		Output:    file.DefaultOutputName,
	}
}

// LoadFile reads a YAML config file over the defaults. Unknown keys are
// rejected so a misspelt setting does not silently fall back.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: parse %s: %w", ErrInvalidConfig, path, err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "LoadFile",
		"path":     path,
	}).Debug("Loaded config file")

	return cfg, nil
}

// NewConfigFromCLI builds the Config for the running command.
func NewConfigFromCLI(c *cli.Context) (*Config, error) {
	cfg := DefaultConfig()
	if path := c.String(ConfigFileFlag.Name); path != "" {
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	overrideString(c, LogLevelFlag.Name, &cfg.LogLevel)
	overrideString(c, PasswordEnvFlag.Name, &cfg.PasswordEnv)
	overrideString(c, ViaFlag.Name, &cfg.Via)
	overrideString(c, ECLevelFlag.Name, &cfg.ECLevel)
	overrideString(c, CodecFlag.Name, &cfg.Codec)
	overrideString(c, CipherFlag.Name, &cfg.Cipher)
	overrideString(c, PNGDirFlag.Name, &cfg.PNGDir)
	overrideString(c, InputFlag.Name, &cfg.Input)
	overrideString(c, OutputFlag.Name, &cfg.Output)
	if c.IsSet(ChunkSizeFlag.Name) {
		cfg.ChunkSize = c.Int(ChunkSizeFlag.Name)
	}
	if c.IsSet(NoQRFlag.Name) {
		cfg.NoQR = c.Bool(NoQRFlag.Name)
	}
	if c.IsSet(ConfirmEachFlag.Name) {
		cfg.ConfirmEach = c.Bool(ConfirmEachFlag.Name)
	}

	return &cfg, nil
}

func overrideString(c *cli.Context, name string, dst *string) {
	if c.IsSet(name) {
		*dst = c.String(name)
	}
}

// CheckTransport accepts "qr" and rejects everything else. "usb" is a
// recognised name with no implementation.
func (c *Config) CheckTransport() error {
	switch strings.ToLower(c.Via) {
	case TransportQR:
		return nil
	case TransportUSB:
		return fmt.Errorf("%w: %s", ErrTransportUnsupported, c.Via)
	default:
		return fmt.Errorf("%w: unknown transport %q", ErrInvalidConfig, c.Via)
	}
}

// CheckInput validates the receive input method.
func (c *Config) CheckInput() error {
	switch c.Input {
	case InputPaste, InputImage:
		return nil
	default:
		return fmt.Errorf("%w: unknown input %q", ErrInvalidConfig, c.Input)
	}
}

// Options resolves the codec, cipher and chunking settings.
func (c *Config) Options() (airgapsync.Options, error) {
	opts := airgapsync.DefaultOptions()

	cd, err := codec.ByName(c.Codec)
	if err != nil {
		return opts, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	suite, err := crypto.ParseSuite(c.Cipher)
	if err != nil {
		return opts, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	level, err := chunk.ParseLevel(c.ECLevel)
	if err != nil {
		return opts, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := limits.ValidateChunkSize(c.ChunkSize); err != nil {
		return opts, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	opts.Codec = cd
	opts.Suite = suite
	opts.Level = level
	opts.ChunkSize = c.ChunkSize
	return opts, nil
}

// SetupLogging points logrus at w with the configured level. Logs stay off
// stdout, which carries prompts and chunks.
func (c *Config) SetupLogging(w io.Writer) error {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	logrus.SetOutput(w)
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return nil
}
