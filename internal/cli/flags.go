package cli

import (
	"github.com/opd-ai/airgapsync/chunk"
	"github.com/opd-ai/airgapsync/codec"
	"github.com/opd-ai/airgapsync/crypto"
	"github.com/opd-ai/airgapsync/file"
	"github.com/opd-ai/airgapsync/limits"
	"github.com/urfave/cli/v2"
)

var (
	ConfigFileFlag = &cli.StringFlag{
		Name:    "config",
		Usage:   "YAML file with default settings; flags given on the command line take precedence",
		EnvVars: []string{"AIRGAPSYNC_CONFIG"},
	}

	LogLevelFlag = &cli.StringFlag{
		Name:    "log-level",
		Value:   "warn",
		Usage:   "Log level (trace, debug, info, warn, error)",
		EnvVars: []string{"AIRGAPSYNC_LOG_LEVEL"},
	}

	PasswordEnvFlag = &cli.StringFlag{
		Name:  "password-env",
		Usage: "Read the password from this environment variable instead of prompting",
	}

	ViaFlag = &cli.StringFlag{
		Name:    "via",
		Value:   TransportQR,
		Usage:   "Transport (qr, usb)",
		EnvVars: []string{"AIRGAPSYNC_VIA"},
	}

	ChunkSizeFlag = &cli.IntFlag{
		Name:    "chunk-size",
		Value:   limits.DefaultChunkSize,
		Usage:   "Raw frame bytes per chunk",
		EnvVars: []string{"AIRGAPSYNC_CHUNK_SIZE"},
	}

	ECLevelFlag = &cli.StringFlag{
		Name:    "ec-level",
		Value:   chunk.DefaultLevel.String(),
		Usage:   "QR error-correction level (L, M, Q, H)",
		EnvVars: []string{"AIRGAPSYNC_EC_LEVEL"},
	}

	CodecFlag = &cli.StringFlag{
		Name:    "codec",
		Value:   codec.GzipName,
		Usage:   "Compression codec (gzip, zstd, xz); both sides must match",
		EnvVars: []string{"AIRGAPSYNC_CODEC"},
	}

	CipherFlag = &cli.StringFlag{
		Name:    "cipher",
		Value:   crypto.SuiteAESGCM.String(),
		Usage:   "Cipher suite (aes-256-gcm, chacha20-poly1305); both sides must match",
		EnvVars: []string{"AIRGAPSYNC_CIPHER"},
	}

	PNGDirFlag = &cli.StringFlag{
		Name:  "png-dir",
		Usage: "Also write each QR code as chunk-NNNN.png into this directory",
	}

	NoQRFlag = &cli.BoolFlag{
		Name:  "no-qr",
		Usage: "Print only the pasteable base64 text",
	}

	InputFlag = &cli.StringFlag{
		Name:    "input",
		Value:   InputPaste,
		Usage:   "How chunks are entered (paste, image)",
		EnvVars: []string{"AIRGAPSYNC_INPUT"},
	}

	OutputFlag = &cli.StringFlag{
		Name:  "output",
		Value: file.DefaultOutputName,
		Usage: "File to write the received payload to",
	}

	ConfirmEachFlag = &cli.BoolFlag{
		Name:  "confirm-each",
		Usage: "Ask before collecting every further chunk",
	}
)

// GlobalFlags apply to every command.
var GlobalFlags = []cli.Flag{
	ConfigFileFlag,
	LogLevelFlag,
	PasswordEnvFlag,
}

// SendFlags are the flags of the send command.
var SendFlags = []cli.Flag{
	ViaFlag,
	ChunkSizeFlag,
	ECLevelFlag,
	CodecFlag,
	CipherFlag,
	PNGDirFlag,
	NoQRFlag,
}

// ReceiveFlags are the flags of the receive command.
var ReceiveFlags = []cli.Flag{
	ViaFlag,
	InputFlag,
	OutputFlag,
	CodecFlag,
	CipherFlag,
	ConfirmEachFlag,
}
