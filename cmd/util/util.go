package util

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pkv-db/pKV/lib/keystore"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("pkv")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// Setup is the shared PersistentPreRunE of all command groups: it binds the
// command's flags to viper and configures the default logger.
func Setup(cmd *cobra.Command, _ []string) error {
	if err := BindCommandFlags(cmd); err != nil {
		return err
	}
	// flags inherited from the root command (--file, --log-level)
	if err := viper.BindPFlags(cmd.InheritedFlags()); err != nil {
		return err
	}
	setupLogging()
	return nil
}

// setupLogging installs a tinted slog handler honoring the configured level
func setupLogging() {
	var level slog.Level
	switch strings.ToLower(viper.GetString("log-level")) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})))
}

// StorePath returns the configured path of the keystore file
func StorePath() string {
	return viper.GetString("file")
}

// OpenStore opens the configured keystore file
func OpenStore() (*keystore.Client, error) {
	return keystore.Open(StorePath(), nil)
}

// --------------------------------------------------------------------------
// Field Parsing
// --------------------------------------------------------------------------

// ParseFieldValue parses a "type:value" literal (e.g. "u32:30",
// "string:alice", "date:2026-01-02T15:04:05Z") into a Field.
func ParseFieldValue(s string) (keystore.Field, error) {
	typeName, raw, found := strings.Cut(s, ":")
	if !found {
		return keystore.Field{}, fmt.Errorf("invalid field literal %q, expected type:value", s)
	}

	fieldType, err := keystore.ParseFieldType(typeName)
	if err != nil {
		return keystore.Field{}, err
	}

	switch fieldType {
	case keystore.FieldTypeString:
		return keystore.String(raw), nil
	case keystore.FieldTypeI32:
		v, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return keystore.Field{}, fmt.Errorf("invalid i32 value %q: %w", raw, err)
		}
		return keystore.I32(int32(v)), nil
	case keystore.FieldTypeI64:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return keystore.Field{}, fmt.Errorf("invalid i64 value %q: %w", raw, err)
		}
		return keystore.I64(v), nil
	case keystore.FieldTypeU32:
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return keystore.Field{}, fmt.Errorf("invalid u32 value %q: %w", raw, err)
		}
		return keystore.U32(uint32(v)), nil
	case keystore.FieldTypeU64:
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return keystore.Field{}, fmt.Errorf("invalid u64 value %q: %w", raw, err)
		}
		return keystore.U64(v), nil
	case keystore.FieldTypeDate:
		v, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return keystore.Field{}, fmt.Errorf("invalid date value %q, expected RFC3339: %w", raw, err)
		}
		return keystore.Date(v), nil
	default:
		return keystore.Field{}, fmt.Errorf("unsupported field type %q", typeName)
	}
}

// ParseNamedFields parses "name=type:value" literals into a field map.
func ParseNamedFields(args []string) (map[string]keystore.Field, error) {
	fields := make(map[string]keystore.Field, len(args))
	for _, arg := range args {
		name, literal, found := strings.Cut(arg, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("invalid field %q, expected name=type:value", arg)
		}
		f, err := ParseFieldValue(literal)
		if err != nil {
			return nil, err
		}
		fields[name] = f
	}
	return fields, nil
}

// FormatEntry renders an entry for terminal output
func FormatEntry(e *keystore.Entry) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s (%s)", e.PrimaryField.String(), e.PrimaryField.Type))
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	// stable output for scripting
	sort.Strings(names)
	for _, name := range names {
		f := e.Fields[name]
		sb.WriteString(fmt.Sprintf("\n  %s=%s (%s)", name, f.String(), f.Type))
	}
	if !e.LastTimestamp.IsZero() {
		sb.WriteString(fmt.Sprintf("\n  last-touched=%s", e.LastTimestamp.UTC().Format(time.RFC3339Nano)))
	}
	return sb.String()
}
