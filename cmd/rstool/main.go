// rstool is a CLI utility for converting Rainbow Six and Rogue Spear game assets.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/sherman/internal/config"
	"github.com/Faultbox/sherman/internal/logger"
)

// Exit codes.
const (
	exitOK    = 0
	exitUsage = 1
	exitParse = 2
	exitIO    = 3
)

// usageError marks a bad invocation.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitUsage)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitIO)
	}

	code := run(cfg, config.Args(), os.Stdout)
	logger.Sync()
	os.Exit(code)
}

// run executes one command and maps its error to an exit code.
func run(cfg *config.Config, args []string, out io.Writer) int {
	err := dispatch(cfg, args, out)
	code := exitCode(err)
	switch code {
	case exitOK:
	case exitUsage:
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		printUsage(os.Stderr)
	default:
		logger.Error("command failed", zap.Error(err))
	}
	return code
}

func dispatch(cfg *config.Config, args []string, out io.Writer) error {
	if len(args) < 1 {
		return usagef("missing command")
	}

	command := args[0]
	args = args[1:]

	switch command {
	case "convert-map":
		return cmdConvertMap(cfg, args, out)
	case "convert-sob":
		return cmdConvertSOB(cfg, args, out)
	case "convert-rsb":
		return cmdConvertRSB(cfg, args, out)
	case "convert-dmp":
		return cmdConvertDMP(cfg, args, out)
	case "convert-cxp":
		return cmdConvertCXP(cfg, args, out)
	case "convert-mis", "convert-mps":
		return cmdConvertMission(cfg, args, out)
	case "build-png-cache":
		return cmdBuildPNGCache(cfg, args, out)
	case "info":
		return cmdInfo(args, out)
	case "help", "-h", "--help":
		printUsage(out)
		return nil
	default:
		return usagef("unknown command: %s", command)
	}
}

// exitCode classifies an error: usage 1, I/O 3, everything else a parse failure.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ue *usageError
	if errors.As(err, &ue) {
		return exitUsage
	}
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return exitIO
	}
	return exitParse
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `rstool - Sherman/Rommel engine asset converter

Usage:
  rstool [global flags] <command> [options]

Commands:
  convert-map [-obj] <in.map>    Write <in.map>.JSON (and <in.map>.obj)
  convert-sob <in.sob>           Write <in.sob>.JSON and <in.sob>.obj
  convert-rsb <in.rsb>           Write <in>.PNG, plus <in>-256.PNG for palette images
  convert-dmp <in.dmp>           Write <in.dmp>.JSON
  convert-cxp <in.cxp>           Write <in.cxp>.JSON
  convert-mis <in.mis>           Write <in.mis>.JSON
  build-png-cache [-mipmaps] [game-path]
                                 Write <texture>.CACHE.PNG for every texture of a game
  info <file|game-path>          Print a one-line summary

Global flags:
  -config <file>   Config file (default ./rstool.yaml)
  -debug           Enable debug logging
  -game <path>     Game installation root
  -mod <name>      Active mod for texture resolution
  -workers <n>     Parallel workers for build-png-cache
  -overwrite       Regenerate existing cache files
  -log-file <file> Also write logs to this file

Examples:
  rstool convert-map data/map/m01/M01.MAP
  rstool convert-rsb data/texture/08_engine.RSB
  rstool -workers 8 build-png-cache "C:/Games/Rogue Spear"
  rstool info data/model/ak47.sob`)
}
