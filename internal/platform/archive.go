package platform

import (
	"fmt"
	"runtime"
	"strings"
)

// Archive tool constants
const (
	PowerShellCommand = "powershell"
	PowerShellFlag    = "-Command"
	UnzipCommand      = "unzip"
	UnzipOverwrite    = "-o"
	UnzipDestination  = "-d"
)

// ExtractCommand returns the platform archive tool invocation that unpacks the
// zip at archivePath into destDir, overwriting existing files.
func ExtractCommand(archivePath, destDir string) Command {
	return extractCommand(runtime.GOOS, archivePath, destDir)
}

func extractCommand(goos, archivePath, destDir string) Command {
	if goos == OSWindows {
		script := fmt.Sprintf("Expand-Archive -Path %s -DestinationPath %s -Force",
			psQuote(archivePath), psQuote(destDir))
		return Command{
			Path: PowerShellCommand,
			Args: []string{PowerShellFlag, script},
		}
	}
	return Command{
		Path: UnzipCommand,
		Args: []string{"-q", UnzipOverwrite, archivePath, UnzipDestination, destDir},
	}
}

// psQuote wraps s in a PowerShell single-quoted literal.
func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
