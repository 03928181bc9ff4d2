package cmdutil

import (
	"fmt"
	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"os"
	"time"
)

var (
	loadingSpinner = spinner.New(spinner.CharSets[0], time.Millisecond*100, spinner.WithWriter(os.Stderr))
)

// PrintE reports an error on stderr so stdout stays clean for automation.
func PrintE(message string) {
	_, _ = color.New(color.FgRed).Fprintln(os.Stderr, message)
}

func Print(message string) {
	_, _ = fmt.Fprintln(os.Stdout, message)
}

func PrintS(message string) {
	color.Green(message)
}

func PrintW(message string) {
	color.Yellow(message)
}

func StartLoading(message string) {
	loadingSpinner.Prefix = message
	loadingSpinner.Start()
}

func StopLoading() {
	loadingSpinner.Stop()
}
