package main

import (
	"errors"
	"os"

	"github.com/muurk/upnpc/internal/discovery"
	"github.com/muurk/upnpc/internal/format"
	"github.com/muurk/upnpc/internal/ui"
)

// Exit statuses
const (
	exitFailure        = 1
	exitTemplateFailed = 2
)

// templateError carries the template text a format error refers to, so the
// report can point at the offending character.
type templateError struct {
	Template string
	Err      *format.Error
}

func (e *templateError) Error() string {
	return e.Err.Error()
}

func (e *templateError) Unwrap() error {
	return e.Err
}

// newTemplateError wraps err when it is a format error; other errors are
// returned unchanged
func newTemplateError(text string, err error) error {
	var ferr *format.Error
	if errors.As(err, &ferr) {
		return &templateError{Template: text, Err: ferr}
	}
	return err
}

// reportError prints err to stderr and returns the exit status
func reportError(err error) int {
	return report(ui.NewPrinter(os.Stderr), err)
}

func report(printer *ui.Printer, err error) int {
	var terr *templateError
	if errors.As(err, &terr) {
		printer.PrintFormatError(terr.Template, terr.Err)
		return exitTemplateFailed
	}

	title, tips := describeError(err)
	printer.PrintError(title, err, tips)
	return exitFailure
}

// describeError picks a title and troubleshooting tips for err
func describeError(err error) (string, []string) {
	switch {
	case discovery.IsNetworkError(err):
		return "Discovery failed", []string{
			"Check that this host is connected to a network with multicast enabled",
			"Allow UDP port 1900 and incoming UDP responses through the firewall",
			"Run with --log-level debug to see the interfaces used",
		}
	case discovery.IsDescriptionError(err):
		return "Device description unavailable", []string{
			"The device answered the search but its description could not be fetched",
			"Use --keep-going to skip such devices",
		}
	case errors.Is(err, discovery.ErrInvalidDuration):
		return "Invalid duration", nil
	default:
		return "upnpc failed", nil
	}
}
