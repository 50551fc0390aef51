package main

import (
	"fmt"

	"github.com/retroenv/retrogolib/buildinfo"
)

// Various version related constants.
const (
	AppVendor = "hexaflex"
	AppName   = "c8"
)

// Version returns program version information.
func Version() string {
	return fmt.Sprintf("%s %s %s", AppVendor, AppName, buildinfo.Version(version, commit, date))
}
