// Copyright 2022 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package version implements reading of build version information.
package version

import (
	"fmt"
	"runtime"

	"github.com/zircuit-labs/contract-host/params"
)

// ClientName creates a software name/version identifier such as
// "hostbudget/v1.2.0/amd64".
func ClientName(clientIdentifier string) string {
	return fmt.Sprintf("%s/%v/%v",
		clientIdentifier,
		params.VersionWithMeta,
		runtime.GOARCH,
	)
}

// Info returns the version string and the git date of the running binary.
// The date is empty when no version file was found.
func Info() (version, date string) {
	version = params.VersionWithMeta
	if !params.Info.Date.IsZero() {
		date = params.Info.Date.Format("2006-01-02")
	}
	return fmt.Sprintf("contract-host %s", version), date
}
