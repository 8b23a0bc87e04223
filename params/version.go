// Copyright 2016 The go-ethereum Authors
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

package params

import (
	"encoding/json"
	"os"
	"time"

	"github.com/zircuit-labs/zkr-go-common/version"
)

// VersionFileEnv overrides the location of the build version file.
const VersionFileEnv = "HOSTBUDGET_VERSION_FILE"

const defaultVersionFile = "/etc/version.json"

var (
	Info            version.VersionInformation
	VersionWithMeta string
)

func init() {
	VersionWithMeta = LoadVersion(versionFile())
}

func versionFile() string {
	if path := os.Getenv(VersionFileEnv); path != "" {
		return path
	}
	return defaultVersionFile
}

// LoadVersion reads the build version file at path into Info and returns the
// version string with its variant suffix. A missing or malformed file yields
// "unknown-version".
func LoadVersion(path string) string {
	file, err := os.ReadFile(path)
	if err != nil {
		return "unknown-version"
	}
	var info version.VersionInformation
	if err := json.Unmarshal(file, &info); err != nil {
		return "unknown-version"
	}
	info.Date = time.Unix(info.GitDate, 0).UTC()
	Info = info

	v := info.Version
	if info.Variant != "" {
		v += "-" + info.Variant
	}
	return v
}
