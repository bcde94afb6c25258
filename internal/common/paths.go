// Copyright 2025 Ramfs Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	gopath "path"
	"strings"
)

// AbsPath converts an external path, which may be relative or unclean, into
// the absolute slash-rooted form the filesystem core requires. The empty
// path maps to the root.
func AbsPath(p string) string {
	return gopath.Clean("/" + p)
}

// Join joins path elements into a clean absolute path.
func Join(elem ...string) string {
	return AbsPath(gopath.Join(elem...))
}

// Components splits a path into its non-empty components.
func Components(p string) []string {
	p = strings.Trim(AbsPath(p), "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
