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

package vfs

import "syscall"

// Filesystem error codes mapped to syscall errors. All failures of a
// FileSystem operation are ordinary values from this set; broken internal
// invariants panic instead of returning an error.
var (
	EINVAL       = syscall.EINVAL       // Invalid argument (bad handle, bad path, bad seek, unsupported op)
	ENOENT       = syscall.ENOENT       // No such file or directory
	EEXIST       = syscall.EEXIST       // File exists
	ENOTDIR      = syscall.ENOTDIR      // Not a directory
	EISDIR       = syscall.EISDIR       // Is a directory
	ENOTEMPTY    = syscall.ENOTEMPTY    // Directory not empty
	ENAMETOOLONG = syscall.ENAMETOOLONG // File name too long
	ENOMEM       = syscall.ENOMEM       // Buffer growth failure
)
