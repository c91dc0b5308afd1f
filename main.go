// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/viewpack/viewpack/cmd/viewpack"

func main() {
	cmd.Execute()
}
