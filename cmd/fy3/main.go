/*
Copyright © 2024 the FY3-Reader authors.
This file is part of FY3-Reader.

FY3-Reader is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

FY3-Reader is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with FY3-Reader.  If not, see <http://www.gnu.org/licenses/>.
*/


// Command fy3 is a command-line interface for reading FengYun-3
// passive-microwave granules.
package main

import (
	"fmt"
	"os"

	"github.com/BigShuiTai/FY3-Reader/fy3util"
)

func main() {
	if err := fy3util.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
