/**
 * Copyright (c) 2025 CrystalQueue Developers
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package util

type CmdError = int

// general
const (
	ErrorSuccess   CmdError = 0
	ErrorCmdArg    CmdError = 1
	ErrorScheduler CmdError = 3
	ErrorStatus    CmdError = 4
)

// locate-scratch
// A calling shell branches on these, so the values are part of the
// command's contract.
const (
	ErrorOutputNotFound  CmdError = 1
	ErrorOutputAmbiguous CmdError = 2
)

// watch
const (
	ErrorJobFailed CmdError = 3
)
