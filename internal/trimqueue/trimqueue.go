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

package trimqueue

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"CrystalQueue/internal/slurm"
	"CrystalQueue/internal/util"
)

func Trim(threshold uint32, userName string) util.CmdError {
	client := slurm.NewClient(config.Scheduler)
	return trimWithClient(context.Background(), client, threshold, userName)
}

type canceller interface {
	Queue(ctx context.Context, user string) ([]slurm.QueueEntry, error)
	Cancel(ctx context.Context, jobId uint32) error
}

// trimWithClient cancels every listed job above threshold. Cancellations
// are independent: one failure never aborts the rest, failures are
// collected and reported at the end.
func trimWithClient(ctx context.Context, client canceller, threshold uint32, userName string) util.CmdError {
	entries, err := client.Queue(ctx, userName)
	if err != nil {
		log.Errorf("Failed to list jobs of %s: %v", userName, err)
		return util.ErrorScheduler
	}

	var cancelled, failed []uint32
	for _, entry := range entries {
		if entry.JobId <= threshold {
			continue
		}
		if err := client.Cancel(ctx, entry.JobId); err != nil {
			log.Errorf("Failed to cancel job %d: %v", entry.JobId, err)
			failed = append(failed, entry.JobId)
			continue
		}
		cancelled = append(cancelled, entry.JobId)
	}

	if len(cancelled) > 0 {
		fmt.Printf("Jobs %v cancelled successfully.\n", cancelled)
	} else {
		fmt.Printf("No jobs above id %d.\n", threshold)
	}
	if len(failed) > 0 {
		log.Warnf("%d cancellations failed: %v", len(failed), failed)
	}
	return util.ErrorSuccess
}
