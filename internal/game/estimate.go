package game

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/playpalace/playpalace/internal/locale"
)

const (
	// numEstimateSimulations is how many worker simulations back one
	// estimate.
	numEstimateSimulations = 10

	// estimateWorkerTimeout bounds each worker's simulation.
	estimateWorkerTimeout = 10 * time.Minute

	// defaultHumanSpeedMultiplier scales a bot game's length to a human
	// one. Games may override through the HumanSpeedMultiplier hook.
	defaultHumanSpeedMultiplier = 2
)

// estimator collects worker results off the table's goroutine. The
// mutex guards the result and error lists; the tick loop only ever
// polls the done flag.
type estimator struct {
	mu      sync.Mutex
	running bool
	done    bool
	results []int
	errs    []string
}

// actionEstimateDuration spawns the simulation workers. Each runs this
// binary's own simulate subcommand out of process and reports the tick
// count of a full bot game.
func (b *Base) actionEstimateDuration(p *Player, _ *Context) {
	b.estimate.mu.Lock()
	running := b.estimate.running
	b.estimate.mu.Unlock()
	if running {
		b.SpeakTo(p, "estimate-already-running", nil)
		return
	}

	exe, err := os.Executable()
	if err != nil {
		b.log.WithError(err).Error("duration estimate: cannot locate binary")
		b.BroadcastL("estimate-error", nil)
		return
	}

	bots := b.ActivePlayerCount()
	if min := b.self.Meta().MinPlayers; bots < min {
		bots = min
	}
	args := []string{"simulate", b.self.Meta().Type, "--bots", strconv.Itoa(bots), "--json", "--quiet"}
	for _, spec := range b.self.OptionSpecs() {
		args = append(args, "-o", spec.Key+"="+spec.Get())
	}

	b.estimate.mu.Lock()
	b.estimate.running = true
	b.estimate.done = false
	b.estimate.results = nil
	b.estimate.errs = nil
	b.estimate.mu.Unlock()

	group := errgroup.Group{}
	for i := 0; i < numEstimateSimulations; i++ {
		group.Go(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), estimateWorkerTimeout)
			defer cancel()

			output, err := exec.CommandContext(ctx, exe, args...).Output()
			if err != nil {
				b.estimate.mu.Lock()
				b.estimate.errs = append(b.estimate.errs, truncate(err.Error(), 200))
				b.estimate.mu.Unlock()
				return nil
			}
			var result struct {
				Ticks    int  `json:"ticks"`
				TimedOut bool `json:"timed_out"`
			}
			if err := json.Unmarshal(output, &result); err != nil {
				b.estimate.mu.Lock()
				b.estimate.errs = append(b.estimate.errs, truncate(err.Error(), 200))
				b.estimate.mu.Unlock()
				return nil
			}
			if !result.TimedOut {
				b.estimate.mu.Lock()
				b.estimate.results = append(b.estimate.results, result.Ticks)
				b.estimate.mu.Unlock()
			}
			return nil
		})
	}
	go func() {
		_ = group.Wait()
		b.estimate.mu.Lock()
		b.estimate.done = true
		b.estimate.mu.Unlock()
	}()

	b.BroadcastL("estimate-computing", nil)
}

// checkEstimateCompletion polls worker completion from the tick loop and
// broadcasts the statistics once everything has reported.
func (b *Base) checkEstimateCompletion() {
	b.estimate.mu.Lock()
	if !b.estimate.running || !b.estimate.done {
		b.estimate.mu.Unlock()
		return
	}
	results := b.estimate.results
	errs := b.estimate.errs
	b.estimate.running = false
	b.estimate.done = false
	b.estimate.results = nil
	b.estimate.errs = nil
	b.estimate.mu.Unlock()

	if len(results) == 0 {
		if len(errs) > 0 {
			b.Broadcast("Estimation failed: " + truncate(errs[0], 200))
		} else {
			b.BroadcastL("estimate-error", nil)
		}
		return
	}

	outliers := detectOutliers(results)
	kept := results
	if len(outliers) > 0 {
		kept = nil
		isOutlier := map[int]int{}
		for _, v := range outliers {
			isOutlier[v]++
		}
		for _, v := range results {
			if isOutlier[v] > 0 {
				isOutlier[v]--
				continue
			}
			kept = append(kept, v)
		}
	}

	mean, stdDev := meanStdDev(kept)

	multiplier := defaultHumanSpeedMultiplier
	if hook, ok := b.self.(interface{ HumanSpeedMultiplier() int }); ok {
		multiplier = hook.HumanSpeedMultiplier()
	}

	outlierInfo := ""
	switch len(outliers) {
	case 0:
	case 1:
		outlierInfo = locale.Get("en", "estimate-outliers-one", nil)
	default:
		outlierInfo = locale.Get("en", "estimate-outliers-many", locale.Args{"count": len(outliers)})
	}

	b.BroadcastL("estimate-result", locale.Args{
		"bot_time":     FormatDuration(mean),
		"std_dev":      FormatDuration(stdDev),
		"outlier_info": outlierInfo,
		"human_time":   FormatDuration(mean * float64(multiplier)),
	})
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

func meanStdDev(values []int) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	mean := float64(sum) / float64(len(values))
	if len(values) < 2 {
		return mean, 0
	}
	variance := 0.0
	for _, v := range values {
		diff := float64(v) - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

// detectOutliers applies the IQR rule: values below Q1-1.5*IQR or above
// Q3+1.5*IQR. Fewer than four samples never produce outliers.
func detectOutliers(values []int) []int {
	if len(values) < 4 {
		return nil
	}
	sorted := append([]int(nil), values...)
	sort.Ints(sorted)
	n := len(sorted)
	q1 := float64(sorted[n/4])
	q3 := float64(sorted[(3*n)/4])
	iqr := q3 - q1

	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr

	var outliers []int
	for _, v := range values {
		if float64(v) < lower || float64(v) > upper {
			outliers = append(outliers, v)
		}
	}
	return outliers
}

// FormatDuration renders a tick count as "1:23:45", "5:30", or
// "45 seconds".
func FormatDuration(ticks float64) string {
	totalSeconds := int(ticks / TicksPerSecond)
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	switch {
	case hours > 0:
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%d:%02d", minutes, seconds)
	default:
		return fmt.Sprintf("%d seconds", seconds)
	}
}
