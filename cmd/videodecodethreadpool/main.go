package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/spf13/pflag"
	"github.com/xaionaro-go/rocvideodecode"
	"github.com/xaionaro-go/rocvideodecode/indicator"
	"github.com/xaionaro-go/rocvideodecode/internal/cmdflags"
	"github.com/xaionaro-go/rocvideodecode/internal/session"
	"github.com/xaionaro-go/rocvideodecode/threadpool"
	"github.com/xaionaro-go/xsync"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
)

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "syntax: %s -i <input> [options]\n", os.Args[0])
		pflag.PrintDefaults()
	}
	flags := cmdflags.Register()
	numJobs := pflag.UintP("jobs", "t", 2, "number of decode sessions")
	numThreads := pflag.Uint("threads", 0, "number of pool threads (defaults to --jobs)")
	pairOffset := pflag.Int("pair-offset", 0, "odd jobs run on --device plus this offset")
	progressInterval := pflag.Duration("progress-interval", time.Second, "how often to print the progress (0 disables)")
	pflag.Parse()
	if (flags.Input == "" && flags.Backend != rocvideodecode.BackendTypeSynthetic) || *numJobs == 0 {
		pflag.Usage()
		os.Exit(1)
	}
	if *numThreads == 0 {
		*numThreads = *numJobs
	}

	ctx, l := flags.Logger()
	defer belt.Flush(ctx)
	ctx, cancelFn := context.WithCancel(ctx)
	defer cancelFn()

	pool, err := threadpool.New(ctx, *numThreads)
	if err != nil {
		l.Fatal(err)
	}

	var (
		resultsLocker xsync.Mutex
		results       = make([]session.Result, *numJobs)
		errs          = make([]error, *numJobs)
		framesTotal   atomic.Uint64
	)
	for jobIdx := range *numJobs {
		deviceID := flags.DeviceID
		if jobIdx%2 == 1 {
			deviceID += *pairOffset
		}
		cfg := flags.SessionConfig(uint64(jobIdx), deviceID, true)
		if cfg.OutputFile != "" {
			cfg.OutputFile = fmt.Sprintf("%s.%d", cfg.OutputFile, jobIdx)
		}
		if cfg.FlushOutput != "" {
			cfg.FlushOutput = fmt.Sprintf("%s.%d", cfg.FlushOutput, jobIdx)
		}
		cfg.FramesCounter = &framesTotal
		err := pool.ExecuteJob(func() {
			jobCtx := belt.WithField(ctx, "job", jobIdx)
			result, err := session.Run(jobCtx, cfg)
			if err != nil {
				logger.Errorf(jobCtx, "job %d failed: %v", jobIdx, err)
			}
			resultsLocker.Do(ctx, func() {
				results[jobIdx], errs[jobIdx] = result, err
			})
		})
		if err != nil {
			l.Fatal(err)
		}
	}

	startTS := time.Now()
	done := make(chan struct{})
	var g errgroup.Group
	g.Go(func() error {
		defer close(done)
		return pool.JoinThreads(ctx)
	})
	g.Go(func() error {
		if *progressInterval <= 0 {
			return nil
		}
		t := time.NewTicker(*progressInterval)
		defer t.Stop()
		rate := indicator.NewRate(indicator.NewMAMA[float64](10, 0.3, 0.05))
		rate.Observe(0, startTS)
		for {
			select {
			case <-done:
				return nil
			case now := <-t.C:
				frames := framesTotal.Load()
				fmt.Printf("info: %s frames decoded in %s (%.1f FPS)\n",
					humanize.Comma(int64(frames)), now.Sub(startTS).Truncate(time.Millisecond), rate.Observe(frames, now))
			}
		}
	})
	if err := g.Wait(); err != nil {
		l.Fatal(err)
	}

	var (
		totalFrames uint64
		totalFPS    float64
		failed      int
	)
	for jobIdx, result := range results {
		if errs[jobIdx] != nil {
			failed++
			continue
		}
		fmt.Printf("info: job %d on device %d: %s frames, %.2f FPS (overhead %s)\n",
			jobIdx, result.DeviceInfo.DeviceID, humanize.Comma(int64(result.Frames)), result.FPS(), result.Overhead)
		totalFrames += result.Frames
		totalFPS += result.FPS()
	}
	fmt.Printf("info: Total frame decoded: %s\n", humanize.Comma(int64(totalFrames)))
	fmt.Printf("info: avg decoding time per frame: %.3f ms\n", avgFrameTime(totalFPS))
	fmt.Printf("info: avg FPS: %.2f\n", totalFPS)
	if failed > 0 {
		l.Errorf("%d of %d jobs failed", failed, *numJobs)
		belt.Flush(ctx)
		os.Exit(1)
	}
}

func avgFrameTime(fps float64) float64 {
	if fps <= 0 {
		return 0
	}
	return 1000 / fps
}
