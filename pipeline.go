package hdpack

import (
	"context"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/bodgit/hdpack/pack"
)

func containsPack(dir string) (bool, error) {
	info, err := os.Stat(filepath.Join(dir, pack.Filename))
	switch {
	case os.IsNotExist(err):
		return false, nil
	case err != nil:
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

func findPacks(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(dir string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' && dir != base {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore anything that isn't a directory
			if !info.Mode().IsDir() {
				return nil
			}

			ok, err := containsPack(dir)
			if err != nil || !ok {
				return err
			}

			select {
			case out <- dir:
			case <-ctx.Done():
				return ctx.Err()
			}

			return nil
		})
	}()
	return out, errc, nil
}

func packWorker(ctx context.Context, in <-chan string, logger *log.Logger) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for dir := range in {
			c, err := pack.Load(ctx, dir, logger)
			if err != nil {
				logger.Printf("\"%s\": %v\n", dir, err)
				errc <- err
				return
			}
			s := c.Stats()
			logger.Printf("\"%s\": %d tiles, %d keys, %d conditions, %d backgrounds\n", dir, s.Tiles, s.Keys, s.Conditions, s.Backgrounds)
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Validate loads every pack found under path using workers goroutines and
// returns the first error.
func Validate(ctx context.Context, path string, workers int, logger *log.Logger) error {
	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}
	if workers < 1 {
		workers = 1
	}

	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	var errcList []<-chan error

	dirs, errc, err := findPacks(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < workers; i++ {
		errc, err := packWorker(ctx, dirs, logger)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}
