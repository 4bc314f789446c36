package main

import (
	"bufio"
	"context"
	"flag"
	"iter"
	"log/slog"
	"os"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/newswire"
	"github.com/poiesic/newswire/core"
)

// Sample headlines spread across the category keyword space, plus a few
// that should land in General.
var samples = [][2]string{
	{"AI assistant ships", "The new AI software update brings digital code completion to every computer."},
	{"Chip startup funded", "A tech startup raised money to build app processors for digital cameras."},
	{"Markets rally", "The stock market climbed as bank earnings beat economy forecasts."},
	{"Rate cut expected", "Investors expect the central bank to cut rates, boosting invest appetite."},
	{"Hospital expansion", "The regional hospital added a medical wing and hired doctor staff."},
	{"Vaccine trial", "A new medicine passed its disease trial, health officials said."},
	{"Election results", "The government certified election results as congress prepared to vote."},
	{"Senate session", "The senate debated while the president addressed congress."},
	{"Festival lineup", "The music festival announced a film screening and a celebrity concert."},
	{"Box office", "The movie topped charts while its show soundtrack won awards."},
	{"Village fair", "The annual fair returned with pie contests and a tractor parade."},
	{"Lighthouse restored", "Volunteers repainted the old lighthouse over the weekend."},
}

var (
	dbPath      = flag.String("db", "./newswire_db", "path to BadgerDB database directory")
	srcFileName = flag.String("src", "", "file of seed content, one item per line")
	concurrency = flag.Int("concurrency", 4, "number of concurrent enqueuers")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// itemsFromFile yields one raw item per line, with the line doubling as
// title and content.
func itemsFromFile(filename string) (iter.Seq[*core.RawItem], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(*core.RawItem) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				continue
			}
			item := &core.RawItem{
				Title:       line,
				Source:      "seeder",
				Content:     line,
				ContentHash: core.HashContent(line),
			}
			if !yield(item) {
				return
			}
		}
	}, nil
}

// itemsFromSamples yields the built-in sample set.
func itemsFromSamples() iter.Seq[*core.RawItem] {
	return func(yield func(*core.RawItem) bool) {
		for _, sample := range samples {
			item := &core.RawItem{
				Title:       sample[0],
				Source:      "seeder",
				Content:     sample[1],
				ContentHash: core.HashContent(sample[1]),
			}
			if !yield(item) {
				return
			}
		}
	}
}

func main() {
	svc, err := newswire.Open(*dbPath)
	if err != nil {
		panic(err)
	}
	defer svc.Close()

	ctx := context.Background()

	var source iter.Seq[*core.RawItem]
	if *srcFileName != "" {
		source, err = itemsFromFile(*srcFileName)
		if err != nil {
			panic(err)
		}
	} else {
		source = itemsFromSamples()
	}

	pool, err := ants.NewPool(*concurrency)
	if err != nil {
		panic(err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	enqueued := 0
	for item := range source {
		item := item
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if err := svc.Enqueue(ctx, item); err != nil {
				slog.Error("failed to enqueue item", "title", item.Title, "err", err)
			}
		})
		if err != nil {
			wg.Done()
			slog.Error("failed to submit item", "title", item.Title, "err", err)
			continue
		}
		enqueued++
	}
	wg.Wait()

	slog.Info("seeding complete", "submitted", enqueued)
}
