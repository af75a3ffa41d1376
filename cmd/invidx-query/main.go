// Command invidx-query is a small interactive search REPL: load the
// engine once, read query lines from stdin, print ranked results. This
// supplements the distilled search contract with the driver loop
// original_source/App.py shows (see SPEC_FULL.md §12), in the teacher's
// cmd/zoekt-test quick-harness idiom.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/webcorpus/invidx/internal/search"
	"github.com/webcorpus/invidx/log"
)

func main() {
	indexDir := flag.String("index_dir", "./index", "directory holding shard files")
	urlMapPath := flag.String("url_map", "", "path to the docid->url map (default <index_dir>/urls.idx)")
	limit := flag.Int("limit", search.DefaultLimit, "maximum number of results to print")
	flag.Parse()

	if *urlMapPath == "" {
		*urlMapPath = filepath.Join(*indexDir, "urls.idx")
	}

	engine := search.New(*indexDir, *urlMapPath, log.Get())
	if !engine.Ready() {
		fmt.Fprintln(os.Stderr, "index not created")
		os.Exit(1)
	}

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("invidx query (blank line to exit)")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			break
		}

		results, err := engine.Search(query, *limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "search error: %v\n", err)
			continue
		}
		if len(results) == 0 {
			fmt.Println("No results found.")
			continue
		}
		for i, r := range results {
			fmt.Printf("%d. %s - score: %.3f\n", i+1, r.URL, r.Score)
		}
	}
}
