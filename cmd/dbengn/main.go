// Command dbengn is a small REPL and benchmark driver over
// internal/engine, standing in for the SQL shell of the teacher this
// module is adapted from (spec.md §1 "user-facing benchmark path").
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/PunVas/db-engn/internal/config"
	"github.com/PunVas/db-engn/internal/engine"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "bench" {
		runBenchmark()
		return
	}
	runREPL()
}

func runREPL() {
	settings := config.Default()
	e, err := engine.Open(settings)
	if err != nil {
		log.Fatalf("dbengn: open: %v", err)
	}
	defer e.Close()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("db> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "exit") {
			break
		}
		if err := dispatch(e, line); err != nil {
			fmt.Printf("error: %v\n", err)
		}
	}
}

func dispatch(e *engine.Engine, line string) error {
	fields := strings.Fields(line)
	cmd := strings.ToLower(fields[0])
	switch cmd {
	case "insert":
		if len(fields) != 3 {
			return fmt.Errorf("usage: insert <key> <value>")
		}
		ok, err := e.Insert(fields[1], fields[2])
		if err != nil {
			return err
		}
		fmt.Println(insertResult(ok))
	case "get":
		if len(fields) != 2 {
			return fmt.Errorf("usage: get <key>")
		}
		found, value, err := e.Get(fields[1])
		if err != nil {
			return err
		}
		fmt.Println(getResult(found, value))
	case "update":
		if len(fields) != 3 {
			return fmt.Errorf("usage: update <key> <value>")
		}
		ok, err := e.Update(fields[1], fields[2])
		if err != nil {
			return err
		}
		fmt.Println(updateResult(ok))
	case "remove":
		if len(fields) != 2 {
			return fmt.Errorf("usage: remove <key>")
		}
		ok, err := e.Remove(fields[1])
		if err != nil {
			return err
		}
		fmt.Println(removeResult(ok))
	case "stats":
		return e.Stats()
	case "checkpoint":
		return e.FlushAll()
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func insertResult(ok bool) string {
	if ok {
		return "OK"
	}
	return "FAILED, key already exists"
}

func getResult(found bool, value string) string {
	if found {
		return value
	}
	return "NOT FOUND"
}

func updateResult(ok bool) string {
	if ok {
		return "OK"
	}
	return "FAILED, key not found"
}

func removeResult(ok bool) string {
	if ok {
		return "OK, gone."
	}
	return "FAILED, key not found"
}

// runBenchmark reproduces original_source/main_test.cpp's PART 2/3: bulk
// insert 10,000 bench:<i> -> Data_<i*1000> records, then time indexed
// search against a linear scan over the same probe keys.
func runBenchmark() {
	dir, err := os.MkdirTemp("", "dbengn-bench")
	if err != nil {
		log.Fatalf("dbengn: bench: %v", err)
	}
	defer os.RemoveAll(dir)

	settings := config.Default()
	settings.DataFile = dir + "/database.dat"
	settings.JournalFile = dir + "/journal.log"

	e, err := engine.Open(settings)
	if err != nil {
		log.Fatalf("dbengn: bench: open: %v", err)
	}
	defer e.Close()

	const bulkSize = 10000
	fmt.Printf("Inserting %d records...\n", bulkSize)
	t1 := time.Now()
	for i := 0; i < bulkSize; i++ {
		key := fmt.Sprintf("bench:%d", i)
		value := fmt.Sprintf("Data_%d", i*1000)
		if _, err := e.Insert(key, value); err != nil {
			log.Fatalf("dbengn: bench: insert: %v", err)
		}
	}
	elapsed := time.Since(t1)
	fmt.Printf("Done. Took %s\n", elapsed)
	fmt.Printf("  -> Throughput: %.1f inserts/sec\n", float64(bulkSize)/elapsed.Seconds())

	if err := e.FlushAll(); err != nil {
		log.Fatalf("dbengn: bench: flush: %v", err)
	}

	probes := []string{"bench:100", "bench:2500", "bench:5000", "bench:7500", "bench:9999"}

	t_idx1 := time.Now()
	foundIdx := 0
	for _, k := range probes {
		found, _, err := e.Get(k)
		if err != nil {
			log.Fatalf("dbengn: bench: get: %v", err)
		}
		if found {
			foundIdx++
		}
	}
	durIdx := time.Since(t_idx1)

	t_lin1 := time.Now()
	foundLin := 0
	for _, k := range probes {
		found, _, err := e.LinearSearch(k)
		if err != nil {
			log.Fatalf("dbengn: bench: linear search: %v", err)
		}
		if found {
			foundLin++
		}
	}
	durLin := time.Since(t_lin1)

	fmt.Printf("\nIndexed search: found %d/%d keys in %s\n", foundIdx, len(probes), durIdx)
	fmt.Printf("Linear scan:    found %d/%d keys in %s\n", foundLin, len(probes), durLin)
	if durIdx > 0 {
		fmt.Printf("Indexed search is %.1fx faster\n", float64(durLin)/float64(durIdx))
	}

	if err := e.Stats(); err != nil {
		log.Fatalf("dbengn: bench: stats: %v", err)
	}
}
