package automatic

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// AnalyzeLogFile reads a game log written by PlayMany and rebuilds its
// report.
func AnalyzeLogFile(filepath string) (Report, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return Report{}, err
	}
	defer file.Close()
	return AnalyzeLog(file)
}

func AnalyzeLog(r io.Reader) (Report, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 5

	// Record looks like:
	// answer,turns,solved,guesses,patterns
	var results []GameResult
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Report{}, err
		}
		if record[0] == "answer" {
			// this is the header line
			continue
		}
		turns, err := strconv.Atoi(record[1])
		if err != nil {
			return Report{}, err
		}
		solved, err := strconv.ParseBool(record[2])
		if err != nil {
			return Report{}, err
		}
		res := GameResult{
			Answer:   record[0],
			Guesses:  strings.Fields(record[3]),
			Patterns: strings.Fields(record[4]),
			Solved:   solved,
		}
		if res.Turns() != turns {
			return Report{}, fmt.Errorf("game %q: %d turns but %d guesses", res.Answer, turns, res.Turns())
		}
		results = append(results, res)
	}
	return summarize(results), nil
}
