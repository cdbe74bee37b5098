// Package loader ingests benchmark instances: Taillard text files, JSON
// documents, and retrieval from local paths, HTTP URLs, or S3 objects.
package loader

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/me/goshop/pkg/jobshop"
)

// ParseTaillard parses the standard Taillard text format: an optional
// block of comment lines (prefixed with #), one header line with the
// instance dimensions, then one line per job of machine/duration pairs.
func ParseTaillard(name string, data []byte) (*jobshop.Instance, error) {
	var jobs [][]*jobshop.Operation
	headerSeen := false

	for lineNo, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !headerSeen {
			headerSeen = true
			continue
		}

		fields := strings.Fields(line)
		if len(fields)%2 != 0 {
			return nil, fmt.Errorf("line %d: odd field count %d, want machine/duration pairs",
				lineNo+1, len(fields))
		}

		var job []*jobshop.Operation
		for i := 0; i < len(fields); i += 2 {
			machine, err := strconv.Atoi(fields[i])
			if err != nil {
				return nil, fmt.Errorf("line %d: machine id %q: %w", lineNo+1, fields[i], err)
			}
			duration, err := strconv.Atoi(fields[i+1])
			if err != nil {
				return nil, fmt.Errorf("line %d: duration %q: %w", lineNo+1, fields[i+1], err)
			}
			job = append(job, jobshop.NewOperation(duration, machine))
		}
		jobs = append(jobs, job)
	}

	if len(jobs) == 0 {
		return nil, fmt.Errorf("no job lines found")
	}
	return jobshop.New(name, jobs, jobshop.Metadata{})
}

// InstanceNameFromPath derives an instance name from a file path or URL:
// the base name without extension.
func InstanceNameFromPath(path string) string {
	name := filepath.Base(path)
	if dot := strings.IndexByte(name, '.'); dot > 0 {
		name = name[:dot]
	}
	return name
}
