package recordio

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/zjrosen/packscheduler/internal/fileutil"
)

// writeLines replaces path with one line per element.
func writeLines(path string, lines []string) error {
	var buf bytes.Buffer
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return fileutil.WriteAtomic(path, buf.Bytes(), 0o644)
}

// eachLine calls fn with every non-blank line of r and its 1-based line number.
func eachLine(r io.Reader, fn func(n int, line string)) error {
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fn(n, line)
	}
	return scanner.Err()
}
