package tui

import (
	"os/exec"
	"runtime"
	"strings"
)

// truncate shortens a string to max length with ellipsis
func truncate(s string, max int) string {
	if max <= 3 {
		max = 4
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// visibleDepth counts how many of a task's ancestors are present in the
// visible set, which drives the tree indentation.
func visibleDepth(taskID string, parents map[string]string) int {
	depth := 0
	visited := map[string]bool{taskID: true}
	cur := parents[taskID]
	for cur != "" && !visited[cur] {
		if _, ok := parents[cur]; !ok {
			break
		}
		visited[cur] = true
		depth++
		cur = parents[cur]
	}
	return depth
}

// openBrowser opens a URL with the platform's default handler.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}

// wrapText wraps text at the given width, preserving existing newlines.
func wrapText(text string, width int) []string {
	if width < 1 {
		width = 1
	}
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		if para == "" {
			lines = append(lines, "")
			continue
		}
		words := strings.Fields(para)
		cur := ""
		for _, w := range words {
			if cur == "" {
				cur = w
			} else if len(cur)+1+len(w) <= width {
				cur += " " + w
			} else {
				lines = append(lines, cur)
				cur = w
			}
		}
		if cur != "" {
			lines = append(lines, cur)
		}
	}
	return lines
}
