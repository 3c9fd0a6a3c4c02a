// Package reference turns pasted text into the nine video identifiers shown by the grid.
package reference

import (
	"regexp"
	"strings"
)

// Slots is the fixed number of grid positions.
const Slots = 9

// DefaultInput is what a fresh page starts with.
const DefaultInput = `https://www.youtube.com/watch?v=S0qzrYXn7Sw
https://www.youtube.com/watch?v=U235YxnIVJY
https://www.youtube.com/watch?v=LKLZnWfVbhY
https://www.youtube.com/watch?v=qOXZQfMum8M
https://www.youtube.com/watch?v=oCFhj7znXqQ
https://www.youtube.com/watch?v=fFu9rMKVUWk
https://www.youtube.com/watch?v=y4sVsAGadqM
https://www.youtube.com/watch?v=UH-ruQEyg8o
https://www.youtube.com/watch?v=Yuyxq7YFcAY`

var (
	// watch page, short link and embed link, in that order of likelihood
	linkPattern = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&\s?]+)`)
	barePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
)

// Extract returns the video identifier found in one line of input.
// Links win over bare identifiers; anything else yields ok == false.
func Extract(line string) (id string, ok bool) {
	line = strings.TrimSpace(line)
	if m := linkPattern.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	if barePattern.MatchString(line) {
		return line, true
	}
	return "", false
}

// Lines returns the non-blank lines of raw, trimmed.
func Lines(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// Parse maps the first Slots non-blank lines of raw onto slots.
// Unrecognised lines and missing lines become "".
func Parse(raw string) [Slots]string {
	var ids [Slots]string
	lines := Lines(raw)
	if len(lines) > Slots {
		lines = lines[:Slots]
	}
	for i, line := range lines {
		ids[i], _ = Extract(line)
	}
	return ids
}

// EmbedURL is the iframe source for id.
func EmbedURL(id string) string {
	return "https://www.youtube.com/embed/" + id
}
