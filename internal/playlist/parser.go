// Package playlist parses and writes the extended-playlist (M3U) format
// used throughout this engine: a #EXTM3U header followed by alternating
// #EXTINF/URL line pairs.
package playlist

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/ivycast/curator/internal/catalog"
)

const maxLineSize = 1 << 20

// attributeRegex extracts key="value" pairs from an EXTINF line.
var attributeRegex = regexp.MustCompile(`([a-zA-Z0-9_-]+)="([^"]*)"`)

// ParseWarning is returned for lines Parse chose to skip rather than
// fail the whole parse on.
type ParseWarning struct {
	Line    int
	Message string
}

// ParseResult is the output of parsing one playlist body.
type ParseResult struct {
	Channels []catalog.Channel
	Warnings []ParseWarning
}

// Parse reads an extended-playlist body from r and returns the channels
// it describes. source is stamped onto each resulting Channel's Source
// field (provenance). A line that is not a comment and was not
// preceded by an #EXTINF line is skipped with a warning.
func Parse(r io.Reader, source string) ParseResult {
	var res ParseResult
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)

	var pending *pendingEntry
	lineNo := 0
	idx := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "#EXTM3U"):
			continue
		case strings.HasPrefix(line, "#EXTINF:"):
			pending = parseEXTINF(line)
		case strings.HasPrefix(line, "#"):
			// other directives (#EXTGRP, #EXT-X-*, ...) are ignored.
			continue
		default:
			if pending == nil {
				res.Warnings = append(res.Warnings, ParseWarning{
					Line:    lineNo,
					Message: "stream URL without preceding #EXTINF line",
				})
				continue
			}
			url := strings.ToLower(strings.TrimSpace(line))
			ch := buildChannel(pending, url, source, idx)
			res.Channels = append(res.Channels, ch)
			idx++
			pending = nil
		}
	}
	return res
}

type pendingEntry struct {
	duration string
	attrs    map[string]string
	title    string
}

func parseEXTINF(line string) *pendingEntry {
	rest := strings.TrimPrefix(line, "#EXTINF:")
	attrs := map[string]string{}
	for _, m := range attributeRegex.FindAllStringSubmatch(rest, -1) {
		attrs[strings.ToLower(m[1])] = m[2]
		rest = strings.Replace(rest, m[0], "", 1)
	}
	duration := rest
	title := ""
	if comma := strings.Index(rest, ","); comma >= 0 {
		duration = strings.TrimSpace(rest[:comma])
		title = strings.TrimSpace(rest[comma+1:])
	}
	// duration may have trailing attribute remnants; keep only the
	// leading numeric token.
	if sp := strings.IndexByte(duration, ' '); sp >= 0 {
		duration = duration[:sp]
	}
	return &pendingEntry{duration: duration, attrs: attrs, title: title}
}

func buildChannel(p *pendingEntry, url, source string, idx int) catalog.Channel {
	name := p.title
	if name == "" {
		name = p.attrs["tvg-name"]
	}
	ch := catalog.Channel{
		Name:          name,
		OriginalName:  name,
		StreamURL:     url,
		Logo:          p.attrs["tvg-logo"],
		Language:      p.attrs["tvg-language"],
		Country:       p.attrs["tvg-country"],
		Type:          catalog.TypeLive,
		IsActive:      true,
		Source:        source,
		OriginalIndex: idx,
		Quality:       catalog.QualityUnknown,
		Metadata:      map[string]string{},
	}
	if group := p.attrs["group-title"]; group != "" {
		ch.Categories = []string{group}
	}
	if id := p.attrs["tvg-id"]; id != "" {
		ch.Metadata["tvg-id"] = id
	}
	if _, err := strconv.ParseFloat(p.duration, 64); err == nil {
		ch.Metadata["duration"] = p.duration
	}
	return ch
}
