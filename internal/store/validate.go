package store

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Message is one validation finding, in dataset order.
type Message struct {
	Warn bool
	Text string
}

// Result carries the outcome of validating one dataset: every error and
// warning across all items, accumulated so a single run surfaces the
// complete set instead of stopping at the first problem. Messages keeps
// errors and warnings interleaved in per-item order for reporting;
// Errors and Warnings are the same findings split by kind.
type Result struct {
	Messages []Message
	Errors   []string
	Warnings []string
}

// OK reports whether the dataset passed validation. Warnings never fail
// a run.
func (r Result) OK() bool {
	return len(r.Errors) == 0
}

func (r *Result) errorf(format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	r.Messages = append(r.Messages, Message{Text: text})
	r.Errors = append(r.Errors, text)
}

func (r *Result) warnf(format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	r.Messages = append(r.Messages, Message{Warn: true, Text: text})
	r.Warnings = append(r.Warnings, text)
}

// Validate checks every item of the dataset against the schema:
//
//   - title, category: non-empty strings
//   - date: ISO YYYY-MM-DD
//   - link: http(s) URL
//   - note: string, if present
//
// Duplicate links and duplicate (title, date) pairs, as well as unknown
// keys, are warnings only. Item indexes in messages are 1-based.
func (d *Dataset) Validate() Result {
	var res Result

	seenLink := make(map[string]bool)
	seenTitleDate := make(map[string]bool)

	for i, item := range d.Items {
		n := i + 1

		m, ok := item.(map[string]any)
		if !ok {
			res.errorf("item #%d must be a mapping", n)
			continue
		}

		if unknown := unknownKeys(m); len(unknown) > 0 {
			res.warnf("item #%d: unknown keys %v (will be ignored)", n, unknown)
		}

		title, _ := m["title"].(string)
		category, _ := m["category"].(string)
		date, _ := m["date"].(string)
		link, _ := m["link"].(string)

		if strings.TrimSpace(title) == "" {
			res.errorf("item #%d: missing or empty 'title'", n)
		}
		if strings.TrimSpace(category) == "" {
			res.errorf("item #%d: missing or empty 'category'", n)
		}
		if !isISODate(date) {
			res.errorf("item #%d: 'date' must be ISO YYYY-MM-DD", n)
		}
		if !isHTTPURL(link) {
			res.errorf("item #%d: 'link' must be an http(s) URL", n)
		}

		// Duplicate detection (warnings only).
		if link != "" {
			if seenLink[link] {
				res.warnf("item #%d: duplicate link %s", n, link)
			}
			seenLink[link] = true
		}
		if title != "" && date != "" {
			key := title + "\x00" + date
			if seenTitleDate[key] {
				res.warnf("item #%d: duplicate title+date (%s, %s)", n, title, date)
			}
			seenTitleDate[key] = true
		}

		if note, present := m["note"]; present && note != nil {
			if _, ok := note.(string); !ok {
				res.errorf("item #%d: 'note' must be a string if present", n)
			}
		}
	}

	return res
}

func unknownKeys(m map[string]any) []string {
	var out []string
	for k := range m {
		if !allowedKeys[k] {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func isISODate(s string) bool {
	if s == "" {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
