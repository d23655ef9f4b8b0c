// Package snapshot converts timers and history to and from the portable sync
// format: JSON with millisecond epoch timestamps, base64 encoded into a
// "data" query parameter.
package snapshot

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/andy/focusflow/internal/domain"
)

var (
	ErrMalformed = errors.New("invalid data format")
	ErrTooLarge  = errors.New("data is too large to sync via QR code")
)

// Snapshot is a full copy of one dataset
type Snapshot struct {
	Timers     []domain.Timer
	History    []domain.HistoryItem
	ExportedAt time.Time
}

type wireTimer struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	CreatedAt     int64  `json:"createdAt"`
	IsRunning     bool   `json:"isRunning"`
	AccumulatedMs int64  `json:"accumulatedMs"`
	LastStartTime *int64 `json:"lastStartTime"`
	IsMinimized   bool   `json:"isMinimized"`
}

type wireHistoryItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	CompletedAt int64  `json:"completedAt"`
	DurationMs  int64  `json:"durationMs"`
}

type wireSnapshot struct {
	Timers     []wireTimer       `json:"timers"`
	History    []wireHistoryItem `json:"history"`
	ExportedAt int64             `json:"exportedAt"`
}

// Marshal returns the JSON form of s
func Marshal(s Snapshot) ([]byte, error) {
	w := wireSnapshot{
		Timers:     make([]wireTimer, 0, len(s.Timers)),
		History:    make([]wireHistoryItem, 0, len(s.History)),
		ExportedAt: s.ExportedAt.UnixMilli(),
	}
	for _, t := range s.Timers {
		wt := wireTimer{
			ID:            t.ID,
			Title:         t.Title,
			CreatedAt:     t.CreatedAt.UnixMilli(),
			IsRunning:     t.IsRunning,
			AccumulatedMs: t.Accumulated.Milliseconds(),
			IsMinimized:   t.IsMinimized,
		}
		if t.LastStartTime != nil {
			ms := t.LastStartTime.UnixMilli()
			wt.LastStartTime = &ms
		}
		w.Timers = append(w.Timers, wt)
	}
	for _, h := range s.History {
		w.History = append(w.History, wireHistoryItem{
			ID:          h.ID,
			Title:       h.Title,
			CompletedAt: h.CompletedAt.UnixMilli(),
			DurationMs:  h.Duration.Milliseconds(),
		})
	}

	data, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

// Unmarshal parses the JSON form. Both collections must be present as arrays.
func Unmarshal(data []byte) (Snapshot, error) {
	var raw struct {
		Timers     json.RawMessage `json:"timers"`
		History    json.RawMessage `json:"history"`
		ExportedAt int64           `json:"exportedAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if !isArray(raw.Timers) || !isArray(raw.History) {
		return Snapshot{}, ErrMalformed
	}

	var timers []wireTimer
	if err := json.Unmarshal(raw.Timers, &timers); err != nil {
		return Snapshot{}, fmt.Errorf("%w: timers: %v", ErrMalformed, err)
	}
	var history []wireHistoryItem
	if err := json.Unmarshal(raw.History, &history); err != nil {
		return Snapshot{}, fmt.Errorf("%w: history: %v", ErrMalformed, err)
	}

	s := Snapshot{
		Timers:     make([]domain.Timer, 0, len(timers)),
		History:    make([]domain.HistoryItem, 0, len(history)),
		ExportedAt: time.UnixMilli(raw.ExportedAt),
	}
	for _, wt := range timers {
		t := domain.Timer{
			ID:          wt.ID,
			Title:       wt.Title,
			CreatedAt:   time.UnixMilli(wt.CreatedAt),
			IsRunning:   wt.IsRunning,
			Accumulated: time.Duration(wt.AccumulatedMs) * time.Millisecond,
			IsMinimized: wt.IsMinimized,
		}
		if wt.LastStartTime != nil {
			start := time.UnixMilli(*wt.LastStartTime)
			t.LastStartTime = &start
		}
		s.Timers = append(s.Timers, t)
	}
	for _, wh := range history {
		s.History = append(s.History, domain.HistoryItem{
			ID:          wh.ID,
			Title:       wh.Title,
			CompletedAt: time.UnixMilli(wh.CompletedAt),
			Duration:    time.Duration(wh.DurationMs) * time.Millisecond,
		})
	}
	return s, nil
}

// Encode returns the base64 payload for s
func Encode(s Snapshot) (string, error) {
	data, err := Marshal(s)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Decode accepts either a bare base64 payload or a URL carrying it in the
// data query parameter
func Decode(input string) (Snapshot, error) {
	payload := strings.TrimSpace(input)
	if payload == "" {
		return Snapshot{}, ErrMalformed
	}

	if isLink(payload) {
		u, err := url.Parse(payload)
		if err != nil {
			return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		payload = u.Query().Get("data")
		// unescaped '+' in a pasted link decodes to a space
		payload = strings.ReplaceAll(payload, " ", "+")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(payload)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return Unmarshal(data)
}

// isLink reports whether input is a URL rather than a bare payload. Neither
// '?' nor "://" can appear in standard base64.
func isLink(input string) bool {
	return strings.Contains(input, "?") || strings.Contains(input, "://")
}

// BuildURL returns baseURL with the encoded snapshot in the data parameter.
// When the result exceeds maxLen the URL is still returned alongside
// ErrTooLarge. A maxLen of zero disables the check.
func BuildURL(baseURL string, s Snapshot, maxLen int) (string, error) {
	payload, err := Encode(s)
	if err != nil {
		return "", err
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid sync base url: %w", err)
	}
	q := u.Query()
	q.Set("data", payload)
	u.RawQuery = q.Encode()

	link := u.String()
	if maxLen > 0 && len(link) > maxLen {
		return link, ErrTooLarge
	}
	return link, nil
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
