package recommend

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"spartan/fitness-tracker/internal/domain"
)

const (
	MaxReasonLength = 100
	MinPriority     = 1
	MaxPriority     = 3

	FallbackReason = "Recommended based on your fitness level"
)

// Pick is one model-chosen workout before reconciliation.
type Pick struct {
	ID       string
	Reason   string
	Priority int
}

// ParseError means the model reply was not a JSON array of objects with string ids.
type ParseError struct {
	Reply string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparsable recommendation reply: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse reads a model reply. Surrounding whitespace and a Markdown code
// fence are tolerated; anything else that is not a JSON array of objects
// with a string "id" yields a *ParseError. Priorities are clamped to
// [MinPriority, MaxPriority]; a missing one defaults to the item position.
func Parse(reply string) ([]Pick, error) {
	body := stripFence(strings.TrimSpace(reply))

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(body), &items); err != nil {
		return nil, &ParseError{Reply: reply, Err: err}
	}

	picks := make([]Pick, 0, len(items))
	for i, raw := range items {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
			return nil, &ParseError{Reply: reply, Err: fmt.Errorf("item %d is not an object", i)}
		}
		var id string
		if err := json.Unmarshal(fields["id"], &id); err != nil || id == "" {
			return nil, &ParseError{Reply: reply, Err: fmt.Errorf("item %d has no string id", i)}
		}

		pick := Pick{ID: id, Priority: i + 1}
		_ = json.Unmarshal(fields["reason"], &pick.Reason)
		var priority float64
		if err := json.Unmarshal(fields["priority"], &priority); err == nil {
			pick.Priority = int(priority)
		}
		pick.Priority = clampPriority(pick.Priority)
		picks = append(picks, pick)
	}
	return picks, nil
}

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// drop the info string, e.g. "json"
		s = s[nl+1:]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// Fallback picks the first count catalog entries in catalog order.
func Fallback(catalog []domain.Workout, count int) []Pick {
	n := min(count, len(catalog))
	picks := make([]Pick, 0, n)
	for i := 0; i < n; i++ {
		picks = append(picks, Pick{
			ID:       catalog[i].ID,
			Reason:   FallbackReason,
			Priority: i + 1,
		})
	}
	return picks
}

// Reconcile keeps at most count picks, joins them with catalog entries and
// silently drops ids the catalog does not know. Order is preserved. It
// returns the number of dropped picks.
func Reconcile(picks []Pick, catalog []domain.Workout, count int) ([]domain.Recommendation, int) {
	byID := make(map[string]*domain.Workout, len(catalog))
	for i := range catalog {
		byID[catalog[i].ID] = &catalog[i]
	}

	if len(picks) > count {
		picks = picks[:count]
	}

	recs := make([]domain.Recommendation, 0, len(picks))
	dropped := 0
	for _, p := range picks {
		w, ok := byID[p.ID]
		if !ok {
			dropped++
			continue
		}
		recs = append(recs, domain.Recommendation{
			ID:              w.ID,
			Title:           w.Title,
			Category:        w.Category,
			Difficulty:      w.Difficulty,
			DurationMinutes: w.DurationMinutes,
			Description:     w.Description,
			Reason:          truncate(p.Reason, MaxReasonLength),
			Priority:        p.Priority,
		})
	}
	return recs, dropped
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

func clampPriority(p int) int {
	return max(MinPriority, min(p, MaxPriority))
}
