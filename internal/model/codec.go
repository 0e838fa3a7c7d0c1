package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNotSequence means the document parsed but its top level is not an array.
	ErrNotSequence = errors.New("document is not a list of items")
	// ErrMalformed means the document is not JSON, or an element is not an item object.
	ErrMalformed = errors.New("document is not valid item JSON")
)

// MarshalItems renders items as a pretty-printed JSON array.
func MarshalItems(items []Item) ([]byte, error) {
	if items == nil {
		items = []Item{}
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return b, nil
}

// wireItem is the loosely typed stored shape. Older saves wrote the rating
// as a string and sometimes left timestamps out.
type wireItem struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Status    string          `json:"status"`
	Tier      string          `json:"tier"`
	Rating    json.RawMessage `json:"ratingNumeric"`
	CoverURL  string          `json:"coverUrl"`
	AddedAt   string          `json:"addedAt"`
	UpdatedAt string          `json:"updatedAt"`
}

// UnmarshalItems validates and decodes a stored or imported document.
// Errors wrap ErrNotSequence or ErrMalformed.
func UnmarshalItems(doc []byte) ([]Item, error) {
	raw, err := splitDocument(doc)
	if err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(raw))
	for i, r := range raw {
		it, err := decodeItem(r, false)
		if err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", ErrMalformed, i, err)
		}
		items = append(items, it)
	}
	return items, nil
}

// UnmarshalItemsLenient decodes a saved collection keeping everything it
// can. Fields of the wrong type are coerced, an unparsable rating becomes
// nil, and only elements that are not objects are skipped; each skip is
// reported in skipped. err is set only when the document itself is not a
// JSON array.
func UnmarshalItemsLenient(doc []byte) (items []Item, skipped []error, err error) {
	raw, err := splitDocument(doc)
	if err != nil {
		return nil, nil, err
	}
	items = make([]Item, 0, len(raw))
	for i, r := range raw {
		it, err := decodeItem(r, true)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("%w: element %d: %v", ErrMalformed, i, err))
			continue
		}
		items = append(items, it)
	}
	return items, skipped, nil
}

func splitDocument(doc []byte) ([]json.RawMessage, error) {
	doc = bytes.TrimSpace(doc)
	if !json.Valid(doc) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}
	if doc[0] != '[' {
		return nil, ErrNotSequence
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(doc, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return raw, nil
}

func decodeItem(r json.RawMessage, lenient bool) (Item, error) {
	r = bytes.TrimSpace(r)
	if len(r) == 0 || r[0] != '{' {
		return Item{}, errors.New("not an object")
	}
	var w wireItem
	if err := json.Unmarshal(r, &w); err != nil {
		if !lenient {
			return Item{}, err
		}
		if w, err = looseWireItem(r); err != nil {
			return Item{}, err
		}
	}
	rating, err := decodeRating(w.Rating)
	if err != nil {
		if !lenient {
			return Item{}, err
		}
		rating = nil
	}
	return Item{
		ID:        w.ID,
		Title:     w.Title,
		Status:    decodeStatus(w.Status),
		Tier:      ParseTier(w.Tier, ExtendedRanks),
		Rating:    rating,
		CoverURL:  w.CoverURL,
		AddedAt:   decodeTime(w.AddedAt),
		UpdatedAt: decodeTime(w.UpdatedAt),
	}, nil
}

// looseWireItem reads the known fields one by one so that a single field of
// the wrong type does not cost the whole element.
func looseWireItem(r json.RawMessage) (wireItem, error) {
	var f map[string]json.RawMessage
	if err := json.Unmarshal(r, &f); err != nil {
		return wireItem{}, err
	}
	return wireItem{
		ID:        looseString(f["id"]),
		Title:     looseString(f["title"]),
		Status:    looseString(f["status"]),
		Tier:      looseString(f["tier"]),
		Rating:    f["ratingNumeric"],
		CoverURL:  looseString(f["coverUrl"]),
		AddedAt:   looseString(f["addedAt"]),
		UpdatedAt: looseString(f["updatedAt"]),
	}, nil
}

// looseString keeps strings, spells numbers and booleans as written, and
// drops objects, arrays and null.
func looseString(r json.RawMessage) string {
	r = bytes.TrimSpace(r)
	if len(r) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(r, &s); err == nil {
		return s
	}
	switch r[0] {
	case '{', '[', 'n':
		return ""
	}
	return string(r)
}

// Unknown statuses are kept verbatim; only a missing one gets the default.
func decodeStatus(raw string) Status {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultStatus
	}
	if s, ok := ParseStatus(raw); ok {
		return s
	}
	return Status(raw)
}

func decodeRating(r json.RawMessage) (*float64, error) {
	r = bytes.TrimSpace(r)
	if len(r) == 0 || bytes.Equal(r, []byte("null")) {
		return nil, nil
	}
	if r[0] == '"' {
		var s string
		if err := json.Unmarshal(r, &s); err != nil {
			return nil, err
		}
		s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
		if s == "" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("ratingNumeric: %w", err)
		}
		return &v, nil
	}
	var v float64
	if err := json.Unmarshal(r, &v); err != nil {
		return nil, fmt.Errorf("ratingNumeric: %w", err)
	}
	return &v, nil
}

func decodeTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
